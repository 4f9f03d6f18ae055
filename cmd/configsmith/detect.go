package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/configsmith/engine/internal/config"
	"github.com/configsmith/engine/internal/detect"
	"github.com/configsmith/engine/internal/document"
	"github.com/configsmith/engine/internal/project"
	"github.com/configsmith/engine/internal/selector"
)

func newDetectCmd(cfg *config.Config, logger func() *zap.Logger) *cobra.Command {
	opts := detect.Options{
		MinRepeats:    cfg.Detect.MinRepeats,
		MinComplexity: cfg.Detect.MinComplexity,
		MaxCandidates: cfg.Detect.MaxCandidates,
	}
	var (
		confirm int
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "detect <file.html>",
		Short: "Rank repeating-item candidates in a local HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer log.Sync() //nolint:errcheck

			doc, err := document.ParseFile(args[0])
			if err != nil {
				return err
			}
			opts.Logger = log

			cands := detect.Detect(doc.Root(), opts)
			log.Info("detection finished",
				zap.String("file", doc.URL()),
				zap.Int("candidates", len(cands)))

			if len(cands) == 0 {
				fmt.Println("no repeating-item candidates found")
				return nil
			}

			fmt.Printf("%-4s %-8s %-10s %-28s %s\n", "#", "COUNT", "SCORE", "CONTAINER", "PATH")
			for i, c := range cands {
				fmt.Printf("%-4d %-8d %-10.3f %-28s %s\n",
					i+1, c.Count, c.Score, c.ContainerDesc, c.ContainerPath)
			}

			if outPath == "" {
				return nil
			}
			if confirm < 1 || confirm > len(cands) {
				return fmt.Errorf("--confirm must name a listed candidate (1..%d)", len(cands))
			}
			return confirmCandidate(doc, cands[confirm-1], outPath, log)
		},
	}

	cmd.Flags().IntVar(&opts.MinRepeats, "min-repeats", opts.MinRepeats, "minimum sibling group size")
	cmd.Flags().IntVar(&opts.MinComplexity, "min-complexity", opts.MinComplexity, "minimum average subtree size")
	cmd.Flags().IntVar(&opts.MaxCandidates, "max", opts.MaxCandidates, "maximum candidates to report")
	cmd.Flags().IntVar(&confirm, "confirm", 1, "candidate number to confirm into the project")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a project config with the confirmed item selector")
	return cmd
}

func confirmCandidate(doc *document.Document, cand detect.Candidate, outPath string, log *zap.Logger) error {
	css, xpath := detect.Selectors(doc.Root(), cand)
	if css == "" && xpath == "" {
		return fmt.Errorf("candidate no longer resolves in %s", doc.URL())
	}

	proj := project.New()
	proj.Listing.ItemSelector = &selector.Spec{CSS: css, XPath: xpath}
	proj.Listing.DetectorMeta = &project.DetectorMeta{Count: cand.Count, Score: cand.Score}

	if err := project.Save(outPath, proj); err != nil {
		return err
	}
	log.Info("item selector confirmed",
		zap.String("css", css), zap.String("out", outPath))
	fmt.Printf("confirmed: css=%q xpath=%q -> %s\n", css, xpath, outPath)
	return nil
}
