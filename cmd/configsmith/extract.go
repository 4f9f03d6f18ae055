package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/configsmith/engine/internal/config"
	"github.com/configsmith/engine/internal/document"
	"github.com/configsmith/engine/internal/extract"
	"github.com/configsmith/engine/internal/pipeline"
	"github.com/configsmith/engine/internal/project"
	"github.com/configsmith/engine/internal/scope"
	"github.com/configsmith/engine/internal/selector"
)

func newExtractCmd(cfg *config.Config, logger func() *zap.Logger) *cobra.Command {
	var (
		projectPath  string
		fieldName    string
		devMode      bool
		manifestPath string
	)

	cmd := &cobra.Command{
		Use:   "extract <file.html>",
		Short: "Test-drive a project config's fields against a local HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer log.Sync() //nolint:errcheck

			doc, err := document.ParseFile(args[0])
			if err != nil {
				return err
			}
			proj, err := project.Load(projectPath)
			if err != nil {
				return err
			}

			registry := pipeline.NewRegistry()
			if manifestPath != "" {
				manifest, err := project.LoadManifest(manifestPath)
				if err != nil {
					return err
				}
				registry, err = manifest.BuildRegistry()
				if err != nil {
					return err
				}
				log.Info("loaded custom processors",
					zap.Strings("names", registry.Names()))
			}

			runner := pipeline.New(pipeline.Options{
				Workers: cfg.Pipeline.Workers,
				Timeout: cfg.Pipeline.Timeout,
				Logger:  log,
			})
			defer runner.Close()

			itemNodes := resolveItems(doc, proj, log)

			ran := 0
			for _, field := range proj.Detail.Fields {
				if fieldName != "" && field.Name != fieldName {
					continue
				}
				ran++
				if err := runField(doc, field, itemNodes, runner, devMode, registry, log); err != nil {
					return err
				}
			}
			if ran == 0 {
				return fmt.Errorf("no matching fields in %s", projectPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "project config JSON (required)")
	cmd.Flags().StringVar(&fieldName, "field", "", "run a single field by name")
	cmd.Flags().BoolVar(&devMode, "dev", false, "permit custom processors")
	cmd.Flags().StringVar(&manifestPath, "processors", "", "YAML manifest of custom processor scripts")
	cmd.MarkFlagRequired("project") //nolint:errcheck
	return cmd
}

// resolveItems locates the confirmed listing items for item-scoped
// fields. Missing or unresolvable selectors just mean no item scope.
func resolveItems(doc *document.Document, proj *project.Project, log *zap.Logger) []*html.Node {
	if proj.Listing.ItemSelector == nil {
		return nil
	}
	nodes, meta := selector.Resolve([]*html.Node{doc.Root()}, *proj.Listing.ItemSelector, selector.Many)
	log.Debug("resolved listing items",
		zap.Int("count", len(nodes)), zap.String("strategy", meta.Strategy))
	return nodes
}

func runField(doc *document.Document, field project.Field, itemNodes []*html.Node,
	runner *pipeline.Runner, devMode bool, registry *pipeline.Registry, log *zap.Logger) error {

	bases, _, err := scope.Resolve(doc, field.Scope, itemNodes)
	if err != nil {
		return fmt.Errorf("field %s: %w", field.Name, err)
	}

	if field.Scope.Type == scope.Item {
		for i, base := range bases {
			value, plog, err := extractOne(doc, field, []*html.Node{base}, i, runner, devMode, registry)
			if err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
			printResult(fmt.Sprintf("%s[%d]", field.Name, i), value, plog)
		}
		return nil
	}

	value, plog, err := extractOne(doc, field, bases, pipeline.NoItemIndex, runner, devMode, registry)
	if err != nil {
		return fmt.Errorf("field %s: %w", field.Name, err)
	}
	printResult(field.Name, value, plog)
	return nil
}

func extractOne(doc *document.Document, field project.Field, bases []*html.Node, itemIndex int,
	runner *pipeline.Runner, devMode bool, registry *pipeline.Registry) (any, []pipeline.LogEntry, error) {

	nodes, _ := selector.Resolve(bases, field.Selector, selector.One)
	raw, err := extract.Extract(nodes, field.Mode, field.Attr)
	if err != nil {
		return nil, nil, err
	}

	var source string
	if len(nodes) > 0 {
		source = document.OuterHTML(nodes[0])
	}
	pctx := pipeline.NewContext(doc.URL(), source, field.Selector, string(field.Scope.Type), itemIndex)
	value, plog := runner.Run(raw, field.Steps, pctx, devMode, registry)
	return value, plog, nil
}

func printResult(name string, value any, plog []pipeline.LogEntry) {
	encoded, err := sonic.MarshalString(value)
	if err != nil {
		encoded = fmt.Sprintf("%v", value)
	}
	fmt.Printf("%s = %s\n", name, encoded)
	for _, entry := range plog {
		fmt.Printf("    %-24s %s\n", entry.Step, entry.Outcome)
	}
}
