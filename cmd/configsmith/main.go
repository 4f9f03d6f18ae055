// Command configsmith is the command-line host for the scraping
// configuration engine: it detects repeating item patterns in a local
// HTML file, confirms one into a project config, and test-drives field
// extraction against that config.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/configsmith/engine/internal/config"
	"github.com/configsmith/engine/internal/logging"
)

func main() {
	cfg := config.LoadOrDefault()

	var verbose bool
	root := &cobra.Command{
		Use:           "configsmith",
		Short:         "Build scraping configurations from local HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	logger := func() *zap.Logger {
		if verbose || cfg.Logging.Development {
			return logging.NewDevelopment()
		}
		return logging.NewDefault()
	}

	root.AddCommand(newDetectCmd(cfg, logger))
	root.AddCommand(newExtractCmd(cfg, logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
