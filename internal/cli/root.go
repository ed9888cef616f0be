// Package cli implements the assistant command line.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"assistant/internal/config"
	"assistant/internal/logging"
)

var (
	cfgPath  string
	verbose  bool
	docPaths []string
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Answer questions from your documents",
	Long: `A virtual assistant that answers questions from a local document corpus.
Documents are split into fixed-size chunks, embedded and searched by nearest
neighbour. Questions that are not close enough to any chunk get a fallback
answer instead of a guess.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (default ./config.yaml or ~/.config/assistant/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringSliceVar(&docPaths, "docs", nil, "extra files, globs or directories to ingest")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadApp builds the application for a command. Tests replace it.
var loadApp = func(ctx context.Context, logOut io.Writer) (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.Configure(cfg.Log.Level, cfg.Log.Format, logOut)
	if verbose {
		logging.SetLevel(slog.LevelDebug)
	}
	return Build(ctx, cfg, docPaths, logger)
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}
