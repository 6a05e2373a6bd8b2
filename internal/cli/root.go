package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/m4i-labs/provcrate/internal/branding"
	"github.com/m4i-labs/provcrate/internal/config"
	"github.com/m4i-labs/provcrate/internal/ctxlog"
	"github.com/m4i-labs/provcrate/internal/extractor"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` records the provenance of a finished workflow run. It reads the
run's job trace, builds a deduplicated metadata4ing graph of steps, jobs,
files, parameters and tools, and packages it as JSON-LD and Turtle together
with the files the run touched in a content-addressed zip archive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		logger := newLogger(config.Get(config.KeyLogLevel), config.Get(config.KeyLogFormat), os.Stderr)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// extractors returns the registry of built-in extractors.
func extractors() (*extractor.Registry, error) {
	reg := extractor.NewRegistry()
	if err := extractor.RegisterBuiltins(reg); err != nil {
		return nil, fmt.Errorf("registering built-in extractors: %w", err)
	}
	return reg, nil
}
