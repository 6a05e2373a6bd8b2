package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4i-labs/provcrate/internal/branding"
	"github.com/m4i-labs/provcrate/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ` + config.FilePath() + `.

Keys:
  extractor.path     external extractor program
  extractor.name     built-in extractor, or implementation within the program
  context.url        vocabulary context document
  namespace.base     IRI the run hash is appended to
  namespace.length   hex characters of the run hash (8-64)
  output.dir         where archives are written (default: the work directory)
  workflow.file      workflow definition packaged when the trace names none
  log.level          debug, info, warn, error
  log.format         text, json

Every key can also be set with an environment variable, e.g.
` + branding.EnvVar("EXTRACTOR_PATH") + ` for extractor.path.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}
