package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m4i-labs/provcrate/internal/config"
	"github.com/m4i-labs/provcrate/internal/extractor"
)

var (
	checkRule string
	checkFile string
	checkEnv  string
)

func init() {
	extractorCheckCmd.Flags().StringVar(&checkRule, "rule", "", "Rule name passed to the extractor")
	extractorCheckCmd.Flags().StringVar(&checkFile, "file", "", "Run extract_params on this file")
	extractorCheckCmd.Flags().StringVar(&checkEnv, "env", "", "Run extract_tools on this environment file")
	extractorCmd.AddCommand(extractorListCmd)
	extractorCmd.AddCommand(extractorCheckCmd)
	rootCmd.AddCommand(extractorCmd)
}

var extractorCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Inspect parameter and tool extractors",
}

var extractorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in extractors",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := extractors()
		if err != nil {
			return err
		}
		for _, name := range reg.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var extractorCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Load an extractor and optionally run it on a file",
	Long: `Load the configured extractor (or the program at path) the way report does,
and report configuration errors. With --file or --env, run the extractor
and print its validated output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := extractors()
		if err != nil {
			return err
		}
		path := config.Get(config.KeyExtractorPath)
		if len(args) == 1 {
			path = args[0]
		}
		ex, err := extractor.Load(reg, path, config.Get(config.KeyExtractorName))
		if err != nil {
			return err
		}
		if !ex.Enabled() {
			return fmt.Errorf("no extractor configured; set %s or %s", config.KeyExtractorPath, config.KeyExtractorName)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "extractor %q loaded\n", ex.Name())

		if checkFile != "" {
			params, err := ex.Params(checkRule, checkFile)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, params); err != nil {
				return err
			}
		}
		if checkEnv != "" {
			data, err := os.ReadFile(checkEnv)
			if err != nil {
				return fmt.Errorf("reading environment file: %w", err)
			}
			tools, err := ex.Tools(checkRule, string(data))
			if err != nil {
				return err
			}
			if err := printJSON(cmd, tools); err != nil {
				return err
			}
		}
		return nil
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
