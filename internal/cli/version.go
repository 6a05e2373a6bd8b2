package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m4i-labs/provcrate/internal/branding"
	"github.com/m4i-labs/provcrate/internal/crate"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, archive profile and built-in extractors",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := extractors()
		if err != nil {
			return err
		}
		info := versionInfo{
			Version:    buildVersion,
			Commit:     buildCommit,
			Date:       buildDate,
			Profile:    crate.Profile,
			Extractors: reg.Names(),
		}
		return writeVersion(cmd.OutOrStdout(), info, versionShort, versionJSON)
	},
}

type versionInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Date       string   `json:"date"`
	Profile    string   `json:"profile"`
	Extractors []string `json:"extractors"`
}

func writeVersion(w io.Writer, info versionInfo, short, asJSON bool) error {
	switch {
	case short:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case asJSON:
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	_, err := fmt.Fprintf(w, "%s version %s (commit: %s, built: %s)\narchives: %s\nextractors: %s\n",
		branding.CLIName(), info.Version, info.Commit, info.Date,
		info.Profile, strings.Join(info.Extractors, ", "))
	return err
}
