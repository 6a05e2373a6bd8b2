package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/m4i-labs/provcrate/internal/config"
	"github.com/m4i-labs/provcrate/internal/crate"
	"github.com/m4i-labs/provcrate/internal/ctxlog"
	"github.com/m4i-labs/provcrate/internal/extractor"
	"github.com/m4i-labs/provcrate/internal/provgraph"
	"github.com/m4i-labs/provcrate/internal/trace"
	"github.com/m4i-labs/provcrate/internal/vocab"
)

var (
	reportWorkDir string
	reportOffline bool
)

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportWorkDir, "workdir", "C", ".", "Directory the trace's file paths are relative to")
	f.BoolVar(&reportOffline, "offline", false, "Do not fetch the vocabulary context")
	f.String("extractor", "", "Path of an extractor program")
	f.String("extractor-name", "", "Extractor implementation to use (built-in name, or one of several in the program)")
	f.StringP("output", "o", "", "Directory the archive and reports are written to")
	f.String("workflow", "", "Workflow definition file, when the trace names none")
	_ = viper.BindPFlag(config.KeyExtractorPath, f.Lookup("extractor"))
	_ = viper.BindPFlag(config.KeyExtractorName, f.Lookup("extractor-name"))
	_ = viper.BindPFlag(config.KeyOutputDir, f.Lookup("output"))
	_ = viper.BindPFlag(config.KeyWorkflowFile, f.Lookup("workflow"))
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <trace>",
	Short: "Build the provenance archive of a workflow run",
	Long: `Read a workflow trace (YAML or JSON), build its provenance graph and write
provenance-<hash>.zip with report.jsonld, report.ttl, ro-crate-metadata.json
and every file the run touched.

Parameters and tools are read by an extractor: a built-in one selected with
--extractor-name, or an external program given with --extractor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Resolve()
		if err != nil {
			return err
		}
		reg, err := extractors()
		if err != nil {
			return err
		}
		_, err = runReport(cmd.Context(), reg, settings, reportOptions{
			TracePath: args[0],
			WorkDir:   reportWorkDir,
			Offline:   reportOffline,
		}, cmd.OutOrStdout())
		return err
	},
}

type reportOptions struct {
	TracePath string
	WorkDir   string
	Offline   bool
	Client    *http.Client
}

func runReport(ctx context.Context, reg *extractor.Registry, s *config.Settings, opts reportOptions, out io.Writer) (*crate.Result, error) {
	logger := ctxlog.FromContext(ctx)

	ex, err := extractor.Load(reg, s.ExtractorPath, s.ExtractorName)
	if err != nil {
		return nil, err
	}
	if ex.Enabled() {
		logger.Info("using extractor", "name", ex.Name())
	}

	tr, err := trace.Load(opts.TracePath)
	if err != nil {
		return nil, err
	}

	workDir, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolving work directory: %w", err)
	}
	outputDir := s.OutputDir
	if outputDir == "" {
		outputDir = workDir
	} else if !filepath.IsAbs(outputDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving output directory: %w", err)
		}
		outputDir = filepath.Join(cwd, outputDir)
	}

	fetched := map[string]any{}
	if !opts.Offline {
		fetched = vocab.FetchContext(ctx, opts.Client, s.ContextURL)
	}

	g, err := (&provgraph.Builder{Extractor: ex, WorkDir: workDir}).Build(ctx, tr)
	if err != nil {
		return nil, err
	}

	res, err := crate.Package(ctx, g, tr, crate.Options{
		NamespaceBase: s.NamespaceBase,
		HashLength:    s.NamespaceLength,
		Context:       fetched,
		WorkDir:       workDir,
		OutputDir:     outputDir,
		WorkflowFile:  s.WorkflowFile,
		Name:          filepath.Base(workDir),
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Wrote %s\n", res.Archive)
	fmt.Fprintf(out, "  namespace:  %s\n", res.Namespace)
	fmt.Fprintf(out, "  steps: %d  jobs: %d  files: %d  parameters: %d  tools: %d\n",
		len(g.Steps), len(g.Jobs), len(g.Files), len(g.Parameters), len(g.Tools))
	if len(g.Warnings) > 0 {
		fmt.Fprintf(out, "  %d warning(s):\n", len(g.Warnings))
		for _, w := range g.Warnings {
			fmt.Fprintf(out, "    %s\n", w)
		}
	}
	return res, nil
}
