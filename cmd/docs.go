package cmd

import (
	"fmt"

	"github.com/pynotedb/doctask/internal/config"
	"github.com/pynotedb/doctask/internal/docbuild"
	"github.com/pynotedb/doctask/internal/runner"
	"github.com/pynotedb/doctask/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	docsDryRun bool

	// newFs and newCommander are overridden in tests.
	newFs        = afero.NewOsFs
	newCommander = func(cfg *config.Config) docbuild.Commander {
		return runner.Runner{
			Verbose: verbose,
			Dir:     cfg.Docs.WorkDir,
			Stdout:  outWriter(),
			Stderr:  errWriter(),
		}
	}

	docsCmd = &cobra.Command{
		Use:   "docs",
		Short: "Build the API documentation with pdoc3",
		Long: `Render the API documentation and move it to the output directory.

The documentation tool is installed for the current user when it is missing.
Its arguments come from docs.args, or from the "commands = pdoc3 ..." line of
the tox configuration when docs.args is empty.

Examples:
  doctask docs             # Build into build/docs
  doctask docs --dry-run   # Show what would run
  doctask docs -V          # Stream pdoc3 output`,
		Annotations: map[string]string{taskAnnotation: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBuilder(docsDryRun)
			if err != nil {
				return err
			}
			report, err := b.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("documentation build failed: %w", err)
			}
			printReport(outWriter(), report)
			return nil
		},
	}
)

func init() {
	docsCmd.Flags().BoolVar(&docsDryRun, "dry-run", false, "Print the steps without running them")
	rootCmd.AddCommand(docsCmd)
}

func newBuilder(dryRun bool) (*docbuild.Builder, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	b := docbuild.New(builderOptions(cfg, dryRun), newCommander(cfg), newFs())
	if !verbose {
		b = b.WithProgress(ui.NewSpinner())
	}
	return b, nil
}

func builderOptions(cfg *config.Config, dryRun bool) docbuild.Options {
	return docbuild.Options{
		HomeEnv:      cfg.Docs.HomeEnv,
		FallbackHome: cfg.Docs.FallbackHome,
		ToolSuffix:   cfg.Docs.ToolSuffix,
		ToolName:     cfg.Docs.ToolName,
		Installer:    cfg.Docs.Installer,
		ToxFile:      cfg.Docs.ToxFile,
		Args:         cfg.Docs.Args,
		OutputDir:    cfg.Docs.OutputDir,
		ToolOutput:   cfg.Docs.ToolOutput,
		WorkDir:      cfg.Docs.WorkDir,
		DryRun:       dryRun,
	}
}
