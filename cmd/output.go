package cmd

import (
	"fmt"
	"io"

	"github.com/pynotedb/doctask/internal/docbuild"
	"github.com/pynotedb/doctask/internal/toxini"
)

func outWriter() io.Writer {
	return rootCmd.OutOrStdout()
}

func errWriter() io.Writer {
	return rootCmd.ErrOrStderr()
}

func printReport(w io.Writer, report *docbuild.Report) {
	prefix := ""
	if report.DryRun {
		prefix = "[dry-run] "
	}
	if report.Installed {
		fmt.Fprintf(w, "%sInstalled documentation tool at %s\n", prefix, report.ToolPath)
	}
	fmt.Fprintf(w, "%sArguments: %s\n", prefix, toxini.Join(report.Args))
	fmt.Fprintf(w, "%sDocumentation written to %s\n", prefix, report.OutputDir)
}
