package cmd

import (
	"fmt"

	"github.com/pynotedb/doctask/internal/clidoc"
	"github.com/spf13/cobra"
)

var gendocFormat string

var gendocCmd = &cobra.Command{
	Use:   "gendoc [dir]",
	Short: "Generate the doctask command reference",
	Long: `Write one reference page per doctask command.

Formats: man (default, into docs/man), markdown, rest and yaml (into docs/cli).`,
	Annotations: map[string]string{taskAnnotation: "true"},
	Args:        cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		dir := clidoc.DefaultDirs[gendocFormat]
		if len(args) == 1 {
			dir = args[0]
		}
		if err := clidoc.Generate(rootCmd, gendocFormat, dir); err != nil {
			return err
		}
		fmt.Fprintf(outWriter(), "Generated %s pages in %s\n", gendocFormat, dir)
		return nil
	},
}

func init() {
	gendocCmd.Flags().StringVarP(&gendocFormat, "format", "f", "man", "Output format")
	_ = gendocCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return clidoc.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.AddCommand(gendocCmd)
}
