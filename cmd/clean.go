package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:         "clean",
	Short:       "Remove generated documentation",
	Annotations: map[string]string{taskAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		b, err := newBuilder(false)
		if err != nil {
			return err
		}
		if err := b.Clean(); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
		fmt.Fprintln(outWriter(), "Documentation output removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
