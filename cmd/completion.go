package cmd

import (
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var completionNoDesc bool

// completionShells maps a shell name to its script generator.
var completionShells = map[string]func(w io.Writer, withDesc bool) error{
	"bash": func(w io.Writer, withDesc bool) error { return rootCmd.GenBashCompletionV2(w, withDesc) },
	"zsh": func(w io.Writer, withDesc bool) error {
		if withDesc {
			return rootCmd.GenZshCompletion(w)
		}
		return rootCmd.GenZshCompletionNoDesc(w)
	},
	"fish": func(w io.Writer, withDesc bool) error { return rootCmd.GenFishCompletion(w, withDesc) },
	"powershell": func(w io.Writer, withDesc bool) error {
		if withDesc {
			return rootCmd.GenPowerShellCompletionWithDesc(w)
		}
		return rootCmd.GenPowerShellCompletion(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate shell completion script",
	Long: `Print a completion script for doctask.

Configuration keys for "config set" and gendoc formats are completed.

  source <(doctask completion bash)      # ~/.bashrc
  source <(doctask completion zsh)       # ~/.zshrc
  doctask completion fish | source       # ~/.config/fish/config.fish`,
	ValidArgs:             completionShellNames(),
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(_ *cobra.Command, args []string) error {
		return completionShells[args[0]](outWriter(), !completionNoDesc)
	},
}

func init() {
	completionCmd.Flags().BoolVar(&completionNoDesc, "no-descriptions", false, "Leave command descriptions out of the script")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func completionShellNames() []string {
	names := make([]string, 0, len(completionShells))
	for name := range completionShells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
