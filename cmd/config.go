package cmd

import (
	"fmt"
	"strings"

	"github.com/pynotedb/doctask/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage doctask configuration",
	}

	configGetCmd = &cobra.Command{
		Use:   "get",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			fmt.Fprintf(outWriter(), "# %s\n%s", config.ConfigPath(), out)
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save it to the configuration file.

List values (docs.installer, docs.args) are split on whitespace.

Keys:
  ` + strings.Join(config.Keys(), "\n  "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := config.SetValue(args[0], args[1]); err != nil {
				return err
			}
			if _, err := config.GetConfig(); err != nil {
				return err
			}
			if err := config.SaveConfig(); err != nil {
				return err
			}
			fmt.Fprintf(outWriter(), "Set %s in %s\n", args[0], config.ConfigPath())
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
