package cmd

import (
	"context"
	"fmt"

	"github.com/pynotedb/doctask/internal/config"
	"github.com/pynotedb/doctask/internal/logging"
	"github.com/spf13/cobra"
)

// taskAnnotation marks commands that are listed by `doctask tasks`.
const taskAnnotation = "doctask/task"

var (
	cfgFile   string
	verbose   bool
	configErr error
	rootCtx   = context.Background()
	rootCmd   = &cobra.Command{
		Use:   "doctask",
		Short: "doctask - pynotedb build tasks",
		Long: `doctask runs the build tasks of the pynotedb project. ` +
			`Its main task renders the API documentation with pdoc3.`,
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// SetContext sets the context used for command execution.
func SetContext(ctx context.Context) {
	rootCtx = ctx
}

func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}

// RootCmd exposes the command tree for documentation generators.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if configErr != nil {
			return fmt.Errorf("configuration error: %w", configErr)
		}
		return setupLogging()
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is ./"+config.DefaultConfigFile+")")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false,
		"Show debug logs and stream external command output")
}

func initConfig() {
	configErr = config.InitConfig(cfgFile)
}

func setupLogging() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	level := logging.ParseLevel(cfg.Log.Level)
	if verbose {
		level = logging.DebugLevel
	}
	logging.Init(logging.Config{Level: level, Output: errWriter(), Pretty: cfg.Log.Pretty})
	return nil
}
