package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/logger"
)

// settings is loaded before any subcommand runs.
var settings *config.Config

var rootCmd = &cobra.Command{
	Use:          "ftl",
	Short:        "ftl links feature file steps to their definitions",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".", cmd.Flags())
		if err != nil {
			return err
		}
		if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
			return fmt.Errorf("configuring logger: %w", err)
		}
		if cfg.File != "" {
			logger.Debug("Loaded config", "file", cfg.File)
		}
		settings = cfg
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./ftl.yaml)")
	flags.String("database", "", "Link index database (default "+config.DefaultDatabase+")")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-file", "", "Write logs to a file instead of stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
