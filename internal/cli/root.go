// Package cli implements the fixedloop command: a demo host that runs a
// particle simulation on the loop and inspects recorded frame stats.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/comalice/fixedloop/internal/config"
	"github.com/comalice/fixedloop/internal/logging"
)

type rootFlags struct {
	configPath string
	debug      bool
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root cobra command for the fixedloop CLI.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	var cfg *config.Config
	var logger *slog.Logger

	root := &cobra.Command{
		Use:   "fixedloop",
		Short: "fixedloop: fixed-timestep update loop host",
		Long:  "fixedloop runs a demo simulation on a fixed-timestep loop and reports its frame pacing.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = flags.logLevel
			}
			if cmd.Flags().Changed("log-format") || cfg.LogFormat == "" {
				cfg.LogFormat = flags.logFormat
			}
			if flags.debug {
				cfg.LogLevel = "debug"
			}
			format, err := logging.ParseFormat(cfg.LogFormat)
			if err != nil {
				return err
			}
			logger = logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel), format)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "fixedloop.yaml", "YAML config file (missing file uses defaults)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")

	env := func() (*config.Config, *slog.Logger) { return cfg, logger }
	root.AddCommand(
		newRunCmd(env),
		newStatsCmd(env),
	)

	return root
}
