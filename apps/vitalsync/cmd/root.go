package cmd

import (
	"os"

	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qlog"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "vitalsync",
	Short: "WHOOP health data sync",
	Long: `vitalsync links WHOOP accounts over OAuth and keeps a per-day table of
cycles, recovery, sleep and workouts in Postgres.

Server-side commands (serve, batch, sync, migrate, archive) read their settings from
the environment. Client commands (login, trigger) talk to a running server
configured in vitalsync.yaml or VITALSYNC_* variables.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "client config file (default vitalsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides LOG_FORMAT)")
}

// newLogger builds the process logger from flags first and env second.
func newLogger(cfg *config.EnvConfig) *qlog.Logger {
	level := qlog.ParseLevel("info")
	format := qlog.FormatText
	if cfg != nil {
		level = qlog.ParseLevel(cfg.LogLevel)
		if cfg.LogFormat == string(qlog.FormatJSON) {
			format = qlog.FormatJSON
		}
	}
	if logFormat != "" {
		format = qlog.Format(logFormat)
	}
	if verbose {
		return qlog.NewLogger(qlog.ParseLevel("debug"), format, os.Stderr)
	}
	return qlog.NewLogger(level, format, os.Stderr)
}
