package cmd

import (
	"context"
	"fmt"

	"github.com/quatton/vitalsync/pkg/db"
	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qlog"
	"github.com/spf13/cobra"
)

var migrateRollback bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		if !migrateRollback {
			return migrateUp(cmd.Context(), cfg, logger)
		}

		database, err := db.New(cmd.Context(), cfg.DB())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		return db.Rollback(cmd.Context(), database, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateRollback, "rollback", false, "roll back the last migration group")
}

func migrateUp(ctx context.Context, cfg *config.EnvConfig, logger *qlog.Logger) error {
	database, err := db.New(ctx, cfg.DB())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	return db.Migrate(ctx, database, logger)
}
