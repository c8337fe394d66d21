package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qapi/routes"
	"github.com/quatton/vitalsync/pkg/qapi/services"
	"github.com/spf13/cobra"
)

var (
	syncUserID string
	syncStart  string
	syncEnd    string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync one user in-process",
	Example: `  vitalsync sync --user 10129
  vitalsync sync --user 10129 --start 2024-01-01 --end 2024-01-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.ValidateEnv()
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}
		logger := newLogger(cfg)

		svcs, err := services.NewServices(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svcs.Close()

		w, err := routes.ParseWindow(svcs.Sync.BatchWindow(), syncStart, syncEnd)
		if err != nil {
			return err
		}

		res, syncErr := svcs.Sync.SyncUser(cmd.Context(), syncUserID, w)
		if res != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return syncErr
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVarP(&syncUserID, "user", "u", "", "WHOOP user id")
	syncCmd.Flags().StringVar(&syncStart, "start", "", "window start (RFC 3339 or YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&syncEnd, "end", "", "window end, inclusive day for YYYY-MM-DD")
	_ = syncCmd.MarkFlagRequired("user")
}
