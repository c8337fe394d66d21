package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qapi/services"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run one sync batch in-process",
	Long: `Syncs every user with stored tokens over the configured window and prints
the summary as JSON. Suitable for a cron job that has direct access to the
database and credential store. Exits non-zero only on a fatal batch error;
individual user failures are reported in the summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.ValidateEnv()
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}
		logger := newLogger(cfg)

		svcs, err := services.NewServices(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svcs.Close()

		summary, runErr := svcs.Sync.RunBatch(ctx)
		if summary != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
