package cmd

import (
	"errors"
	"fmt"

	"github.com/quatton/vitalsync/pkg/qsdk"
	"github.com/spf13/cobra"
)

var (
	triggerStart string
	triggerEnd   string
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Trigger syncs on a running server",
}

var triggerUserCmd = &cobra.Command{
	Use:   "user <userId>",
	Short: "Sync one user on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sdk, err := newSdk()
		if err != nil {
			return err
		}
		resp, err := sdk.SyncUser(cmd.Context(), qsdk.SyncRequest{
			UserID:    args[0],
			StartDate: triggerStart,
			EndDate:   triggerEnd,
		})
		if resp != nil {
			if perr := printJSON(cmd.OutOrStdout(), resp); perr != nil {
				return perr
			}
		}
		return explain(err)
	},
}

var triggerBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a batch on the server and wait for its summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sdk, err := newSdk()
		if err != nil {
			return err
		}
		summary, err := sdk.RunBatch(cmd.Context())
		if err != nil {
			return explain(err)
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var triggerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server's batch state",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sdk, err := newSdk()
		if err != nil {
			return err
		}
		status, err := sdk.BatchStatus(cmd.Context())
		if err != nil {
			return explain(err)
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	triggerCmd.AddCommand(triggerUserCmd, triggerBatchCmd, triggerStatusCmd)
	triggerUserCmd.Flags().StringVar(&triggerStart, "start", "", "window start (RFC 3339 or YYYY-MM-DD)")
	triggerUserCmd.Flags().StringVar(&triggerEnd, "end", "", "window end, inclusive day for YYYY-MM-DD")
}

func explain(err error) error {
	if err == nil {
		return nil
	}
	if qsdk.IsUnauthorized(err) {
		return errors.New("the server rejected the API key; run `vitalsync login` to store a new one")
	}
	return fmt.Errorf("request failed: %w", err)
}
