package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qapi/services"
	"github.com/quatton/vitalsync/pkg/qart"
	"github.com/spf13/cobra"
)

var (
	archiveRun string
	archiveYes bool
)

// openArchive is swapped in tests.
var openArchive = func(ctx context.Context) (*qart.Archive, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.S3Endpoint == "" {
		return nil, errors.New("S3_ENDPOINT is not set, the raw archive is disabled")
	}
	return services.NewArchive(ctx, cfg)
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect or purge the raw WHOOP payloads archived during syncs",
}

var archiveListCmd = &cobra.Command{
	Use:   "list <userId>",
	Short: "List archived payloads for a user",
	Example: `  vitalsync archive list 10129
  vitalsync archive list 10129 --run 4f1c...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openArchive(cmd.Context())
		if err != nil {
			return err
		}
		objs, err := a.Runs(cmd.Context(), args[0], archiveRun)
		if err != nil {
			return fmt.Errorf("listing archive for %s: %w", args[0], err)
		}
		if objs == nil {
			objs = []*qart.Object{}
		}
		return printJSON(cmd.OutOrStdout(), objs)
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <userId> <runId> <stream>",
	Short: "Print one archived stream",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openArchive(cmd.Context())
		if err != nil {
			return err
		}
		var payload json.RawMessage
		if err := a.Get(cmd.Context(), args[0], args[1], args[2], &payload); err != nil {
			if errors.Is(err, qart.ErrNotFound) {
				return fmt.Errorf("no %s payload archived for user %s in run %s", args[2], args[0], args[1])
			}
			return err
		}
		return printJSON(cmd.OutOrStdout(), payload)
	},
}

var archivePurgeCmd = &cobra.Command{
	Use:   "purge <userId>",
	Short: "Delete every archived payload for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !archiveYes {
			return errors.New("refusing to purge without --yes")
		}
		a, err := openArchive(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Purge(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("purging archive for %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged archived payloads for user %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archivePurgeCmd)
	archiveListCmd.Flags().StringVar(&archiveRun, "run", "", "only this sync run")
	archivePurgeCmd.Flags().BoolVar(&archiveYes, "yes", false, "confirm the purge")
}
