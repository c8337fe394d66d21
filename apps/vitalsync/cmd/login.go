package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/quatton/vitalsync/pkg/qsdk"
	"github.com/spf13/cobra"
)

var (
	loginAPIKey string
	loginDelete bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the server API key in the OS keyring",
	Long: `Saves the key sent as X-API-Key by the trigger commands. The key is read
from --api-key or, when omitted, from the first line of stdin. The command
also checks the key against the server and prints the WHOOP connect URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sdk, err := newSdk()
		if err != nil {
			return err
		}

		if loginDelete {
			if err := qsdk.DeleteAPIKey(cfg.BaseURL); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed API key for %s\n", cfg.BaseURL)
			return nil
		}

		key := strings.TrimSpace(loginAPIKey)
		if key == "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "API key for %s: ", cfg.BaseURL)
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading API key: %w", err)
			}
			key = strings.TrimSpace(line)
		}
		if key == "" {
			return fmt.Errorf("an API key is required")
		}

		sdk.APIKey = key
		if _, err := sdk.BatchStatus(cmd.Context()); err != nil {
			return explain(err)
		}
		if err := qsdk.SaveAPIKey(cfg.BaseURL, key); err != nil {
			return fmt.Errorf("saving API key: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ API key saved for %s\n", cfg.BaseURL)
		fmt.Fprintf(cmd.OutOrStdout(), "Connect a WHOOP account at %s\n", sdk.ConnectURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "API key (read from stdin when omitted)")
	loginCmd.Flags().BoolVar(&loginDelete, "delete", false, "remove the stored key instead")
}
