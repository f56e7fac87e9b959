package cmd

import (
	"github.com/spf13/cobra"

	ssosync "github.com/moneyforward-i/admina-sso-sync"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
)

var (
	syncSource      string
	syncDestination string
	syncDryRun      bool
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync application rosters from a source into a destination",
	Long: `Sync fetches every SSO application and its user roster from the
selected source, computes the create/update/delete plan against each
application's Admina workspace, and applies it in chunks.

Credentials and feature flags are read from the environment (or a .env
file): ms_client_id, ms_client_secret, ms_tenant_id, admina_org_id,
admina_api_token, register_zero_user_app, register_disabled_app,
preload_cache, target_services.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSource, "source", "azuread", "source to sync from (azuread, records)")
	syncCmd.Flags().StringVar(&syncDestination, "destination", "admina", "destination to sync into (admina)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "compute and log plans without writing")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	result, err := ssosync.Sync(ctx,
		ssosync.WithSourceName(syncSource),
		ssosync.WithDestinationName(syncDestination),
		ssosync.WithDryRun(syncDryRun),
	)
	if err != nil {
		return err
	}

	log.Info().
		Str("source", result.Source).
		Str("destination", result.Destination).
		Int("apps", len(result.Apps)).
		Str("duration", result.FinishedAt.Sub(result.StartedAt).String()).
		Msg("Sync finished")
	return nil
}
