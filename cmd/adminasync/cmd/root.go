// Package cmd implements the adminasync CLI commands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
)

var (
	verbose bool
	jsonLog bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "adminasync",
	Short: "Sync SSO application rosters into Admina",
	Long: `Adminasync reconciles per-application user rosters from an identity
source (Microsoft Entra ID, or a records API) into Admina custom
workspaces: one workspace per application under the Single Sign-On
service, kept in sync with bulk account writes.`,
	PersistentPreRun: setupCommand,
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", false, "log as JSON instead of console output")
}

func setupCommand(cmd *cobra.Command, _ []string) {
	config.Init()

	cfg := logging.DefaultConfig()
	if verbose {
		cfg.Level = "debug"
	}
	cfg.Format = "console"
	if jsonLog {
		cfg.Format = "json"
	}
	logging.Configure(cfg)

	cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
}
