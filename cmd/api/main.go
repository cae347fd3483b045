// Command api runs the DocVault document storage service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	"docvault/internal/logging"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// @title DocVault API
// @version 1.0
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docvault",
		Short:         "Per-user document storage service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newVersionCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, _ := logging.Setup(cfg.Log)

			db, err := database.NewPostgres(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			return migration.EnsureMigrated(cmd.Context(), db, logger, cfg.Database.Host)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docvault %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}
}
