package main

import (
	"fmt"

	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
	postgres.MigrateReset,
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <up|down|status|version|reset>",
		Short: "Run database migrations",
		Long: `Run the SQL migrations embedded in the binary against database.url.

Examples:
  storefront migrate up
  storefront migrate status`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadAppConfig("migrate")
			if err != nil {
				return err
			}

			db, err := setupAppDatabase(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := postgres.Migrate(cmd.Context(), db, args[0], logger); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			return nil
		},
	}
}
