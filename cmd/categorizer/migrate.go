package main

import (
	"errors"
	"log/slog"

	"github.com/SscSPs/categorization_engine/internal/platform/config"
	"github.com/SscSPs/categorization_engine/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(logger *slog.Logger, cfgFn func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFn()
			if cfg.DatabaseURL == "" {
				return errors.New("PGSQL_URL must be set to run migrations")
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
		},
	}
}
