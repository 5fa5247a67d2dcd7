package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/categorization_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newRootCommand(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:   "categorizer",
		Short: "Hybrid rule and model based transaction categorization",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", slog.String("error", err.Error()))
				return err
			}
			cfg = loaded
			return nil
		},
	}

	cfgFn := func() *config.Config { return cfg }
	cmd.AddCommand(newServeCommand(logger, cfgFn))
	cmd.AddCommand(newMigrateCommand(logger, cfgFn))
	cmd.AddCommand(newSeedCategoriesCommand(logger, cfgFn))

	return cmd
}
