package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/categorization_engine/internal/adapters/llm"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/core/services"
	"github.com/SscSPs/categorization_engine/internal/handlers"
	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/SscSPs/categorization_engine/internal/platform/config"
	"github.com/SscSPs/categorization_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/categorization_engine/internal/repositories/memory"
	"github.com/SscSPs/categorization_engine/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand(logger *slog.Logger, cfgFn func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), logger, cfgFn())
		},
	}
}

func runServer(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	repos, cleanup, err := buildRepositories(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	model, err := buildModel(ctx, logger, cfg)
	if err != nil {
		return err
	}
	container := services.NewServiceContainer(cfg, repos, model)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		return err
	}

	handlers.RegisterRoutes(r, cfg, container)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-serverErr:
		if ok {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// buildRepositories selects the persistence backend. The postgres backend is migrated
// before use.
func buildRepositories(ctx context.Context, logger *slog.Logger, cfg *config.Config) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore().Provider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		database.ClosePgxPool(dbPool)
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func buildModel(ctx context.Context, logger *slog.Logger, cfg *config.Config) (portssvc.GenerativeModel, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("Generative model disabled")
		return llm.DisabledProvider{}, nil
	}
	provider, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.ModelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create model provider: %w", err)
	}
	logger.Info("Generative model configured", slog.String("model", cfg.ModelName))
	return provider, nil
}
