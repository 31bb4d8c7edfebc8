// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Infernape3000/Tenacio/internal/adapters/clients"
	"github.com/Infernape3000/Tenacio/internal/adapters/clients/acl"
	"github.com/Infernape3000/Tenacio/internal/adapters/flags"
	"github.com/Infernape3000/Tenacio/internal/adapters/http"
	"github.com/Infernape3000/Tenacio/internal/adapters/http/handlers"
	"github.com/Infernape3000/Tenacio/internal/adapters/store"
	"github.com/Infernape3000/Tenacio/internal/app"
	"github.com/Infernape3000/Tenacio/internal/platform/config"
	"github.com/Infernape3000/Tenacio/internal/platform/logging"
	"github.com/Infernape3000/Tenacio/internal/platform/telemetry"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open the durable state store
	stateStore, storeCloser, err := openStateStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}

	if storeCloser != nil {
		defer func() {
			if closeErr := storeCloser(); closeErr != nil {
				logger.Error("state store close error", slog.Any("error", closeErr))
			}
		}()
	}

	if checker, ok := stateStore.(ports.HealthChecker); ok {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering state store health check: %w", err)
		}
	}

	// 7. Create downstream clients behind the ACL
	quoteClient, err := newACLClient(cfg, cfg.Services.Quote, logger)
	if err != nil {
		return fmt.Errorf("creating quote client: %w", err)
	}

	historyClient, err := newACLClient(cfg, cfg.Services.History, logger)
	if err != nil {
		return fmt.Errorf("creating history client: %w", err)
	}

	shareClient, err := newACLClient(cfg, cfg.Services.Share, logger)
	if err != nil {
		return fmt.Errorf("creating share client: %w", err)
	}

	quotes := acl.NewQuoteClient(quoteClient)
	history := acl.NewHistoryClient(historyClient)
	shareRelay := acl.NewShareRelay(shareClient)

	if err := healthRegistry.Register(quotes); err != nil {
		return fmt.Errorf("registering quote client health check: %w", err)
	}

	if err := healthRegistry.Register(history); err != nil {
		return fmt.Errorf("registering history client health check: %w", err)
	}

	// 8. Create the application layer
	featureFlags := flags.NewStatic(cfg.Flags, logger)
	prefsStore := app.NewPreferencesStore(stateStore)
	quotaStore := app.NewQuotaStore(stateStore, cfg.Quota.DailyMax, logger)

	// Roll the allowance forward on startup so the first request after a
	// restart sees a fresh day.
	if err := quotaStore.CheckAndReset(ctx); err != nil {
		return fmt.Errorf("initializing quota state: %w", err)
	}

	insightService := app.NewInsightService(
		app.NewExecutor(logger),
		quotes,
		stateStore,
		prefsStore,
		quotaStore,
		history,
		featureFlags,
		logger,
	)
	shareService := app.NewShareService(stateStore, shareRelay, logger)

	// 9. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	insightHandler := handlers.NewInsightHandler(insightService, shareService)
	preferencesHandler := handlers.NewPreferencesHandler(prefsStore)

	// 10. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 11. Setup router with all middleware and routes
	routerCfg := http.RouterConfig{
		Logger:             logger,
		AuthConfig:         &cfg.Auth,
		AppConfig:          &cfg.App,
		HealthHandler:      healthHandler,
		InsightHandler:     insightHandler,
		PreferencesHandler: preferencesHandler,
		Timeout:            http.DefaultRequestTimeout,
	}
	http.SetupRouter(server.Engine(), routerCfg)

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, insightService, serverErr, cfg.Server.ShutdownTimeout)
}

// openStateStore builds the configured state store implementation.
// The returned closer is nil for stores with nothing to release.
func openStateStore(cfg *config.Config, logger *slog.Logger) (ports.StateStore, func() error, error) {
	switch cfg.Store.Driver {
	case "memory":
		return store.NewMemoryStore(), nil, nil
	default:
		sqlite, err := store.OpenSQLite(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, err
		}

		return sqlite, sqlite.Close, nil
	}
}

// newACLClient builds an instrumented HTTP client for one downstream service.
func newACLClient(cfg *config.Config, endpoint config.ServiceEndpointConfig, logger *slog.Logger) (*clients.Client, error) {
	return clients.New(&clients.Config{
		BaseURL:     endpoint.BaseURL,
		ServiceName: endpoint.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server and drains the
// detached history writes.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	insights *app.InsightService,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let in-flight history appends finish before the process exits
	insights.Flush()

	logger.Info("shutdown complete")

	return nil
}
