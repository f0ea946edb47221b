package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/masterdata/internal/config"
	"github.com/JonMunkholm/masterdata/internal/logging"
	"github.com/JonMunkholm/masterdata/internal/masterdata"
	"github.com/JonMunkholm/masterdata/internal/metrics"
	"github.com/JonMunkholm/masterdata/internal/store/memory"
	"github.com/JonMunkholm/masterdata/internal/store/postgres"
	"github.com/JonMunkholm/masterdata/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"import_max_rows", cfg.Import.MaxRows,
		"api_key_required", cfg.Security.RequireAPIKey,
	)

	ctx := context.Background()

	stores, health, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	services := masterdata.NewServices(stores, masterdata.Options{
		Metrics: metrics.New(prometheus.DefaultRegisterer),
	})
	registry := services.Registry()
	slog.Info("entities registered", "count", registry.Len(), "groups", len(registry.Groups()))

	server := web.NewServer(registry, cfg, web.Options{
		Gatherer: prometheus.DefaultGatherer,
		Health:   health,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStores builds the repositories for the configured driver, with a
// health check and a close function.
func openStores(ctx context.Context, cfg *config.Config) (masterdata.Stores, func(context.Context) error, func(), error) {
	if cfg.Store.Driver == config.DriverMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return memory.NewStores(), nil, func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return masterdata.Stores{}, nil, nil, err
	}
	slog.Info("connected to database", "name", postgres.DatabaseName(cfg.Database.URL))

	if cfg.Database.ApplySchema {
		if err := postgres.ApplySchema(ctx, pool); err != nil {
			pool.Close()
			return masterdata.Stores{}, nil, nil, err
		}
		slog.Info("database schema applied")
	}

	return postgres.NewStores(pool), pool.Ping, pool.Close, nil
}
