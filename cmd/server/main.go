package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/schoolcal/internal/config"
	"github.com/JonMunkholm/schoolcal/internal/core"
	"github.com/JonMunkholm/schoolcal/internal/logging"
	"github.com/JonMunkholm/schoolcal/internal/store/postgres"
	"github.com/JonMunkholm/schoolcal/internal/store/sqlite"
	"github.com/JonMunkholm/schoolcal/internal/web"
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
		"driver", cfg.Database.Driver,
		"undo_window", cfg.Import.UndoWindow,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
	)

	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded",
		"schools", catalog.Schools,
		"departments", len(catalog.Departments),
		"grades", catalog.GradeLevels,
	)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	service := core.NewService(store, core.Options{
		Catalog:           catalog,
		UndoWindow:        cfg.Import.UndoWindow,
		HistoryLimit:      cfg.Import.HistoryLimit,
		LookupConcurrency: cfg.Import.LookupConcurrency,
		MaxConcurrent:     cfg.Import.MaxConcurrent,
		MaxWait:           cfg.Import.MaxWaitTime,
	})

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let running commits finish so no batch is left half-written
		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// openStore connects the configured backend and creates its tables when
// auto-migration is on. The returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (core.Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Database.SQLitePath, cfg.Database.AutoMigrate)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("opened sqlite database", "path", cfg.Database.SQLitePath)
		return store, func() { _ = store.Close() }, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}

		if u, err := url.Parse(cfg.Database.URL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}

		store := postgres.New(pool)
		if cfg.Database.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			slog.Info("schema up to date")
		}
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
