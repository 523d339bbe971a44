// Package main is the entry point for the news API server.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
// 1. Read configuration (internal/config: env vars plus an optional .env)
// 2. Create dependencies (logger, database store)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/news-api/internal/config"
	"github.com/sakif/news-api/internal/fixtures"
	"github.com/sakif/news-api/internal/repository"
	"github.com/sakif/news-api/internal/repository/postgres"
	sqliteRepo "github.com/sakif/news-api/internal/repository/sqlite"
	"github.com/sakif/news-api/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// === 2. SET UP LOGGING ===
	// LOG_FORMAT=json suits log shippers; text is easier to read in a terminal.
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// === 3. OPEN THE STORE ===
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// === 4. OPTIONAL SEEDING ===
	// SEED_ON_START wipes every table and loads the bundled dataset.
	// Meant for demos and local development only.
	if cfg.SeedOnStart {
		seeder, ok := store.(repository.Seeder)
		if !ok {
			store.Close()
			return fmt.Errorf("driver %s cannot seed", cfg.DBDriver)
		}
		if err := seeder.Seed(ctx, fixtures.Test()); err != nil {
			store.Close()
			return fmt.Errorf("seeding database: %w", err)
		}
		logger.Warn("database reseeded with fixture data")
	}

	// === 5. CREATE AND START THE SERVER ===
	srv, err := server.New(ctx, cfg, logger, store)
	if err != nil {
		store.Close()
		return fmt.Errorf("creating server: %w", err)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	// and closes the store on the way out.
	return srv.Start()
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openStore connects to the configured backend.
//
// SQLite creates its schema on open. PostgreSQL applies the bundled schema
// only when DB_MIGRATE is true, so a database managed by an external
// migration tool is left alone.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, postgres.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		if cfg.DBMigrate {
			if err := db.EnsureSchema(ctx); err != nil {
				db.Close()
				return nil, fmt.Errorf("applying schema: %w", err)
			}
		}
		logger.Info("connected to postgres", slog.Bool("migrated", cfg.DBMigrate))
		return db, nil

	default:
		// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dbDir, err)
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		logger.Info("opened sqlite database", slog.String("path", cfg.DBPath))
		return db, nil
	}
}
