// Package main implements the entry point for the meeting scheduler API
// server. It loads configuration, sets up logging, optionally runs schema
// migrations, wires the application dependencies and serves HTTP until it
// receives SIGINT or SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/meeting-api/internal/config"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/phrazzld/meeting-api/internal/platform/postgres"
	"github.com/phrazzld/meeting-api/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("meeting-api: %v", err)
	}
}

func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, closer, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", cerr)
		}
	}()

	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("auth_provider", cfg.Auth.Provider))

	ctx := context.Background()

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, migrateCmd, l)
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// handleMigrations runs a single goose command against the configured
// database. Migrations only apply to the postgres backend.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	if cfg.Store.Backend != config.BackendPostgres {
		return fmt.Errorf("migrations require the %s backend, configured backend is %s",
			config.BackendPostgres, cfg.Store.Backend)
	}

	l.Info("Executing migrations",
		slog.String("command", command),
		slog.String("database_url", redact.String(cfg.Database.URL)))

	db, err := postgres.OpenDB(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			l.Error("Error closing database connection", slog.String("error", cerr.Error()))
		}
	}()

	return postgres.Migrate(ctx, db, command, l)
}
