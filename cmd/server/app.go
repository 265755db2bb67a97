package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/phrazzld/meeting-api/internal/config"
	"github.com/phrazzld/meeting-api/internal/platform/memory"
	"github.com/phrazzld/meeting-api/internal/platform/metrics"
	"github.com/phrazzld/meeting-api/internal/platform/postgres"
	"github.com/phrazzld/meeting-api/internal/platform/redisstore"
	"github.com/phrazzld/meeting-api/internal/redact"
	"github.com/phrazzld/meeting-api/internal/service"
	"github.com/phrazzld/meeting-api/internal/service/auth"
	"github.com/phrazzld/meeting-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Backend connections; at most one is set.
	db    *sql.DB
	redis *redis.Client

	meetingStore   store.MeetingStore
	verifier       auth.Verifier
	meetingService service.MeetingService

	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics
}

// newApplication creates a new application instance with all dependencies initialized.
// Backend connections are opened here and released by cleanup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.httpMetrics = metrics.NewHTTPMetrics(app.registry)

	var err error
	app.verifier, err = setupVerifier(ctx, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity verifier: %w", err)
	}
	logger.Info("Identity verifier initialized", slog.String("provider", cfg.Auth.Provider))

	if err := app.setupStore(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	logger.Info("Meeting store initialized", slog.String("backend", cfg.Store.Backend))

	app.meetingService, err = service.NewMeetingService(app.meetingStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create meeting service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func setupVerifier(ctx context.Context, cfg config.AuthConfig) (auth.Verifier, error) {
	switch cfg.Provider {
	case config.ProviderJWT:
		return auth.NewJWTService(cfg)
	case config.ProviderOIDC:
		return auth.NewOIDCVerifier(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

// setupStore opens the configured backend and builds the meeting store on it.
func (app *application) setupStore(ctx context.Context) error {
	cfg := app.config

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		app.logger.Info("Connecting to database",
			slog.String("database_url", redact.String(cfg.Database.URL)))
		db, err := postgres.OpenDB(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		app.db = db

		if cfg.Store.AutoMigrate {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, app.logger); err != nil {
				return err
			}
		}
		app.meetingStore = postgres.NewPostgresMeetingStore(db, app.logger)

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.redis = client
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("could not connect to redis (%s): %w", cfg.Redis.Addr, err)
		}
		app.meetingStore = redisstore.NewRedisMeetingStore(client, app.logger)

	case config.BackendMemory:
		app.logger.Warn("Using in-memory store, meetings are lost on restart")
		app.meetingStore = memory.NewMeetingStore(app.logger)

	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
