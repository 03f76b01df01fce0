// main is the entry point of the Software Engineers API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env and env overrides)
//  2. Initialise the logger
//  3. Open the record store (SQLite or PostgreSQL) and create the schema
//  4. Build the Gemini chat client and the engineer service
//  5. Optionally seed sample engineers into an empty store
//  6. Register routes, wrap them in middleware, start the server
//  7. Block until SIGINT/SIGTERM, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	GOOGLE_API_KEY=... go run ./cmd/engineers-api --config=config/local.yaml
//
// or:
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/engineers-api
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

	"github.com/aanand-mishra/engineers-api/internal/ai"
	"github.com/aanand-mishra/engineers-api/internal/ai/gemini"
	"github.com/aanand-mishra/engineers-api/internal/config"
	"github.com/aanand-mishra/engineers-api/internal/http/handlers/engineer"
	"github.com/aanand-mishra/engineers-api/internal/http/handlers/health"
	"github.com/aanand-mishra/engineers-api/internal/http/middleware"
	"github.com/aanand-mishra/engineers-api/internal/metrics"
	"github.com/aanand-mishra/engineers-api/internal/seed"
	engineersvc "github.com/aanand-mishra/engineers-api/internal/service/engineer"
	"github.com/aanand-mishra/engineers-api/internal/storage/db"
	"github.com/aanand-mishra/engineers-api/internal/storage/sqlstore"
)

const version = "1.0.0"

// startupTimeout bounds client construction and seeding.
const startupTimeout = 30 * time.Second

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Installed as the default so packages that call slog.InfoContext
	// directly (handlers, service, middleware) share the same output.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting engineers-api",
		slog.String("env", cfg.Env),
		slog.String("version", version),
		slog.String("database", cfg.Database.Driver),
		slog.String("model", cfg.AI.Model),
	)

	// run owns every resource it opens and releases them before it
	// returns, so exiting here never skips a cleanup.
	if err := run(cfg, log); err != nil {
		log.Error("engineers-api stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// run builds the server, serves until a shutdown signal or a listener
// failure, and then drains in-flight requests.
func run(cfg *config.Config, log *slog.Logger) error {
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	server, store, err := newServer(startupCtx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// ── 7. Serve until a signal arrives ───────────────────────────────────
	// ListenAndServe blocks, so it runs in its own goroutine and reports
	// back on serveErr. A buffered channel lets it exit even if nobody
	// is listening any more.
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started",
			slog.String("address", cfg.Addr),
			slog.String("resource", "/"+cfg.Resource))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server encountered an error: %w", err)
	case <-done:
	}

	log.Info("shutdown signal received, stopping server...")

	// Give in-flight creates as long as a write may take: they can be
	// waiting on the model.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newServer wires storage, the chat client, the service and the routes.
// When any step after opening the store fails, the store is closed
// before the error is returned; on success the caller owns it.
func newServer(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *http.Server, _ *sqlstore.Store, err error) {
	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// Every statement goes through two hooks: slog (slow/failed queries)
	// and Prometheus (engineers_db_queries_total and friends).
	store, err := sqlstore.New(cfg.Database,
		db.NewLogHook(db.LogHookConfig{
			Logger:             log,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		}),
		db.NewMetricsHook(metrics.DBCollector{}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("initialise storage: %w", err)
	}
	defer func() {
		if err != nil {
			_ = store.Close()
		}
	}()

	log.Info("storage initialised", slog.String("product", store.Product()))

	// ── 4. Chat Client + Service ──────────────────────────────────────────
	chat, err := gemini.New(ctx, gemini.Config{
		APIKey: cfg.AI.APIKey,
		Model:  cfg.AI.Model,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialise chat client: %w", err)
	}

	svc := engineersvc.New(store, ai.Instrument(chat, cfg.AI.Provider))

	// ── 5. Seed ───────────────────────────────────────────────────────────
	if cfg.Seed {
		if _, err := seed.Load(ctx, store); err != nil {
			return nil, nil, fmt.Errorf("seed engineers: %w", err)
		}
	}

	// ── 6. Routes ─────────────────────────────────────────────────────────
	// Route table (resource defaults to api/v1/software-engineers):
	//   GET    /{resource}        → list all engineers
	//   GET    /{resource}/{id}   → one engineer
	//   POST   /{resource}        → create (generates a learning path)
	//   PUT    /{resource}/{id}   → full replace
	//   DELETE /{resource}/{id}   → delete
	//   GET    /db-check          → database connectivity
	//   GET    /metrics           → Prometheus metrics
	router := http.NewServeMux()

	engineer.Register(router, cfg.Resource, svc)
	router.HandleFunc("GET /db-check", health.DBCheck(store))
	router.Handle("GET /metrics", metrics.Handler())

	// RequestID → Logging → Metrics → Recovery → router.
	// Recovery is innermost so a panic still produces an access line and
	// a 5xx sample carrying the request id.
	handler := middleware.Default()(router)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return server, store, nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// dev: human-readable text at DEBUG. staging: JSON at DEBUG. prod: JSON at INFO.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
