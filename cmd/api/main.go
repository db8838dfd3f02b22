// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

// Command api is the entry point for the Authgate HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis (only when the redis throttle backend is selected).
//  5. Run database migrations (idempotent).
//  6. Wire the throttle store and login handler.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhtran/authgate/internal/api"
	"github.com/minhtran/authgate/internal/platform/config"
	"github.com/minhtran/authgate/internal/platform/constants"
	"github.com/minhtran/authgate/internal/platform/migration"
	pgstore "github.com/minhtran/authgate/internal/platform/postgres"
	redisstore "github.com/minhtran/authgate/internal/platform/redis"
	"github.com/minhtran/authgate/internal/users/login"
	"github.com/minhtran/authgate/internal/users/throttle"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "authgate"))
	slog.SetDefault(log)

	log.Info("[Authgate] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "authgate"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("throttle_backend", cfg.ThrottleBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Root context for background workers (janitor, rate limiter cleanup).
	// Cancelled after the HTTP server has drained.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Throttle Store ─────────────────────────────────────────────────
	policy := throttle.Policy{
		FreeRetries: cfg.FreeRetries,
		MinWait:     cfg.MinWait,
		MaxWait:     cfg.MaxWait,
		Lifetime:    cfg.AttemptLifetime,
	}

	var attempts throttle.Store
	var checkCache func() error

	if cfg.ThrottleBackend == config.ThrottleBackendRedis {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		attempts = throttle.NewRedisStore(rdb, policy)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		attempts = throttle.NewMemoryStore(workerCtx, policy)
	}

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: checkCache,
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	directory := login.NewPostgresDirectory(pool)
	loginService := login.NewService(directory, directory, attempts, login.NewBcryptVerifier(), login.Options{
		EmailOnly:        cfg.EmailOnly,
		RequireConfirmed: cfg.RequireConfirmed,
	})
	loginHandler := login.NewHandler(loginService)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Login:     loginHandler,
	}

	server := api.NewServer(workerCtx, cfg, log, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
