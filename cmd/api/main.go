// Package main is the entry point for the planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/travelnest/planner/internal/auth"
	"github.com/travelnest/planner/internal/config"
	"github.com/travelnest/planner/internal/handler"
	"github.com/travelnest/planner/internal/middleware"
	"github.com/travelnest/planner/internal/repo"
	"github.com/travelnest/planner/internal/repo/memory"
	"github.com/travelnest/planner/internal/repo/sqlite"
	"github.com/travelnest/planner/internal/service"
	"github.com/travelnest/planner/internal/store"
	"github.com/travelnest/planner/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	if err := config.LoadDotEnv(".env", "../.env"); err != nil {
		slog.Error("dotenv error", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Storage ----------------------------------------------------------
	backend, closeBackend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open storage backend", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	// --- Auth -------------------------------------------------------------
	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session store", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	authSvc := auth.NewService(backend.Users, sessions, cfg.JWTSecret, cfg.SessionTTL, auth.WithLogger(logger))
	registry := store.NewRegistry(backend, authSvc, logger)
	accounts := service.NewAccountService(registry, authSvc)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srvHandler := handler.NewServer(accounts, registry, authSvc, logger)
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "backend", cfg.StorageBackend, "sessions", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	// Stores are torn down after the last request so none loses its subscription mid-flight.
	registry.Shutdown()
	slog.Info("server stopped")
}

// openBackend connects the configured storage backend. The returned func
// releases it.
func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (repo.Backend, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewBackend(), func() {}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return repo.Backend{}, nil, err
		}
		logger.Info("sqlite database opened", "path", cfg.SQLitePath)
		return sqlite.NewBackend(db), func() { db.Close() }, nil

	default:
		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return repo.Backend{}, nil, fmt.Errorf("create pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return repo.Backend{}, nil, fmt.Errorf("ping: %w", err)
		}
		logger.Info("database connection established")

		if cfg.AutoMigrate {
			db := stdlib.OpenDBFromPool(pool)
			applied, err := migrations.Up(ctx, db)
			db.Close()
			if err != nil {
				pool.Close()
				return repo.Backend{}, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied", "count", applied)
		}
		return repo.NewPostgresBackend(pool), pool.Close, nil
	}
}

// openSessions builds the configured session registry.
func openSessions(ctx context.Context, cfg config.Config) (auth.SessionStore, func(), error) {
	if cfg.SessionStore != config.SessionsRedis {
		return auth.NewMemorySessions(), func() {}, nil
	}
	client, err := auth.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewRedisSessions(client), func() { client.Close() }, nil
}
