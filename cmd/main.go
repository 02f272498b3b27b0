// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mergington-high/activities/internal/config"
	"github.com/mergington-high/activities/internal/database"
	"github.com/mergington-high/activities/internal/handler"
	"github.com/mergington-high/activities/internal/repository"
	"github.com/mergington-high/activities/internal/service"
)

func main() {
	ctx := context.Background()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// ── 2. Choose the catalog store ──────────────────────────────────────
	// In-memory by default; PostgreSQL when a DSN is configured.
	var store repository.CatalogStore
	if cfg.DBDSN != "" {
		pool, err := database.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()

		pg := repository.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx, repository.DefaultCatalog()); err != nil {
			log.Fatalf("schema: %v", err)
		}
		store = pg
		logger.Info("using postgres catalog store")
	} else {
		store = repository.NewMemoryStore(repository.DefaultCatalog())
		logger.Info("using in-memory catalog store")
	}

	// ── 3. Wire up layers and build the router ───────────────────────────
	svc := service.NewActivityService(store)
	h := handler.NewActivityHandler(svc, logger)
	router := h.Router(cfg.StaticDir)

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
