// aihunter-search-service
//
// Keyword search over GitHub users with a PostgreSQL candidate cache.
// For each page of upstream results the pipeline serves fresh cache rows
// as-is, refreshes stale or incomplete ones, and falls back to the stale
// row when the live fetch fails.
//
// The database and Redis are soft dependencies: when either is
// unreachable at boot the service degrades (cache-less pages, no refresh
// events) instead of refusing to start — the GitHub token is the only
// hard requirement besides config.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"aihunter/search-service/internal/config"
	"aihunter/search-service/internal/db"
	"aihunter/search-service/internal/db/migrations"
	"aihunter/search-service/internal/github"
	"aihunter/search-service/internal/scheduler"
	"aihunter/search-service/internal/search"
	"aihunter/search-service/internal/store"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[search-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL (soft dependency) ────────────────────────────────────────
	var pool *pgxpool.Pool
	pool, err = db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Warn("postgres unavailable — running without candidate cache", "err", err)
		pool = nil
	} else {
		defer pool.Close()
		if err := migrations.RunMigrationsUp(ctx, pool); err != nil {
			log.Fatalf("[search-service] Migrations: %v", err)
		}
		slog.Info("postgres connected, schema up to date")
	}

	// ── Redis (optional) ────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable — refresh events disabled", "err", err)
			rdb = nil
		} else {
			defer rdb.Close()
			slog.Info("redis connected")
		}
	}

	// ── Pipeline wiring ─────────────────────────────────────────────────────
	gh := github.NewClient(cfg.GithubToken)

	var st search.Store
	var candidates *store.CandidateStore
	if pool != nil {
		candidates = store.New(pool)
		st = candidates
	}

	orch := search.NewOrchestrator(gh, gh, st, rdb, cfg.StaleAfter())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	search.NewHandler(orch).RegisterRoutes(mux)

	// ── Background refresher ────────────────────────────────────────────────
	if candidates != nil && cfg.RefreshIntervalHours > 0 {
		sched := scheduler.New(candidates, gh, cfg.RefreshIntervalHours, cfg.StaleAfter())
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[search-service] Scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// ── HTTP server ─────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // a cold page is up to 10 users × 3 GitHub calls
	}

	go func() {
		slog.Info("search-service listening", "version", version, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[search-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("shutdown error", "err", err)
	}
	slog.Info("stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "search-service",
		"version": version,
	})
}
