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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fiscalcheck/internal/platform/config"
	"fiscalcheck/internal/platform/httpserver"
	"fiscalcheck/internal/platform/logger"
	platformmetrics "fiscalcheck/internal/platform/metrics"
	"fiscalcheck/internal/platform/middleware"
	"fiscalcheck/internal/platform/redis"
	"fiscalcheck/internal/validation"
	validationHandler "fiscalcheck/internal/validation/handler"
	validationMetrics "fiscalcheck/internal/validation/metrics"
	"fiscalcheck/internal/validation/regulatory"
	"fiscalcheck/internal/validation/store"
	"fiscalcheck/pkg/platform/circuit"
	"fiscalcheck/pkg/platform/httputil"
	"fiscalcheck/pkg/platform/middleware/metadata"
	"fiscalcheck/pkg/platform/middleware/requesttime"
)

const cacheSweepInterval = time.Minute

// main wires configuration, the report cache and the HTTP router, then keeps
// the server running until SIGINT or SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := regulatory.LoadWithDefaults(cfg.Validation.TablesFile)
	if err != nil {
		log.Error("failed to load regulatory tables", "path", cfg.Validation.TablesFile, "error", err)
		os.Exit(1)
	}
	log.Info("regulatory tables loaded", "years", catalog.Years())

	cache, redisClient, err := buildCache(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialise report cache", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	httpMetrics := platformmetrics.New()
	metrics := validationMetrics.New()
	service := validation.NewService(
		validation.NewEngine(catalog),
		validation.WithCache(cache, cfg.Validation.ReportCacheTTL),
		validation.WithLogger(log),
		validation.WithMetrics(metrics),
		validation.WithBatchLimits(cfg.Validation.BatchMaxDocs, cfg.Validation.BatchConcurrency),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.AccessLog(log, httpMetrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	validationHandler.New(service, log, metrics).Register(r)

	srv := httpserver.New(cfg.Server.Addr, r)

	go func() {
		log.Info("starting fiscalcheck", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// buildCache prefers Redis when REDIS_URL is set. The in-process copy is
// swept in the background either way.
func buildCache(ctx context.Context, cfg config.Config, log *slog.Logger) (validation.ReportCache, *redis.Client, error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	var cache validation.ReportCache
	var memory *store.Memory
	if client != nil {
		fallback := store.NewFallback(store.NewRedis(client), circuit.New("redis-report-cache"), log)
		cache, memory = fallback, fallback.Local()
		log.Info("report cache backed by redis")
	} else {
		memory = store.NewMemory()
		cache = memory
		log.Info("report cache kept in memory")
	}

	go func() {
		ticker := time.NewTicker(cacheSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := memory.Sweep(); n > 0 {
					log.Debug("report cache swept", "expired", n)
				}
			}
		}
	}()
	return cache, client, nil
}
