package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fiscalcheck/internal/validation/models"
	"fiscalcheck/pkg/platform/circuit"
	"fiscalcheck/pkg/platform/sentinel"
)

// Cache is the behaviour shared by Memory and Redis.
type Cache interface {
	Get(ctx context.Context, key string) (*models.Report, error)
	Set(ctx context.Context, key string, report *models.Report, ttl time.Duration) error
}

// Fallback fronts a shared cache with a circuit breaker. Every report is
// also kept in process memory, which serves lookups while the breaker is
// open.
type Fallback struct {
	primary   Cache
	secondary Cache
	local     *Memory
	breaker   *circuit.Breaker
	logger    *slog.Logger
}

func NewFallback(primary Cache, breaker *circuit.Breaker, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	local := NewMemory()
	return &Fallback{
		primary:   primary,
		secondary: local,
		local:     local,
		breaker:   breaker,
		logger:    logger,
	}
}

// Local exposes the in-process copy so callers can sweep it.
func (f *Fallback) Local() *Memory {
	return f.local
}

func (f *Fallback) Get(ctx context.Context, key string) (*models.Report, error) {
	report, err := f.primary.Get(ctx, key)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		usePrimary, change := f.breaker.RecordSuccess()
		if change.Closed {
			f.logger.InfoContext(ctx, "report cache recovered", "breaker", f.breaker.Name())
		}
		if usePrimary {
			return report, err
		}
		return f.secondary.Get(ctx, key)
	}
	if f.fail(ctx, err) {
		return f.secondary.Get(ctx, key)
	}
	return nil, err
}

func (f *Fallback) Set(ctx context.Context, key string, report *models.Report, ttl time.Duration) error {
	if err := f.secondary.Set(ctx, key, report, ttl); err != nil {
		f.logger.WarnContext(ctx, "in-memory report copy not stored",
			"breaker", f.breaker.Name(),
			"error", err,
		)
	}
	if err := f.primary.Set(ctx, key, report, ttl); err != nil {
		if f.fail(ctx, err) {
			return nil
		}
		return err
	}
	if _, change := f.breaker.RecordSuccess(); change.Closed {
		f.logger.InfoContext(ctx, "report cache recovered", "breaker", f.breaker.Name())
	}
	return nil
}

func (f *Fallback) fail(ctx context.Context, err error) bool {
	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "report cache degraded, serving from memory",
			"breaker", f.breaker.Name(),
			"error", err,
		)
	}
	return useFallback
}
