package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fiscalcheck/internal/validation/models"
	"fiscalcheck/pkg/platform/sentinel"
)

const reportKeyPrefix = "fiscalcheck:report:"

// Redis shares cached reports between instances. The client lifecycle is
// managed by the caller.
type Redis struct {
	client redis.Cmdable
}

// NewRedis wraps an existing client.
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

// Get returns the cached report or sentinel.ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (*models.Report, error) {
	raw, err := r.client.Get(ctx, reportKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get report: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	var report models.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, nil
}

// Set stores report as JSON with SET key value EX ttl.
func (r *Redis) Set(ctx context.Context, key string, report *models.Report, ttl time.Duration) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := r.client.Set(ctx, reportKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set report: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}
