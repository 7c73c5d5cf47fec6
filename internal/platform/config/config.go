package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Log selects the slog handler.
type Log struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// RedisConfig configures the shared report cache. An empty URL keeps the
// cache in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Validation tunes the validation service.
type Validation struct {
	TablesFile       string
	ReportCacheTTL   time.Duration
	BatchMaxDocs     int
	BatchConcurrency int
}

// Config is the full process configuration.
type Config struct {
	Server     Server
	Log        Log
	Redis      RedisConfig
	Validation Validation
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error
	cfg := Config{
		Server: Server{
			Addr:            envString("FISCALCHECK_ADDR", ":8080"),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
		},
		Log: Log{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10, &errs),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2, &errs),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs),
		},
		Validation: Validation{
			TablesFile:       os.Getenv("REGULATORY_TABLES_FILE"),
			ReportCacheTTL:   envDuration("REPORT_CACHE_TTL", 15*time.Minute, &errs),
			BatchMaxDocs:     envInt("BATCH_MAX_DOCUMENTS", 100, &errs),
			BatchConcurrency: envInt("BATCH_CONCURRENCY", 8, &errs),
		},
	}
	if len(errs) > 0 {
		return Config{}, errs[0]
	}
	if cfg.Validation.BatchMaxDocs < 1 || cfg.Validation.BatchConcurrency < 1 {
		return Config{}, fmt.Errorf("BATCH_MAX_DOCUMENTS and BATCH_CONCURRENCY must be positive")
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func envDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
