package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"fiscalcheck/internal/validation/metrics"
	"fiscalcheck/internal/validation/models"
	dErrors "fiscalcheck/pkg/domain-errors"
	"fiscalcheck/pkg/platform/sentinel"
	"fiscalcheck/pkg/requestcontext"
)

const (
	defaultBatchMax         = 100
	defaultBatchConcurrency = 8
	tracerName              = "fiscalcheck/internal/validation"
)

// ReportCache stores finished reports by request hash. Get returns
// sentinel.ErrNotFound on a miss.
type ReportCache interface {
	Get(ctx context.Context, key string) (*models.Report, error)
	Set(ctx context.Context, key string, report *models.Report, ttl time.Duration) error
}

// Request is one document with its validation options.
type Request struct {
	Document models.Document `json:"document"`
	Options  models.Options  `json:"options"`
}

// Service runs the engine for transports: it caches reports, records
// metrics and spans, and fans batches out over a bounded worker group.
type Service struct {
	engine           *Engine
	cache            ReportCache
	cacheTTL         time.Duration
	batchMax         int
	batchConcurrency int
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
}

type Option func(*Service)

func WithCache(cache ReportCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithBatchLimits caps batch size and the number of concurrent validations.
// Non-positive values keep the defaults.
func WithBatchLimits(maxDocuments, concurrency int) Option {
	return func(s *Service) {
		if maxDocuments > 0 {
			s.batchMax = maxDocuments
		}
		if concurrency > 0 {
			s.batchConcurrency = concurrency
		}
	}
}

// NewService constructs a Service around engine.
func NewService(engine *Engine, opts ...Option) *Service {
	s := &Service{
		engine:           engine,
		batchMax:         defaultBatchMax,
		batchConcurrency: defaultBatchConcurrency,
		logger:           slog.Default(),
		tracer:           otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate returns the report for one document, served from cache when the
// identical request was validated before. Reports are stamped with the
// request time.
func (s *Service) Validate(ctx context.Context, req Request) (*models.Report, error) {
	ctx, span := s.tracer.Start(ctx, "validation.validate",
		trace.WithAttributes(attribute.String("document.type", string(req.Document.Type))))
	defer span.End()

	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	opts, err := req.Options.Normalize()
	if err != nil {
		span.SetStatus(codes.Error, "invalid options")
		return nil, err
	}
	req.Options = opts

	key, err := cacheKey(req)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash request")
	}

	if report, ok := s.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		report.Timestamp = requestcontext.Now(ctx).UTC()
		return report, nil
	}

	report, err := s.engine.Validate(req.Document, req.Options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}
	report.Timestamp = requestcontext.Now(ctx).UTC()
	s.store(ctx, key, report)

	elapsed := time.Since(start)
	s.record(report, elapsed)
	span.SetAttributes(
		attribute.String("report.status", string(report.Status)),
		attribute.Int("report.score", report.Score),
		attribute.Int("report.regulatory_year", report.RegulatoryYear),
	)
	s.logger.InfoContext(ctx, "document validated",
		"request_id", requestID,
		"document_type", report.DocumentType,
		"status", report.Status,
		"score", report.Score,
		"issues", len(report.Issues),
		"regulatory_year", report.RegulatoryYear,
		"duration_ms", elapsed.Milliseconds(),
	)
	return report, nil
}

// ValidateBatch validates every request concurrently and returns reports in
// input order. The first failing item cancels the rest.
func (s *Service) ValidateBatch(ctx context.Context, reqs []Request) ([]*models.Report, error) {
	if len(reqs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one document is required")
	}
	if len(reqs) > s.batchMax {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("batch exceeds %d documents", s.batchMax))
	}

	ctx, span := s.tracer.Start(ctx, "validation.validate_batch",
		trace.WithAttributes(attribute.Int("batch.size", len(reqs))))
	defer span.End()
	s.metrics.ObserveBatchSize(len(reqs))

	reports := make([]*models.Report, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.Validate(gctx, req)
			if err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch failed")
		return nil, err
	}
	return reports, nil
}

func (s *Service) lookup(ctx context.Context, key string) (*models.Report, bool) {
	if s.cache == nil {
		return nil, false
	}
	report, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.IncrementCacheLookup("hit")
		return report, true
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.IncrementCacheLookup("miss")
	default:
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "report cache lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	return nil, false
}

func (s *Service) store(ctx context.Context, key string, report *models.Report) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "report cache store failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) record(report *models.Report, elapsed time.Duration) {
	docType := string(report.DocumentType)
	s.metrics.IncrementOutcome(docType, string(report.Status))
	s.metrics.ObserveScore(docType, report.Score)
	s.metrics.ObserveValidateLatency(elapsed)
	for _, issue := range report.Issues {
		s.metrics.IncrementIssue(string(issue.Code), string(issue.Severity))
	}
}

// cacheKey hashes the canonical JSON encoding of the normalized request.
func cacheKey(req Request) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
