package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation module. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// Validation outcomes by document type and status
	Outcomes *prometheus.CounterVec

	// Score distribution by document type
	Scores *prometheus.HistogramVec

	// Issues emitted by code
	Issues *prometheus.CounterVec

	ValidateLatency prometheus.Histogram
	BatchSize       prometheus.Histogram

	// Report cache lookups by result: "hit", "miss", "error"
	CacheLookups *prometheus.CounterVec

	// Requests rejected by the HTTP layer, by endpoint and error code
	Rejections *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcheck_validation_outcomes_total",
			Help: "Validation outcomes by document type and status",
		}, []string{"document_type", "status"}),

		Scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fiscalcheck_validation_score",
			Help:    "Compliance score of validated documents",
			Buckets: []float64{20, 40, 60, 75, 90, 100},
		}, []string{"document_type"}),

		Issues: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcheck_validation_issues_total",
			Help: "Issues emitted by code and severity",
		}, []string{"code", "severity"}),

		ValidateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fiscalcheck_validation_duration_seconds",
			Help:    "Duration of a single validation including cache access",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fiscalcheck_validation_batch_size",
			Help:    "Documents per batch request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcheck_report_cache_lookups_total",
			Help: "Report cache lookups by result",
		}, []string{"result"}),

		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcheck_validation_rejections_total",
			Help: "Validation requests rejected before a report was produced",
		}, []string{"endpoint", "code"}),
	}
}

// IncrementOutcome records a validation verdict.
func (m *Metrics) IncrementOutcome(documentType, status string) {
	if m != nil {
		m.Outcomes.WithLabelValues(documentType, status).Inc()
	}
}

// ObserveScore records a report score.
func (m *Metrics) ObserveScore(documentType string, score int) {
	if m != nil {
		m.Scores.WithLabelValues(documentType).Observe(float64(score))
	}
}

// IncrementIssue records one emitted issue.
func (m *Metrics) IncrementIssue(code, severity string) {
	if m != nil {
		m.Issues.WithLabelValues(code, severity).Inc()
	}
}

// ObserveValidateLatency records the duration of one validation.
func (m *Metrics) ObserveValidateLatency(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}

// ObserveBatchSize records how many documents a batch carried.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

// IncrementCacheLookup records a cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// IncrementRejection records a request answered with an error body.
func (m *Metrics) IncrementRejection(endpoint, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(endpoint, code).Inc()
	}
}
