package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.IncrementOutcome("invoice", "ok")
	m.IncrementOutcome("invoice", "ok")
	m.IncrementIssue("vat_mismatch", "medium")
	m.IncrementCacheLookup("hit")
	m.ObserveScore("invoice", 76)
	m.ObserveValidateLatency(time.Millisecond)
	m.ObserveBatchSize(3)
	m.IncrementRejection("validate", "validation_error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("invoice", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Issues.WithLabelValues("vat_mismatch", "medium")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("validate", "validation_error")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementOutcome("payslip", "error")
		m.ObserveScore("payslip", 0)
		m.IncrementIssue("zero_irpef", "high")
		m.ObserveValidateLatency(time.Second)
		m.ObserveBatchSize(1)
		m.IncrementCacheLookup("miss")
		m.IncrementRejection("validate_batch", "bad_request")
	})
}
