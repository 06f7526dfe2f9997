package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fragment outcome labels.
const (
	outcomeTranslated = "translated"
	outcomeCached     = "cached"
	outcomeDegraded   = "degraded"
)

// Document status labels.
const (
	statusSuccess   = "success"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	documentsTotal   *prometheus.CounterVec
	fragmentsTotal   *prometheus.CounterVec
	documentDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		documentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polyglot_documents_total",
				Help: "Total number of processed documents",
			},
			[]string{"status"},
		),
		fragmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polyglot_fragments_total",
				Help: "Total number of fragment translations by outcome",
			},
			[]string{"outcome"},
		),
		documentDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polyglot_document_duration_seconds",
				Help:    "Time spent processing one document in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 300.0},
			},
			[]string{"format"},
		),
	}
}

// RecordDocument records one finished document.
func (m *Metrics) RecordDocument(status, format string, duration time.Duration) {
	m.documentsTotal.WithLabelValues(status).Inc()
	m.documentDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordFragments records fragment outcomes of one document.
func (m *Metrics) RecordFragments(translated, cached, degraded int) {
	m.fragmentsTotal.WithLabelValues(outcomeTranslated).Add(float64(translated))
	m.fragmentsTotal.WithLabelValues(outcomeCached).Add(float64(cached))
	m.fragmentsTotal.WithLabelValues(outcomeDegraded).Add(float64(degraded))
}
