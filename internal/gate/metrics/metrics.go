// Package metrics exposes Prometheus metrics for the access gate.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gate's Prometheus collectors.
type Metrics struct {
	ChecksTotal   *prometheus.CounterVec
	CheckDuration prometheus.Histogram
}

// New creates and registers the gate metrics.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medgate_admission_checks_total",
			Help: "Admission checks by outcome (admitted, no_credential, suspended, insufficient_rating, rating_expired, oracle_error).",
		}, []string{"outcome"}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medgate_admission_check_duration_seconds",
			Help:    "Latency of the three-part admission check.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveCheck records one admission check outcome and its latency.
func (m *Metrics) ObserveCheck(outcome string, elapsed time.Duration) {
	m.ChecksTotal.WithLabelValues(outcome).Inc()
	m.CheckDuration.Observe(elapsed.Seconds())
}
