// Package metrics exposes Prometheus metrics for the record workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the workflow's Prometheus collectors.
type Metrics struct {
	OperationsTotal *prometheus.CounterVec
	FundsReleased   prometheus.Counter
}

// New creates and registers the workflow metrics.
func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medgate_record_operations_total",
			Help: "Record workflow operations by name (request, fulfill, release) and outcome (ok, error).",
		}, []string{"operation", "outcome"}),
		FundsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_funds_released_total",
			Help: "Cumulative value released from escrow to providers.",
		}),
	}
}

// ObserveOperation records one workflow operation outcome.
func (m *Metrics) ObserveOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveRelease adds a released amount to the running total.
func (m *Metrics) ObserveRelease(amount int64) {
	m.FundsReleased.Add(float64(amount))
}
