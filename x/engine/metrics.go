package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/intent-network/relayer/pkg/metrics"
)

// Metrics holds all engine-level metrics
type Metrics struct {
	registry *metrics.ComponentRegistry

	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration prometheus.Histogram
	GasBudget         prometheus.Histogram
	FeeSpentTotal     prometheus.Counter
}

// NewMetrics creates engine metrics
func NewMetrics() *Metrics {
	reg := metrics.NewComponentRegistry("relayer", "engine")

	return &Metrics{
		registry: reg,

		ExecutionsTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "executions_total",
			Help: "Total number of execution attempts by outcome",
		}, []string{"outcome"}),

		ExecutionDuration: reg.NewHistogram(prometheus.HistogramOpts{
			Name:    "execution_duration_seconds",
			Help:    "Duration of execution attempts end to end",
			Buckets: metrics.DurationBuckets,
		}),

		GasBudget: reg.NewHistogram(prometheus.HistogramOpts{
			Name:    "gas_budget",
			Help:    "Gas budget per submission including buffer",
			Buckets: prometheus.ExponentialBuckets(21_000, 2, 8),
		}),

		FeeSpentTotal: reg.NewCounter(prometheus.CounterOpts{
			Name: "fee_spent_total",
			Help: "Cumulative fee expenditure in the native fee unit",
		}),
	}
}

// RecordExecution records one attempt with its outcome and duration.
func (m *Metrics) RecordExecution(outcome string, d time.Duration) {
	m.ExecutionsTotal.WithLabelValues(outcome).Inc()
	m.ExecutionDuration.Observe(d.Seconds())
}
