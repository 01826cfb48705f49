package agent

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/intent-network/relayer/pkg/metrics"
)

// Metrics holds all agent-level metrics
type Metrics struct {
	registry *metrics.ComponentRegistry

	CyclesTotal      prometheus.Counter
	CycleErrorsTotal prometheus.Counter
	CandidatesSeen   prometheus.Counter
	DecisionsTotal   *prometheus.CounterVec
	PendingDepth     prometheus.Gauge
	ExpiredDropped   prometheus.Counter
}

// NewMetrics creates agent metrics
func NewMetrics() *Metrics {
	reg := metrics.NewComponentRegistry("relayer", "agent")

	return &Metrics{
		registry: reg,

		CyclesTotal: reg.NewCounter(prometheus.CounterOpts{
			Name: "cycles_total",
			Help: "Total number of completed poll cycles",
		}),

		CycleErrorsTotal: reg.NewCounter(prometheus.CounterOpts{
			Name: "cycle_errors_total",
			Help: "Total number of cycles aborted by a source or target error",
		}),

		CandidatesSeen: reg.NewCounter(prometheus.CounterOpts{
			Name: "candidates_seen_total",
			Help: "Total number of candidate proofs observed",
		}),

		DecisionsTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "decisions_total",
			Help: "Per-proof admission decisions by kind",
		}, []string{"decision"}),

		PendingDepth: reg.NewGauge(prometheus.GaugeOpts{
			Name: "pending_depth",
			Help: "Number of proofs awaiting a timing retry",
		}),

		ExpiredDropped: reg.NewCounter(prometheus.CounterOpts{
			Name: "expired_dropped_total",
			Help: "Deferred proofs dropped because their expiry passed",
		}),
	}
}

// RecordDecision records one admission decision (rejected, deferred, executed, failed).
func (m *Metrics) RecordDecision(decision string) {
	m.DecisionsTotal.WithLabelValues(decision).Inc()
}
