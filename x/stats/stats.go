// Package stats tracks the relay agent's cumulative counters. All totals are
// monotonically non-decreasing and safe for concurrent update from parallel
// execution attempts.
package stats

import (
	"math/big"
	"sync"
	"sync/atomic"
)

// Stats accumulates per-process relay counters.
type Stats struct {
	candidatesSeen atomic.Uint64
	validated      atomic.Uint64
	rejected       atomic.Uint64
	deferred       atomic.Uint64
	successes      atomic.Uint64
	failures       atomic.Uint64

	mu               sync.Mutex
	feeSpent         *big.Int
	benefitCaptured  *big.Int
}

// New returns zeroed stats.
func New() *Stats {
	return &Stats{
		feeSpent:        new(big.Int),
		benefitCaptured: new(big.Int),
	}
}

// AddCandidatesSeen records n observed candidates.
func (s *Stats) AddCandidatesSeen(n int) {
	s.candidatesSeen.Add(uint64(n))
}

// RecordValidated records an accepted validation.
func (s *Stats) RecordValidated() { s.validated.Add(1) }

// RecordRejected records a terminal validation rejection.
func (s *Stats) RecordRejected() { s.rejected.Add(1) }

// RecordDeferred records a timing deferral.
func (s *Stats) RecordDeferred() { s.deferred.Add(1) }

// RecordSuccess records a confirmed execution with its fee expenditure and
// advisory protection benefit. Nil amounts count as zero.
func (s *Stats) RecordSuccess(feeSpent, benefit *big.Int) {
	s.successes.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if feeSpent != nil {
		s.feeSpent.Add(s.feeSpent, feeSpent)
	}
	if benefit != nil {
		s.benefitCaptured.Add(s.benefitCaptured, benefit)
	}
}

// RecordFailure records a failed execution attempt.
func (s *Stats) RecordFailure() { s.failures.Add(1) }

// Snapshot is a point-in-time copy of the counters, safe to serialize.
type Snapshot struct {
	CandidatesSeen       uint64 `json:"candidates_seen"`
	Validated            uint64 `json:"validated"`
	Rejected             uint64 `json:"rejected"`
	Deferred             uint64 `json:"deferred"`
	SuccessfulExecutions uint64 `json:"successful_executions"`
	FailedExecutions     uint64 `json:"failed_executions"`
	TotalFeeSpent        string `json:"total_fee_spent"`
	TotalBenefitCaptured string `json:"total_benefit_captured"`
}

// Snapshot returns the current counter values without blocking writers for
// longer than the big-total copy.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	fee := s.feeSpent.String()
	benefit := s.benefitCaptured.String()
	s.mu.Unlock()

	return Snapshot{
		CandidatesSeen:       s.candidatesSeen.Load(),
		Validated:            s.validated.Load(),
		Rejected:             s.rejected.Load(),
		Deferred:             s.deferred.Load(),
		SuccessfulExecutions: s.successes.Load(),
		FailedExecutions:     s.failures.Load(),
		TotalFeeSpent:        fee,
		TotalBenefitCaptured: benefit,
	}
}

// Successes returns the confirmed execution count.
func (s *Stats) Successes() uint64 { return s.successes.Load() }

// Failures returns the failed execution count.
func (s *Stats) Failures() uint64 { return s.failures.Load() }
