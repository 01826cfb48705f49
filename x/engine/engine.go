// Package engine builds and submits settlement calls for validated,
// timing-approved proofs, recording outcomes into the proof store and stats.
package engine

import (
	"context"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/intent-network/relayer/x/proof"
	"github.com/intent-network/relayer/x/stats"
	"github.com/intent-network/relayer/x/store"
	"github.com/intent-network/relayer/x/target"
)

// Result reports a completed execution.
type Result struct {
	Record store.Record
	// AlreadySettled is true when the proof was settled before this call and
	// the stored record is returned without side effects.
	AlreadySettled bool
}

// Engine executes proofs against the target. Safe for concurrent use across
// distinct proof identifiers; the store's in-flight marking serializes
// attempts on the same identifier.
type Engine struct {
	cfg     Config
	store   store.Store
	target  target.Target
	stats   *stats.Stats
	metrics *Metrics
	log     zerolog.Logger

	now func() time.Time
}

// New builds an engine. A nil metrics set disables metric recording.
func New(cfg Config, st store.Store, tgt target.Target, stat *stats.Stats, m *Metrics, log zerolog.Logger) *Engine {
	if cfg.FeeBufferPct == 0 {
		cfg.FeeBufferPct = DefaultConfig().FeeBufferPct
	}
	if cfg.ValidityWindow <= 0 {
		cfg.ValidityWindow = DefaultConfig().ValidityWindow
	}
	return &Engine{
		cfg:     cfg,
		store:   st,
		target:  tgt,
		stats:   stat,
		metrics: m,
		log:     log.With().Str("component", "engine").Logger(),
		now:     time.Now,
	}
}

// Execute submits one proof. A settled identifier returns the stored record as
// a no-op. Failures roll back the in-flight marking so the orchestrator may
// re-queue the proof.
func (e *Engine) Execute(ctx context.Context, p *proof.Proof) (*Result, error) {
	if rec, ok := e.store.Get(p.ID); ok {
		e.log.Debug().Str("proof_id", p.ID.Hex()).Msg("already settled, skipping")
		return &Result{Record: rec, AlreadySettled: true}, nil
	}

	// Claim before submitting so a concurrent cycle cannot double-submit.
	if !e.store.MarkInFlight(p.ID) {
		if rec, ok := e.store.Get(p.ID); ok {
			return &Result{Record: rec, AlreadySettled: true}, nil
		}
		return nil, ErrAlreadyInFlight
	}

	started := e.now()
	rec, err := e.attempt(ctx, p)
	if err != nil {
		e.store.ReleaseInFlight(p.ID)
		e.stats.RecordFailure()
		if e.metrics != nil {
			e.metrics.RecordExecution("failure", e.now().Sub(started))
		}
		e.log.Error().Err(err).Str("proof_id", p.ID.Hex()).Msg("execution failed")
		return nil, err
	}

	e.store.MarkSettled(p.ID, rec)
	e.stats.RecordSuccess(rec.FeePaid, p.ProtectionBenefit)
	if e.metrics != nil {
		e.metrics.RecordExecution("success", e.now().Sub(started))
		if rec.FeePaid != nil {
			// Fees in wei overflow uint64 quickly; go through big.Float.
			fee, _ := new(big.Float).SetInt(rec.FeePaid).Float64()
			e.metrics.FeeSpentTotal.Add(fee)
		}
	}

	e.log.Info().
		Str("proof_id", p.ID.Hex()).
		Str("tx_hash", rec.TxHash.Hex()).
		Uint64("confirmed_block", rec.ConfirmedBlock).
		Str("fee_paid", rec.FeePaid.String()).
		Msg("proof settled")

	return &Result{Record: rec}, nil
}

func (e *Engine) attempt(ctx context.Context, p *proof.Proof) (store.Record, error) {
	est, err := e.target.EstimateFee(ctx, p)
	if err != nil {
		return store.Record{}, &ExecutionError{Stage: StageEstimate, Err: err}
	}

	gasBudget := est.Gas + est.Gas*e.cfg.FeeBufferPct/100
	if e.metrics != nil {
		e.metrics.GasBudget.Observe(float64(gasBudget))
	}

	deadline := e.now().Add(e.cfg.ValidityWindow)
	submitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	receipt, err := e.target.Submit(submitCtx, p, gasBudget, deadline)
	if err != nil {
		return store.Record{}, &ExecutionError{Stage: StageSubmit, Err: err}
	}

	confirmedBlock, err := e.target.AwaitConfirmation(submitCtx, receipt)
	if err != nil {
		return store.Record{}, &ExecutionError{Stage: StageConfirm, Err: err}
	}

	feePaid := new(big.Int).Mul(new(big.Int).SetUint64(est.Gas), est.FeePrice)
	return store.Record{
		ProofID:        p.ID,
		TxHash:         receipt.TxHash,
		ConfirmedBlock: confirmedBlock,
		FeePaid:        feePaid,
		SettledAt:      e.now(),
	}, nil
}
