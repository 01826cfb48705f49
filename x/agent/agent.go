// Package agent runs the relay loop: fetch candidate proofs, validate them,
// gate on timing, execute or defer, and retry deferred proofs each cycle.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/intent-network/relayer/x/engine"
	"github.com/intent-network/relayer/x/proof"
	"github.com/intent-network/relayer/x/queue"
	"github.com/intent-network/relayer/x/runner"
	"github.com/intent-network/relayer/x/source"
	"github.com/intent-network/relayer/x/stats"
	"github.com/intent-network/relayer/x/store"
	"github.com/intent-network/relayer/x/target"
	"github.com/intent-network/relayer/x/timing"
)

// Agent is the orchestrator. One poll loop drives discovery and admission;
// executions within a cycle run concurrently per proof.
type Agent struct {
	cfg Config
	log zerolog.Logger

	src       source.Source
	tgt       target.Target
	validator *proof.Validator
	advisor   *timing.Advisor
	engine    *engine.Engine
	pending   *queue.Pending
	store     store.Store
	stats     *stats.Stats
	metrics   *Metrics

	loop runner.Runner

	// rejected holds identifiers whose validation failed; rejections are
	// terminal and the ids are never revalidated. deferred mirrors the ids
	// sitting in the pending queue so a re-offered candidate is not admitted
	// a second time while its first copy awaits a timing retry.
	mu       sync.Mutex
	rejected map[common.Hash]struct{}
	deferred map[common.Hash]struct{}

	now func() time.Time
}

// New wires an agent from its collaborators. A nil metrics set disables
// metric recording.
func New(cfg Config, src source.Source, tgt target.Target, st store.Store, m *Metrics, log zerolog.Logger) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	agentLog := log.With().Str("component", "agent").Logger()
	stat := stats.New()

	var engineMetrics *engine.Metrics
	if m != nil {
		engineMetrics = engine.NewMetrics()
	}

	a := &Agent{
		cfg:       cfg,
		log:       agentLog,
		src:       src,
		tgt:       tgt,
		validator: proof.NewValidator(common.HexToAddress(cfg.TrustedAttester), cfg.MaxProofAge),
		advisor:   timing.NewAdvisor(cfg.Timing, log),
		engine:    engine.New(cfg.Engine, st, tgt, stat, engineMetrics, log),
		pending:   queue.NewPending(),
		store:     st,
		stats:     stat,
		metrics:   m,
		rejected:  make(map[common.Hash]struct{}),
		deferred:  make(map[common.Hash]struct{}),
		now:       time.Now,
	}

	a.loop = runner.NewIntervalRunner(runner.Config{
		Interval: cfg.PollInterval,
		Handler:  a.RunCycle,
		Logger:   agentLog,
	})

	return a, nil
}

// Start begins the poll loop.
func (a *Agent) Start(ctx context.Context) error {
	a.log.Info().
		Str("trusted_attester", a.cfg.TrustedAttester).
		Dur("poll_interval", a.cfg.PollInterval).
		Msg("Starting relay agent")
	return a.loop.Start(ctx)
}

// Stop halts the loop. The in-progress cycle, including its executions,
// completes before Stop returns; no new cycles start.
func (a *Agent) Stop(ctx context.Context) error {
	if err := a.loop.Stop(ctx); err != nil {
		return err
	}

	snap := a.stats.Snapshot()
	a.log.Info().
		Uint64("successful_executions", snap.SuccessfulExecutions).
		Uint64("failed_executions", snap.FailedExecutions).
		Str("total_fee_spent", snap.TotalFeeSpent).
		Msg("Relay agent stopped")
	return nil
}

// Stats returns a point-in-time snapshot of the cumulative counters.
func (a *Agent) Stats() stats.Snapshot {
	return a.stats.Snapshot()
}

// Pending returns a copy of the proofs awaiting a timing retry.
func (a *Agent) Pending() []*proof.Proof {
	return a.pending.Snapshot()
}

// RunCycle executes one full poll cycle. A returned error is a cycle-level
// failure (source or target unreachable); no proof state has been touched and
// the loop backs off for one iteration.
func (a *Agent) RunCycle(ctx context.Context) error {
	candidates, err := a.src.FetchCandidates(ctx)
	if err != nil {
		if a.metrics != nil {
			a.metrics.CycleErrorsTotal.Inc()
		}
		return fmt.Errorf("fetch candidates: %w", err)
	}

	net, err := a.sampleNetwork(ctx)
	if err != nil {
		if a.metrics != nil {
			a.metrics.CycleErrorsTotal.Inc()
		}
		return err
	}

	a.stats.AddCandidatesSeen(len(candidates))
	if a.metrics != nil {
		a.metrics.CandidatesSeen.Add(float64(len(candidates)))
	}

	// Executions within the cycle run concurrently per proof. Stop waits for
	// the cycle, so in-flight submissions always finish; detach from the loop
	// context so cancellation cannot abandon a broadcast transaction.
	execCtx := context.WithoutCancel(ctx)
	var wg sync.WaitGroup

	// Snapshot the retry set before admitting new candidates so a proof
	// deferred in this cycle is not re-evaluated until the next one.
	retries := a.pending.DrainAll()

	for _, p := range candidates {
		if a.store.IsKnown(p.ID) || a.isRejected(p.ID) || a.isDeferred(p.ID) {
			a.log.Debug().Str("proof_id", p.ID.Hex()).Msg("skipping known proof")
			continue
		}

		if rej := a.validator.Validate(p, a.now()); rej != nil {
			a.markRejected(p.ID)
			a.stats.RecordRejected()
			if a.metrics != nil {
				a.metrics.RecordDecision("rejected")
			}
			a.log.Warn().
				Str("proof_id", p.ID.Hex()).
				Str("reason", string(rej.Reason)).
				Str("detail", rej.Detail).
				Msg("proof rejected")
			continue
		}
		a.stats.RecordValidated()

		a.admit(execCtx, p, net, &wg)
	}

	a.drainPending(execCtx, retries, net, &wg)
	wg.Wait()

	if a.metrics != nil {
		a.metrics.CyclesTotal.Inc()
		a.metrics.PendingDepth.Set(float64(a.pending.Len()))
	}
	return nil
}

// admit runs the timing gate and either launches an execution or defers.
func (a *Agent) admit(ctx context.Context, p *proof.Proof, net timing.NetworkState, wg *sync.WaitGroup) {
	decision := a.advisor.ShouldExecuteNow(p, net)
	if !decision.Execute {
		a.pending.Push(p)
		a.markDeferred(p.ID)
		a.stats.RecordDeferred()
		if a.metrics != nil {
			a.metrics.RecordDecision("deferred")
		}
		a.log.Info().
			Str("proof_id", p.ID.Hex()).
			Str("reason", decision.Reason).
			Uint64("block_height", decision.BlockHeight).
			Msg("proof deferred")
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.execute(ctx, p)
	}()
}

// drainPending re-evaluates every deferred proof once against the current
// cycle's network state. Expiry is re-checked here so a proof is never
// executed past its own validity window.
func (a *Agent) drainPending(ctx context.Context, retries []*proof.Proof, net timing.NetworkState, wg *sync.WaitGroup) {
	for _, p := range retries {
		// The id leaves the deferred set here; a re-deferral re-marks it.
		a.unmarkDeferred(p.ID)
		if p.Expired(a.now()) {
			if a.metrics != nil {
				a.metrics.ExpiredDropped.Inc()
			}
			a.log.Warn().
				Str("proof_id", p.ID.Hex()).
				Time("expires_at", p.ExpiresAt).
				Msg("dropping deferred proof past expiry")
			continue
		}
		a.admit(ctx, p, net, wg)
	}
}

// execute runs the engine for one proof and records the decision outcome.
func (a *Agent) execute(ctx context.Context, p *proof.Proof) {
	res, err := a.engine.Execute(ctx, p)
	switch {
	case err != nil:
		if a.metrics != nil {
			a.metrics.RecordDecision("failed")
		}
		// Execution failures are not automatically re-queued; the proof
		// reappears in a later fetch if the matcher still offers it.
	case res.AlreadySettled:
		// No-op; idempotent path.
	default:
		if a.metrics != nil {
			a.metrics.RecordDecision("executed")
		}
	}
}

// sampleNetwork reads the network state used by every timing decision in the
// cycle. Block height is observational today but is threaded through so
// richer heuristics can use it.
func (a *Agent) sampleNetwork(ctx context.Context) (timing.NetworkState, error) {
	feePrice, err := a.tgt.FeePrice(ctx)
	if err != nil {
		return timing.NetworkState{}, fmt.Errorf("read fee price: %w", err)
	}
	height, err := a.tgt.BlockHeight(ctx)
	if err != nil {
		return timing.NetworkState{}, fmt.Errorf("read block height: %w", err)
	}
	return timing.NetworkState{FeePrice: feePrice, BlockHeight: height}, nil
}

func (a *Agent) isRejected(id common.Hash) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.rejected[id]
	return ok
}

func (a *Agent) markRejected(id common.Hash) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejected[id] = struct{}{}
}

func (a *Agent) isDeferred(id common.Hash) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.deferred[id]
	return ok
}

func (a *Agent) markDeferred(id common.Hash) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deferred[id] = struct{}{}
}

func (a *Agent) unmarkDeferred(id common.Hash) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.deferred, id)
}
