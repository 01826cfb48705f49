package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBackoffMultiplier doubles the delay after a failed cycle.
const DefaultBackoffMultiplier = 2

// Config configures an IntervalRunner.
type Config struct {
	// Interval between cycle starts.
	Interval time.Duration
	// BackoffMultiplier scales the delay after a cycle that returned an error.
	// The backoff applies to that iteration only; cadence resumes on success.
	BackoffMultiplier uint
	// Handler invoked each cycle. If nil, SetHandler must be called before Start.
	Handler CycleHandler
	Logger  zerolog.Logger
}

var _ Runner = (*IntervalRunner)(nil)

// IntervalRunner implements Runner with a timer-driven loop. The first cycle
// fires immediately on Start.
type IntervalRunner struct {
	// Log and lifecycle
	log     zerolog.Logger
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
	// Handler
	handler CycleHandler
	// Time management
	interval time.Duration
	backoff  time.Duration
}

// NewIntervalRunner constructs an IntervalRunner from config.
func NewIntervalRunner(cfg Config) *IntervalRunner {
	multiplier := cfg.BackoffMultiplier
	if multiplier == 0 {
		multiplier = DefaultBackoffMultiplier
	}

	return &IntervalRunner{
		log:      cfg.Logger,
		handler:  cfg.Handler,
		interval: cfg.Interval,
		backoff:  cfg.Interval * time.Duration(multiplier),
	}
}

// SetHandler sets the handler to be called each cycle.
// It should be called before Start; otherwise Start will panic.
func (r *IntervalRunner) SetHandler(handler CycleHandler) {
	r.handler = handler
}

// Start begins the cycle loop until the context is canceled or Stop is called.
func (r *IntervalRunner) Start(ctx context.Context) error {
	if r.handler == nil {
		panic("runner: IntervalRunner requires a handler to start")
	}

	if r.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.started = true
	r.done = make(chan struct{})

	go r.run(runCtx)
	return nil
}

// Stop halts the runner and waits for the in-progress cycle to finish.
func (r *IntervalRunner) Stop(ctx context.Context) error {
	if !r.started {
		return nil
	}

	r.started = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// run fires the handler immediately, then on each timer tick. A handler error
// stretches the next delay by the backoff multiplier for that iteration only.
func (r *IntervalRunner) run(ctx context.Context) {
	defer close(r.done)

	delay := r.emit(ctx)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(r.emit(ctx))
		}
	}
}

// emit invokes the handler and returns the delay before the next cycle.
func (r *IntervalRunner) emit(ctx context.Context) time.Duration {
	if ctx.Err() != nil {
		return r.interval
	}
	if err := r.handler(ctx); err != nil {
		r.log.Error().Err(err).Dur("backoff", r.backoff).Msg("cycle failed, backing off")
		return r.backoff
	}
	return r.interval
}
