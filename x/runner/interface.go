package runner

import "context"

// CycleHandler is invoked once per cycle. A returned error backs the next
// cycle off without stopping the runner.
type CycleHandler func(ctx context.Context) error

// Runner drives a handler on a fixed cadence until stopped.
type Runner interface {
	// SetHandler sets the handler to be called each cycle.
	// It must be called before Start.
	SetHandler(handler CycleHandler)

	// Start begins emitting cycles until the context is canceled or Stop is called.
	Start(ctx context.Context) error

	// Stop halts the runner.
	Stop(ctx context.Context) error
}
