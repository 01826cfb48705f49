package engine

import (
	"errors"
	"fmt"
)

// ErrAlreadyInFlight indicates another attempt currently holds the in-flight
// marking for the proof identifier.
var ErrAlreadyInFlight = errors.New("engine: proof already in flight")

// Stage names the execution phase that failed.
type Stage string

const (
	StageEstimate Stage = "estimate"
	StageSubmit   Stage = "submit"
	StageConfirm  Stage = "confirm"
)

// ExecutionError wraps a failed execution attempt. The in-flight marking has
// been rolled back by the time it is returned; re-queueing is the
// orchestrator's decision.
type ExecutionError struct {
	Stage Stage
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed at %s: %v", e.Stage, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
