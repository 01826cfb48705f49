package target

import "fmt"

// SubmissionError indicates the settlement call could not be broadcast.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ConfirmationError indicates a broadcast settlement was not confirmed within
// its validity window.
type ConfirmationError struct {
	Err error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("confirmation failed: %v", e.Err)
}

func (e *ConfirmationError) Unwrap() error { return e.Err }
