package engine

import (
	"errors"
	"fmt"
)

// StepError represents a failure inside one tick step or free action.
//
// Step errors never escape AdvanceYear or CommitActionsAndAdvance: the step
// is skipped, the error is logged, and the tick continues. The errors of the
// most recent tick are available from StepErrors for diagnostics.
type StepError struct {
	// Code identifies the error category.
	Code StepErrorCode

	// Step names the tick step or free action that failed.
	Step string

	// Year is the simulated year of the tick.
	Year int

	// Err is the underlying error or recovered panic value.
	Err error
}

// StepErrorCode categorizes step errors.
type StepErrorCode string

const (
	// ErrCodeSubsystemFailed indicates a step returned an error.
	ErrCodeSubsystemFailed StepErrorCode = "SUBSYSTEM_FAILED"

	// ErrCodeSubsystemPanic indicates a step panicked and was recovered.
	ErrCodeSubsystemPanic StepErrorCode = "SUBSYSTEM_PANIC"

	// ErrCodeActionFailed indicates a free action could not be applied.
	ErrCodeActionFailed StepErrorCode = "ACTION_FAILED"
)

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s (year=%d): %v", e.Code, e.Step, e.Year, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// IsSubsystemError returns true if err is a failed or panicked tick step.
// Uses errors.As to handle wrapped errors.
func IsSubsystemError(err error) bool {
	var se *StepError
	if errors.As(err, &se) {
		return se.Code == ErrCodeSubsystemFailed || se.Code == ErrCodeSubsystemPanic
	}
	return false
}

// IsActionError returns true if err is a failed free action.
func IsActionError(err error) bool {
	var se *StepError
	if errors.As(err, &se) {
		return se.Code == ErrCodeActionFailed
	}
	return false
}
