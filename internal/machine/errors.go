package machine

import (
	"errors"
	"fmt"
)

// ErrHalted is returned by Run when the machine already halted.
// A machine lives for exactly one run.
var ErrHalted = errors.New("machine already halted")

// ErrRunning is returned by Run when called while the machine is running,
// e.g. from inside a consumer.
var ErrRunning = errors.New("machine already running")

// StepsExceededError is returned when a run exceeds the WithMaxSteps quota.
//
// A step is one dispatched event or one transition. The quota exists for
// callers whose transition may never halt; it is off by default.
type StepsExceededError struct {
	Steps int    // Steps taken when the quota tripped
	Limit int    // Configured maximum
	State string // Current state at the time
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("machine exhausted max steps quota in state %s: %d steps, limit %d",
		e.State, e.Steps, e.Limit)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
