package ivp

import (
	"errors"
	"fmt"
)

// Domain errors for integration operations.
var (
	// ErrStepUnderflow indicates the controlled stepsize shrank until
	// x + h == x in floating point. The integration cannot advance.
	ErrStepUnderflow = errors.New("ivp: stepsize underflow (x + h == x)")

	// ErrTooManySteps indicates the step limit was reached before the end
	// of the interval.
	ErrTooManySteps = errors.New("ivp: step limit reached before end of interval")

	// ErrStepBelowMin indicates an accepted step proposed a next size below
	// the configured minimum. Advisory; integration proceeds.
	ErrStepBelowMin = errors.New("ivp: stepsize below configured minimum")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("ivp: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("ivp: dimension mismatch between state and system")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step int
	X    float64
	H    float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (x=%.6g, h=%.3g): %v", e.Step, e.X, e.H, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
