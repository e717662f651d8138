package particles

import (
	"errors"
	"fmt"
)

var (
	// ErrUnstable indicates a position or velocity became NaN or Inf.
	ErrUnstable = errors.New("particles: simulation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("particles: parameter out of valid bounds")
)

// StepError wraps an error with the step and point it was detected at.
type StepError struct {
	Step    int
	Point   int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d, point %d: %v", e.Step, e.Point, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
