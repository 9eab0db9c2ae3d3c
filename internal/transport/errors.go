package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates loop settings that cannot run.
	ErrInvalidConfig = errors.New("transport: invalid configuration")

	// ErrInvalidPrimary indicates a primary with an unknown species or a
	// negative energy.
	ErrInvalidPrimary = errors.New("transport: invalid primary")

	// ErrMissingSpecies indicates a model whose particles are not registered.
	ErrMissingSpecies = errors.New("transport: species not registered")

	// ErrUnknownModel indicates a model name with no factory.
	ErrUnknownModel = errors.New("transport: unknown model")
)

// StepError wraps a failure with the step it happened in.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
