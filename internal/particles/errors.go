package particles

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName indicates two definitions sharing a name.
	ErrDuplicateName = errors.New("particles: duplicate particle name")

	// ErrDuplicatePDG indicates two definitions sharing a PDG code.
	ErrDuplicatePDG = errors.New("particles: duplicate PDG code")

	// ErrInvalidInput indicates a definition with unusable values.
	ErrInvalidInput = errors.New("particles: invalid particle definition")
)

// DuplicateError names the definitions that collide.
type DuplicateError struct {
	Name    string
	PDG     PDGNumber
	First   int
	Second  int
	Wrapped error
}

func (e *DuplicateError) Error() string {
	if errors.Is(e.Wrapped, ErrDuplicatePDG) {
		return fmt.Sprintf("%v: %d (inputs %d and %d)", e.Wrapped, e.PDG, e.First, e.Second)
	}
	return fmt.Sprintf("%v: %q (inputs %d and %d)", e.Wrapped, e.Name, e.First, e.Second)
}

func (e *DuplicateError) Unwrap() error {
	return e.Wrapped
}
