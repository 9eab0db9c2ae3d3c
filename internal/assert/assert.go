// Package assert implements fail-fast contract checks.
//
// A failed check is a programming error, not a recoverable condition: it
// panics with a [*ContractError] naming the kind of check, the message, and
// the file and line of the call site. Building with the ndebug tag compiles
// every check out.
package assert

import (
	"fmt"
	"path/filepath"
	"runtime"
)

type Kind int

const (
	Precondition Kind = iota
	Postcondition
	Invariant
	Unreachable
)

func (k Kind) String() string {
	switch k {
	case Precondition:
		return "precondition"
	case Postcondition:
		return "postcondition"
	case Invariant:
		return "internal assertion"
	case Unreachable:
		return "unreachable code"
	default:
		return "contract"
	}
}

// ContractError is the panic value of a failed check.
type ContractError struct {
	Kind    Kind
	File    string
	Line    int
	Message string
}

func (e *ContractError) Error() string {
	if e.Kind == Unreachable {
		return fmt.Sprintf("%s:%d: %s reached: %s", e.File, e.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s failed: %s", e.File, e.Line, e.Kind, e.Message)
}

// Expect checks a precondition.
func Expect(cond bool, msg string) {
	if Enabled && !cond {
		fail(Precondition, msg)
	}
}

// Ensure checks a postcondition.
func Ensure(cond bool, msg string) {
	if Enabled && !cond {
		fail(Postcondition, msg)
	}
}

// Check verifies an internal invariant.
func Check(cond bool, msg string) {
	if Enabled && !cond {
		fail(Invariant, msg)
	}
}

// NotReached marks code that a correct caller can never get to. It panics
// even in ndebug builds.
func NotReached(msg string) {
	fail(Unreachable, msg)
}

func fail(kind Kind, msg string) {
	file, line := "unknown", 0
	if _, f, l, ok := runtime.Caller(2); ok {
		file, line = filepath.Base(f), l
	}
	panic(&ContractError{Kind: kind, File: file, Line: line, Message: msg})
}
