package sap

import (
	"fmt"
)

// Errno classifies the errors evaluation can produce.
type Errno uint

// Every failure produced by Eval carries one of these classifications.
const (
	ErrnoInvalidExpr Errno = iota
	ErrnoUnbound
	ErrnoNotAssignable
	ErrnoNotCallable
	ErrnoType
	ErrnoNoMatch
	ErrnoArity
	ErrnoDivZero
	ErrnoStackOverflow
)

var errnoStrings = []string{
	ErrnoInvalidExpr:   "invalid-expression",
	ErrnoUnbound:       "unbound-variable",
	ErrnoNotAssignable: "not-assignable",
	ErrnoNotCallable:   "not-callable",
	ErrnoType:          "type-mismatch",
	ErrnoNoMatch:       "no-matching-clause",
	ErrnoArity:         "arity-mismatch",
	ErrnoDivZero:       "division-by-zero",
	ErrnoStackOverflow: "stack-overflow",
}

func (e Errno) String() string {
	if int(e) >= len(errnoStrings) {
		return "invalid-errno"
	}
	return errnoStrings[e]
}

// Error describes an evaluation failure.
type Error struct {
	// Errno classifies the failure.
	Errno Errno
	// Msg is a human readable description.
	Msg string
	// Stack records the calls that were active when the error was
	// produced, entrypoint first.  It may be nil for errors created
	// outside of evaluation.
	Stack *CallStack
}

// Errorf returns an evaluation error with a formatted message and no
// call stack.
func Errorf(errno Errno, format string, v ...interface{}) *Error {
	return &Error{Errno: errno, Msg: fmt.Sprintf(format, v...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Errno, e.Msg)
}
