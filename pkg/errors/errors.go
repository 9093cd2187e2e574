// Package errors defines the coded errors shared by patrol's CLI and HTTP API.
//
// Every failure that reaches a user carries a [Code]. The CLI prints the
// message and the code; the server maps the code's [Class] to a status.
//
//	err := errors.New(errors.ErrCodeInvalidInput, "line %d: unequal row length", n)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // malformed grid text
//	}
//
//	err = errors.Wrap(errors.ErrCodeFileNotFound, cause, "open %s", path)
//
// A trial that ends in a cycle is a result, not an error, and never carries a code.
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGrid   Code = "INVALID_GRID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeBaselineCycle Code = "BASELINE_CYCLE"
	ErrCodeAgentTrapped  Code = "AGENT_TRAPPED"
	ErrCodeStepLimit     Code = "STEP_LIMIT"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by who has to act on them.
type Class int

const (
	// ClassInternal covers unknown codes and the empty code.
	ClassInternal Class = iota
	// ClassInput means the caller sent something unusable.
	ClassInput
	// ClassSimulation means the input was well formed but the walk cannot be
	// analyzed: the baseline loops, the guard is boxed in, or a step ceiling hit.
	ClassSimulation
	// ClassNotFound means a named resource does not exist.
	ClassNotFound
)

// Class reports the class of c.
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidGrid, ErrCodeInvalidConfig, ErrCodeInvalidPath, ErrCodeUnsupported:
		return ClassInput
	case ErrCodeBaselineCycle, ErrCodeAgentTrapped, ErrCodeStepLimit:
		return ClassSimulation
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ClassNotFound
	default:
		return ClassInternal
	}
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets the standard errors.Is match any *Error carrying the same code, so
// a bare New(code, "") works as a target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error with a formatted message and cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsFatalSimulation reports whether err invalidates a whole analysis.
func IsFatalSimulation(err error) bool {
	return err != nil && GetCode(err).Class() == ClassSimulation
}
