package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the transformer wraps exactly one of these.
var (
	ErrUsage          = errors.New("usage error")
	ErrMalformedInput = errors.New("malformed input")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrIO             = errors.New("i/o error")
)

// Process exit codes, one per error kind.
const (
	ExitSuccess       = 0
	ExitInternalError = 1
	ExitUsage         = 2
	ExitMalformed     = 3
	ExitShapeMismatch = 4
	ExitIO            = 5
)

// Error carries the kind of a failure plus where it happened.
type Error struct {
	Kind error  // one of the Err* sentinels
	Op   string // e.g. "read", "decode", "flatten", "write"
	Path string // file path or document path, optional
	Err  error  // underlying cause, optional
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports a match against the kind sentinel so errors.Is works on wrapped errors.
func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Err }

// Usagef builds a usage error.
func Usagef(format string, args ...any) error {
	return &Error{Kind: ErrUsage, Err: fmt.Errorf(format, args...)}
}

// Malformed wraps a parse failure.
func Malformed(op string, err error) error {
	return &Error{Kind: ErrMalformedInput, Op: op, Err: err}
}

// ShapeMismatchf reports a missing or mistyped element at path.
func ShapeMismatchf(path, format string, args ...any) error {
	return &Error{Kind: ErrShapeMismatch, Op: "flatten", Path: path, Err: fmt.Errorf(format, args...)}
}

// IOError wraps a filesystem or stream failure.
func IOError(op, path string, err error) error {
	return &Error{Kind: ErrIO, Op: op, Path: path, Err: err}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrMalformedInput):
		return ExitMalformed
	case errors.Is(err, ErrShapeMismatch):
		return ExitShapeMismatch
	case errors.Is(err, ErrIO):
		return ExitIO
	default:
		return ExitInternalError
	}
}

// KindName is the short label stored in the run journal and API responses.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "usage"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "internal"
	}
}
