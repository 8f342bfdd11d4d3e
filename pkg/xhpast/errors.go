package xhpast

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel causes carried inside InfrastructureError and UsageError.
var (
	ErrMalformedOutput = errors.New("parser produced malformed output")
	ErrStreamOverrun   = errors.New("token stream overruns source")
	ErrTokenOutOfRange = errors.New("token index out of range")

	ErrDisposed        = errors.New("tree has been disposed")
	ErrEmptyTree       = errors.New("tree has no nodes")
	ErrNotOneStatement = errors.New("fragment does not parse into exactly one statement")
)

// SyntaxError reports that the parsed source is not valid PHP.
// It is an expected, user-facing condition rather than a tool failure.
type SyntaxError struct {
	// Line is the 1-based line reported by the parser.
	Line int

	// Message is the parser's description of the error.
	Message string

	// Stderr is the raw diagnostic text.
	Stderr string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Message)
}

// InfrastructureError reports that the parser could not run, crashed, or
// produced output that does not have the expected shape.
type InfrastructureError struct {
	// ExitCode is the parser's exit status, or -1 if it never ran.
	ExitCode int

	// Stderr is the raw stderr output, if any.
	Stderr string

	// Err is the underlying cause, if known.
	Err error
}

// Error implements the error interface.
func (e *InfrastructureError) Error() string {
	var b strings.Builder
	b.WriteString("xhpast failed")
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// UsageError reports a caller-side contract violation.
type UsageError struct {
	// Op names the operation that was misused.
	Op string

	// Err is the violated contract.
	Err error
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the violated contract.
func (e *UsageError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) *InfrastructureError {
	return &InfrastructureError{
		Err: fmt.Errorf("%w: %s", ErrMalformedOutput, fmt.Sprintf(format, args...)),
	}
}
