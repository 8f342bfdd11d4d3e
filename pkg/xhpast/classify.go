package xhpast

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// ExecResult is the resolved outcome of one parser invocation.
type ExecResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Invoker runs the external parser over source.
// A returned error means the parser could not be run at all.
type Invoker interface {
	Invoke(ctx context.Context, source []byte) (ExecResult, error)
}

// OutcomeKind tags a Classification.
type OutcomeKind int

const (
	OutcomeParsed OutcomeKind = iota
	OutcomeSyntaxError
	OutcomeInfrastructureFailure
)

// String returns a short name for the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeParsed:
		return "parsed"
	case OutcomeSyntaxError:
		return "syntax-error"
	case OutcomeInfrastructureFailure:
		return "infrastructure-failure"
	default:
		return "unknown"
	}
}

// Classification is the result of Classify. Payload is set only for
// OutcomeParsed; Err is a *SyntaxError or *InfrastructureError otherwise.
type Classification struct {
	Kind    OutcomeKind
	Payload *Payload
	Err     error
}

// parseErrorExitCode is the exit status xhpast uses for rejected input.
const parseErrorExitCode = 1

//nolint:gochecknoglobals // Compiled once, read-only.
var syntaxErrorPattern = regexp.MustCompile(`^XHPAST Parse Error: (.*) on line (\d+)`)

// Classify decides whether a parser run succeeded, rejected the source, or failed.
func Classify(res ExecResult) Classification {
	if res.ExitCode == 0 {
		payload, err := decodePayload(res.Stdout)
		if err != nil {
			return Classification{Kind: OutcomeInfrastructureFailure, Err: err}
		}
		return Classification{Kind: OutcomeParsed, Payload: payload}
	}

	stderr := string(res.Stderr)

	if res.ExitCode == parseErrorExitCode {
		if match := syntaxErrorPattern.FindStringSubmatch(stderr); match != nil {
			line, err := strconv.Atoi(match[2])
			if err == nil {
				return Classification{
					Kind: OutcomeSyntaxError,
					Err:  &SyntaxError{Line: line, Message: match[1], Stderr: stderr},
				}
			}
		}
	}

	return Classification{
		Kind: OutcomeInfrastructureFailure,
		Err:  &InfrastructureError{ExitCode: res.ExitCode, Stderr: stderr},
	}
}

// NewTree classifies a resolved parser run over source and, on success,
// builds the tree. It returns a *SyntaxError or *InfrastructureError otherwise.
func NewTree(source []byte, res ExecResult) (*Tree, error) {
	classification := Classify(res)
	if classification.Kind != OutcomeParsed {
		return nil, classification.Err
	}
	return newTree(source, classification.Payload)
}

// Parse runs inv over source and builds the tree.
func Parse(ctx context.Context, inv Invoker, source []byte) (*Tree, error) {
	res, err := inv.Invoke(ctx, source)
	if err != nil {
		return nil, &InfrastructureError{
			ExitCode: -1,
			Err:      fmt.Errorf("invoke parser: %w", err),
		}
	}
	return NewTree(source, res)
}
