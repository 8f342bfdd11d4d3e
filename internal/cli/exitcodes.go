package cli

import (
	"errors"

	"github.com/yaklabco/phpast/internal/configloader"
	"github.com/yaklabco/phpast/pkg/runner"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

// Exit codes for phpast.
const (
	// ExitSuccess indicates every file parsed cleanly.
	ExitSuccess = 0

	// ExitSyntaxErrors indicates the parser rejected at least one file.
	ExitSyntaxErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitParserFailure indicates the parser could not run or misbehaved.
	ExitParserFailure = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Signals returned by commands so main can pick an exit code without logging.
var (
	ErrSyntaxErrors   = errors.New("syntax errors found")
	ErrParserFailures = errors.New("parser failed on some inputs")
)

// ExitCodeFromResult determines the exit code for a check run.
// Parser failures take precedence over syntax errors.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasFailures():
		return ExitParserFailure
	case result.HasSyntaxErrors():
		return ExitSyntaxErrors
	default:
		return ExitSuccess
	}
}

// errorFromExitCode returns the signal error for a non-zero exit code.
func errorFromExitCode(code int) error {
	switch code {
	case ExitSuccess:
		return nil
	case ExitSyntaxErrors:
		return ErrSyntaxErrors
	default:
		return ErrParserFailures
	}
}

// ExitCodeFromError maps an error returned by a command to a process exit code.
func ExitCodeFromError(err error) int {
	var (
		syntaxErr     *xhpast.SyntaxError
		infraErr      *xhpast.InfrastructureError
		usageErr      *xhpast.UsageError
		validationErr *configloader.ValidationError
		configErr     *configError
		ioErr         *ioError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrSyntaxErrors), errors.As(err, &syntaxErr):
		return ExitSyntaxErrors
	case errors.Is(err, ErrParserFailures), errors.As(err, &infraErr):
		return ExitParserFailure
	case errors.As(err, &usageErr):
		return ExitInvalidUsage
	case errors.As(err, &validationErr), errors.As(err, &configErr):
		return ExitConfigError
	case errors.As(err, &ioErr):
		return ExitIOError
	default:
		return ExitSyntaxErrors
	}
}

// IsSignal reports whether err only carries an exit status and needs no logging.
func IsSignal(err error) bool {
	return errors.Is(err, ErrSyntaxErrors) || errors.Is(err, ErrParserFailures)
}

// ioError marks failures to read input or write output.
type ioError struct {
	err error
}

func (e *ioError) Error() string { return e.err.Error() }

func (e *ioError) Unwrap() error { return e.err }

// configError marks configuration that could not be loaded.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }

func (e *configError) Unwrap() error { return e.err }
