// Package invoker runs the external XHPAST parser and adapts its results
// to the xhpast.Invoker interface.
package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

const (
	// DefaultBinary is the parser executable looked up on PATH.
	DefaultBinary = "xhpast"

	// DefaultTimeout bounds a single parser run.
	DefaultTimeout = 30 * time.Second

	// waitDelay bounds how long output pipes may stay open after the
	// parser is killed.
	waitDelay = 2 * time.Second
)

// ErrTimeout is returned when the parser does not finish in time.
var ErrTimeout = errors.New("parser timed out")

// Exec runs the parser binary with the source on stdin.
type Exec struct {
	// Binary is the executable name or path.
	Binary string

	// Args are passed to the executable before any input.
	Args []string

	// Timeout bounds each run. Zero means no limit beyond ctx.
	Timeout time.Duration

	// Env, when non-nil, replaces the child's environment.
	Env []string
}

// NewExec returns an Exec for binary with the given timeout.
// An empty binary selects DefaultBinary.
func NewExec(binary string, timeout time.Duration) *Exec {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Exec{Binary: binary, Timeout: timeout}
}

var _ xhpast.Invoker = (*Exec)(nil)

// Invoke runs the parser once. A non-zero exit is reported through
// ExecResult.ExitCode; only failures to run at all return an error.
func (e *Exec) Invoke(ctx context.Context, source []byte) (xhpast.ExecResult, error) {
	logger := logging.FromContext(ctx)

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, e.Binary, e.Args...)
	cmd.Stdin = bytes.NewReader(source)
	cmd.WaitDelay = waitDelay
	if e.Env != nil {
		cmd.Env = e.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	res := xhpast.ExecResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return xhpast.ExecResult{}, fmt.Errorf("%w after %s", ErrTimeout, e.Timeout)
		}
		if ctx.Err() != nil {
			return xhpast.ExecResult{}, ctx.Err()
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return xhpast.ExecResult{}, fmt.Errorf("run %s: %w", e.Binary, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	logger.Debug("parser finished",
		logging.FieldBinary, e.Binary,
		logging.FieldBytes, len(source),
		logging.FieldExitCode, res.ExitCode,
		logging.FieldDuration, elapsed,
	)

	return res, nil
}
