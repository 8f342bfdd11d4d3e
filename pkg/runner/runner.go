package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/pkg/fsutil"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

// Runner parses many files through one Invoker.
type Runner struct {
	// Invoker runs the parser. It must be safe for concurrent use.
	Invoker xhpast.Invoker

	// CollectHistograms attaches a Histogram to every parsed outcome.
	CollectHistograms bool
}

// New creates a new Runner with the given invoker.
func New(inv xhpast.Invoker) *Runner {
	return &Runner{Invoker: inv}
}

// Run discovers files under opts.Paths and parses them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// Each tree is disposed as soon as its outcome is recorded, so memory use
// is bounded by the number of workers rather than the number of files.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	// Determine job count.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	jobs = min(jobs, len(files))

	outcomes := make([]FileOutcome, len(files))

	group := new(errgroup.Group)
	group.SetLimit(jobs)

	for i, path := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = FileOutcome{Path: path, Error: err}
				return nil
			}
			outcomes[i] = r.ParseFile(ctx, path)
			return nil
		})
	}

	//nolint:errcheck // workers record failures in their outcome
	group.Wait()

	// Build result in deterministic order.
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesParsed,
		logging.FieldSyntaxErrors, result.Stats.FilesWithSyntaxErrors,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	if ctx.Err() != nil {
		err := fmt.Errorf("run cancelled: %w", ctx.Err())
		result.Errors = append(result.Errors, err)
		return result, err
	}

	return result, nil
}

// ParseFile reads and parses a single file and summarizes the tree.
func (r *Runner) ParseFile(ctx context.Context, path string) FileOutcome {
	start := time.Now()

	source, err := fsutil.ReadSource(ctx, path)
	if err != nil {
		return FileOutcome{
			Path:     path,
			Error:    err,
			Duration: time.Since(start),
		}
	}

	outcome := r.summarize(ctx, path, source)
	outcome.Duration = time.Since(start)
	return outcome
}

// ParseSource parses in-memory source as if read from path.
func (r *Runner) ParseSource(ctx context.Context, path string, source []byte) FileOutcome {
	start := time.Now()
	outcome := r.summarize(ctx, path, source)
	outcome.Duration = time.Since(start)
	return outcome
}

func (r *Runner) summarize(ctx context.Context, path string, source []byte) FileOutcome {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)
	outcome := FileOutcome{Path: path}

	tree, err := xhpast.Parse(ctx, r.Invoker, source)
	if err != nil {
		var syntaxErr *xhpast.SyntaxError
		if errors.As(err, &syntaxErr) {
			outcome.Syntax = syntaxErr
			outcome.SourceLine = string(xhpast.NewLineIndex(source).LineContent(syntaxErr.Line))
			logger.Debug("syntax error", logging.FieldLine, syntaxErr.Line)
			return outcome
		}
		outcome.Error = err
		logger.Debug("parse failed", logging.FieldError, err)
		return outcome
	}
	defer tree.Dispose()

	tokens, err := tree.Tokens()
	if err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.Nodes = tree.NodeCount()
	outcome.Tokens = len(tokens)
	outcome.Lines = tree.LineCount()
	outcome.Tiled = xhpast.ValidateTokens(tokens, len(source))
	if r.CollectHistograms {
		outcome.Histogram = histogram(tree, tokens)
	}

	if !outcome.Tiled {
		logger.Warn("token stream does not cover source", logging.FieldTokens, len(tokens))
	}

	return outcome
}
