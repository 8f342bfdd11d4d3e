package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/phpast/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Status      string           `json:"status"`
	Nodes       int              `json:"nodes"`
	Tokens      int              `json:"tokens"`
	Lines       int              `json:"lines"`
	Tiled       bool             `json:"tiled"`
	DurationMS  float64          `json:"durationMs"`
	SyntaxError *JSONSyntaxError `json:"syntaxError,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONSyntaxError describes a file the parser rejected.
type JSONSyntaxError struct {
	Line       int    `json:"line"`
	Message    string `json:"message"`
	SourceLine string `json:"sourceLine,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered       int `json:"filesDiscovered"`
	FilesParsed           int `json:"filesParsed"`
	FilesWithSyntaxErrors int `json:"filesWithSyntaxErrors"`
	FilesErrored          int `json:"filesErrored"`
	FilesUntiled          int `json:"filesUntiled"`
	Nodes                 int `json:"nodes"`
	Tokens                int `json:"tokens"`
	Lines                 int `json:"lines"`
}

// Per-file status values.
const (
	statusOK      = "ok"
	statusPartial = "partial"
	statusSyntax  = "syntax-error"
	statusFailed  = "failed"
)

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return countProblems(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:       r.opts.displayPath(file.Path),
			DurationMS: float64(file.Duration.Microseconds()) / 1000,
		}

		switch {
		case file.Error != nil:
			fileResult.Status = statusFailed
			fileResult.Error = file.Error.Error()
		case file.Syntax != nil:
			fileResult.Status = statusSyntax
			fileResult.SyntaxError = &JSONSyntaxError{
				Line:       file.Syntax.Line,
				Message:    file.Syntax.Message,
				SourceLine: file.SourceLine,
			}
		default:
			fileResult.Status = statusOK
			if !file.Tiled {
				fileResult.Status = statusPartial
			}
			fileResult.Nodes = file.Nodes
			fileResult.Tokens = file.Tokens
			fileResult.Lines = file.Lines
			fileResult.Tiled = file.Tiled
		}

		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered:       stats.FilesDiscovered,
		FilesParsed:           stats.FilesParsed,
		FilesWithSyntaxErrors: stats.FilesWithSyntaxErrors,
		FilesErrored:          stats.FilesErrored,
		FilesUntiled:          stats.FilesUntiled,
		Nodes:                 stats.NodesTotal,
		Tokens:                stats.TokensTotal,
		Lines:                 stats.LinesTotal,
	}

	return output
}
