package runner

import (
	"time"

	"github.com/yaklabco/phpast/pkg/xhpast"
)

// FileOutcome summarizes the parse of one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Nodes, Tokens and Lines describe a successfully built tree.
	Nodes  int
	Tokens int
	Lines  int

	// Tiled reports whether the tokens exactly cover the source.
	Tiled bool

	// Histogram is set for parsed files when the Runner collects histograms.
	Histogram *Histogram

	// Syntax is set when the parser rejected the source.
	Syntax *xhpast.SyntaxError

	// SourceLine is the text of the line Syntax points at.
	SourceLine string

	// Duration is the wall time spent on this file.
	Duration time.Duration

	// Error is set if the file could not be read or parsed for
	// reasons other than a syntax error.
	Error error
}

// Parsed reports whether a tree was built for the file.
func (o FileOutcome) Parsed() bool {
	return o.Error == nil && o.Syntax == nil
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesParsed is the number of files that produced a tree.
	FilesParsed int

	// FilesWithSyntaxErrors is the number of files the parser rejected.
	FilesWithSyntaxErrors int

	// FilesErrored is the number of files that hit an infrastructure failure.
	FilesErrored int

	// FilesUntiled is the number of parsed files whose token stream did not
	// cover the whole source.
	FilesUntiled int

	// NodesTotal, TokensTotal and LinesTotal sum over parsed files.
	NodesTotal  int
	TokensTotal int
	LinesTotal  int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors holds run-level failures, such as cancellation part way through.
	Errors []error
}

// HasSyntaxErrors reports whether any file failed to parse.
func (r *Result) HasSyntaxErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesWithSyntaxErrors > 0
}

// HasFailures reports whether the parser could not be run on some file.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Syntax != nil:
		r.Stats.FilesWithSyntaxErrors++
	default:
		r.Stats.FilesParsed++
		r.Stats.NodesTotal += outcome.Nodes
		r.Stats.TokensTotal += outcome.Tokens
		r.Stats.LinesTotal += outcome.Lines
		if !outcome.Tiled {
			r.Stats.FilesUntiled++
		}
	}
}
