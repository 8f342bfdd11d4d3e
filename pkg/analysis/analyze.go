// Package analysis aggregates per-file histograms from a check run into
// node-type, token-kind and per-file views.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/phpast/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(relPath)
}

// tally accumulates counts for one dimension (node types or token kinds).
type tally struct {
	counts map[string]*TypeCount
}

func newTally() *tally {
	return &tally{counts: make(map[string]*TypeCount)}
}

func (t *tally) add(hist map[string]int) {
	for name, n := range hist {
		entry, ok := t.counts[name]
		if !ok {
			entry = &TypeCount{Name: name}
			t.counts[name] = entry
		}
		entry.Count += n
		entry.Files++
	}
}

func (t *tally) build(opts Options) []TypeCount {
	result := make([]TypeCount, 0, len(t.counts))
	for _, entry := range t.counts {
		result = append(result, *entry)
	}
	sortTypeCounts(result, opts.SortBy, opts.SortDesc)
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// Analyze transforms a runner.Result into a Report. Files without a
// Histogram (not parsed, or histograms were not collected) contribute
// only to Totals.Files.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		ByNodeType:  []TypeCount{},
		ByTokenKind: []TypeCount{},
		Version:     ReportVersion,
		Timestamp:   time.Now(),
	}

	if result == nil {
		return report
	}

	nodeTypes := newTally()
	tokenKinds := newTally()

	for _, file := range result.Files {
		report.Totals.Files++
		if !file.Parsed() || file.Histogram == nil {
			continue
		}

		hist := file.Histogram
		report.Totals.FilesParsed++
		report.Totals.Nodes += file.Nodes
		report.Totals.Tokens += file.Tokens
		report.Totals.Lines += file.Lines
		report.Totals.MaxDepth = max(report.Totals.MaxDepth, hist.MaxDepth)

		nodeTypes.add(hist.NodeTypes)
		tokenKinds.add(hist.TokenKinds)

		if opts.IncludeByFile {
			report.ByFile = append(report.ByFile, FileAnalysis{
				Path:       makeRelativePath(file.Path, opts.WorkingDir),
				Nodes:      file.Nodes,
				Tokens:     file.Tokens,
				Lines:      file.Lines,
				MaxDepth:   hist.MaxDepth,
				NodeTypes:  len(hist.NodeTypes),
				TokenKinds: len(hist.TokenKinds),
			})
		}
	}

	report.Totals.NodeTypes = len(nodeTypes.counts)
	report.Totals.TokenKinds = len(tokenKinds.counts)
	report.ByNodeType = nodeTypes.build(opts)
	report.ByTokenKind = tokenKinds.build(opts)
	sortFileAnalysis(report.ByFile, opts.SortBy, opts.SortDesc)

	return report
}

func sortTypeCounts(counts []TypeCount, sortBy SortField, desc bool) {
	slices.SortFunc(counts, func(left, right TypeCount) int {
		if sortBy == SortByAlpha {
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Name, right.Name)
		}
		result := cmp.Compare(left.Count, right.Count)
		if desc {
			result = -result
		}
		// Ties break by name so output is deterministic.
		if result == 0 {
			result = cmp.Compare(left.Name, right.Name)
		}
		return result
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		if sortBy == SortByAlpha {
			return cmp.Compare(left.Path, right.Path)
		}
		result := cmp.Compare(left.Nodes, right.Nodes)
		if desc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
