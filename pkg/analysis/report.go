package analysis

import "time"

// Report contains pre-computed views of what a set of trees is made of.
// Computed once by Analyze, used by all renderers.
type Report struct {
	// ByNodeType counts node types across all parsed files.
	ByNodeType []TypeCount `json:"byNodeType"`

	// ByTokenKind counts token kinds across all parsed files.
	ByTokenKind []TypeCount `json:"byTokenKind"`

	// ByFile summarizes each parsed file.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// TypeCount is the number of occurrences of one node type or token kind.
type TypeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Files int    `json:"files"`
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path       string `json:"path"`
	Nodes      int    `json:"nodes"`
	Tokens     int    `json:"tokens"`
	Lines      int    `json:"lines"`
	MaxDepth   int    `json:"maxDepth"`
	NodeTypes  int    `json:"nodeTypes"`
	TokenKinds int    `json:"tokenKinds"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files       int `json:"filesChecked"`
	FilesParsed int `json:"filesParsed"`
	Nodes       int `json:"nodes"`
	Tokens      int `json:"tokens"`
	Lines       int `json:"lines"`
	MaxDepth    int `json:"maxDepth"`
	NodeTypes   int `json:"distinctNodeTypes"`
	TokenKinds  int `json:"distinctTokenKinds"`
}

// HasTrees returns true if at least one file produced a tree.
func (t Totals) HasTrees() bool {
	return t.FilesParsed > 0
}
