package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by occurrence count.
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// SortBy specifies how to sort ByNodeType, ByTokenKind and ByFile.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool

	// Limit truncates ByNodeType and ByTokenKind. Zero means no limit.
	Limit int

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeByFile: false,
		SortBy:        SortByCount,
		SortDesc:      true,
	}
}
