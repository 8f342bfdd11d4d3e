package xhpast

import (
	"bytes"
	"sort"
	"sync"
)

// LineIndex maps byte offsets to 1-based line numbers.
// The mapping is computed on first use and kept for the index's lifetime.
type LineIndex struct {
	source []byte
	once   sync.Once
	lines  []int
}

// NewLineIndex creates an index over source. No work happens until first use.
func NewLineIndex(source []byte) *LineIndex {
	return &LineIndex{source: source}
}

func (li *LineIndex) compute() {
	lines := make([]int, len(li.source))
	lno := 1
	for idx, char := range li.source {
		lines[idx] = lno
		if char == '\n' {
			lno++
		}
	}
	li.lines = lines
}

// Map returns the full offset-to-line table; entry i is the line of byte i.
// The returned slice is shared and must not be modified.
func (li *LineIndex) Map() []int {
	li.once.Do(li.compute)
	return li.lines
}

// LineAt returns the line containing offset, or (0, false) if offset is
// outside [0, len(source)).
func (li *LineIndex) LineAt(offset int) (int, bool) {
	lines := li.Map()
	if offset < 0 || offset >= len(lines) {
		return 0, false
	}
	return lines[offset], true
}

// LineCount returns the number of lines that contain at least one byte.
func (li *LineIndex) LineCount() int {
	lines := li.Map()
	if len(lines) == 0 {
		return 0
	}
	return lines[len(lines)-1]
}

// LineContent returns the bytes of a 1-based line without its line ending,
// or nil if the line does not exist.
func (li *LineIndex) LineContent(line int) []byte {
	lines := li.Map()
	start := sort.SearchInts(lines, line)
	if start >= len(lines) || lines[start] != line {
		return nil
	}
	end := sort.SearchInts(lines, line+1)

	content := li.source[start:end]
	content = bytes.TrimSuffix(content, []byte("\n"))
	content = bytes.TrimSuffix(content, []byte("\r"))
	return content
}
