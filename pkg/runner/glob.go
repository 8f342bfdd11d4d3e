package runner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// patternSet matches slash-separated relative paths against glob patterns.
type patternSet struct {
	patterns []compiledPattern
}

func compilePatterns(patterns []string) (*patternSet, error) {
	set := &patternSet{}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		set.patterns = append(set.patterns, compiledPattern{pattern: pattern, glob: compiled})

		// "**/x" should also match "x" at the root.
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rootGlob, err := glob.Compile(rest, '/'); err == nil {
				set.patterns = append(set.patterns, compiledPattern{pattern: rest, glob: rootGlob})
			}
		}
	}
	return set, nil
}

func (s *patternSet) empty() bool {
	return s == nil || len(s.patterns) == 0
}

// matchFile reports whether the file path, its base name for patterns
// without a separator, or any of its parent directories matches.
func (s *patternSet) matchFile(relPath string) bool {
	if s.empty() {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	base := relPath[strings.LastIndex(relPath, "/")+1:]

	for _, cp := range s.patterns {
		if cp.glob.Match(relPath) {
			return true
		}
		if !strings.Contains(cp.pattern, "/") && cp.glob.Match(base) {
			return true
		}
	}

	for dir := path.Dir(relPath); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if s.matchDir(dir) {
			return true
		}
	}
	return false
}

// matchDir reports whether a directory, or anything under it, is matched.
// "vendor" matches the pattern "vendor/**".
func (s *patternSet) matchDir(relPath string) bool {
	if s.empty() {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	withSuffix := relPath + "/**"
	base := relPath[strings.LastIndex(relPath, "/")+1:]

	for _, cp := range s.patterns {
		if cp.glob.Match(relPath) || cp.glob.Match(withSuffix) {
			return true
		}
		if !strings.Contains(cp.pattern, "/") && cp.glob.Match(base) {
			return true
		}
	}
	return false
}
