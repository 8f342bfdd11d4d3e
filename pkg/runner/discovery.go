package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/yaklabco/phpast/pkg/langdetect"
)

// sniffBytes is how much of an extension-less file is read for detection.
const sniffBytes = 8 << 10

// discoverer carries the compiled discovery criteria.
type discoverer struct {
	workDir    string
	extensions []string
	include    *patternSet
	exclude    *patternSet
	opts       Options
}

// Discover finds PHP files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	// Resolve working directory.
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	disc := &discoverer{
		workDir:    workDir,
		extensions: normalizeExtensions(opts.effectiveExtensions()),
		include:    include,
		exclude:    exclude,
		opts:       opts,
	}

	// Use a map for deduplication.
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		// Resolve to absolute path.
		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			// Explicit files bypass extension filtering but not excludes.
			if !disc.exclude.matchFile(disc.rel(filepath.Dir(absPath), absPath)) {
				add(absPath)
			}
			continue
		}

		discovered, err := disc.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	// Sort for deterministic ordering.
	sort.Strings(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func normalizeExtensions(extensions []string) []string {
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// rel returns path relative to the working directory for pattern matching.
// Paths outside the working directory are made relative to root instead.
func (d *discoverer) rel(root, path string) string {
	relPath, err := filepath.Rel(d.workDir, path)
	if err == nil && relPath != ".." && !strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return relPath
	}
	if relPath, err = filepath.Rel(root, path); err == nil {
		return relPath
	}
	return path
}

// walk recursively walks a directory and returns matching PHP files.
func (d *discoverer) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		// Check for context cancellation.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			// Handle permission errors gracefully.
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := d.rel(root, path)

		// Handle directories.
		if entry.IsDir() {
			if path == root {
				return nil
			}
			// Skip hidden directories.
			if strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if d.opts.SkipVendor && langdetect.IsVendor(relPath+"/") {
				return filepath.SkipDir
			}
			if d.exclude.matchDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		// Handle symlinks.
		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Intentionally skip inaccessible symlink targets
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				// Walk the symlink TARGET (realPath), not the symlink itself.
				subFiles, err := d.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		// Skip hidden files.
		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if d.matches(path, relPath) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// matches checks a walked file against the inclusion criteria.
func (d *discoverer) matches(path, relPath string) bool {
	if d.exclude.matchFile(relPath) {
		return false
	}
	if !d.include.empty() && !d.include.matchFile(relPath) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	if slices.Contains(d.extensions, ext) {
		return true
	}

	return ext == "" && d.opts.DetectShebang && looksLikePHP(path)
}

// looksLikePHP reads the head of an extension-less file and asks langdetect.
func looksLikePHP(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, sniffBytes))
	if err != nil {
		return false
	}
	return langdetect.IsPHP(filepath.Base(path), head)
}
