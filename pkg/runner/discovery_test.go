package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/yaklabco/phpast/pkg/runner"
)

// writeTree creates files (relative to dir) with the given contents.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func abs(dir string, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out
}

func discover(t *testing.T, opts runner.Options) []string {
	t.Helper()

	files, err := runner.Discover(context.Background(), opts)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	return files
}

func assertFiles(t *testing.T, got, want []string) {
	t.Helper()

	if !slices.Equal(got, want) {
		t.Errorf("files mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.php": "<?php"})

	files := discover(t, runner.Options{
		Paths:      []string{filepath.Join(dir, "index.php")},
		WorkingDir: dir,
	})
	assertFiles(t, files, abs(dir, "index.php"))
}

func TestDiscover_ExplicitFileIgnoresExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"bin/console": "#!/usr/bin/env php\n<?php"})

	files := discover(t, runner.Options{Paths: []string{"bin/console"}, WorkingDir: dir})
	assertFiles(t, files, abs(dir, "bin/console"))
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.php":            "<?php",
		"src/App.php":          "<?php",
		"src/View.PHP":         "<?php",
		"templates/page.phtml": "<?php",
		"README.md":            "# readme",
		"composer.json":        "{}",
	})

	files := discover(t, runner.Options{Paths: []string{"."}, WorkingDir: dir})
	assertFiles(t, files, abs(dir, "index.php", "src/App.php", "src/View.PHP"))
}

func TestDiscover_DefaultsToCurrentDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.php": "<?php"})

	files := discover(t, runner.Options{WorkingDir: dir})
	assertFiles(t, files, abs(dir, "a.php"))
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.php":   "<?php",
		"b.phtml": "<?php",
		"c.inc":   "<?php",
	})

	files := discover(t, runner.Options{
		WorkingDir: dir,
		Extensions: []string{"phtml", ".INC"},
	})
	assertFiles(t, files, abs(dir, "b.phtml", "c.inc"))
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/App.php":            "<?php",
		"src/AppTest.php":        "<?php",
		"cache/compiled.php":     "<?php",
		"lib/cache/nested.php":   "<?php",
		"generated/deep/Gen.php": "<?php",
	})

	files := discover(t, runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"*Test.php", "**/cache", "generated/**"},
	})
	assertFiles(t, files, abs(dir, "src/App.php"))
}

func TestDiscover_PatternsOutsideWorkingDir(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"app.php":           "<?php",
		"generated/gen.php": "<?php",
		"vendor/lib.php":    "<?php",
	})

	got := discover(t, runner.Options{
		Paths:        []string{dir},
		WorkingDir:   workDir,
		ExcludeGlobs: []string{"generated/**"},
		SkipVendor:   true,
	})
	assertFiles(t, got, abs(dir, "app.php"))
}

func TestDiscover_IncludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/App.php":       "<?php",
		"src/sub/Deep.php":  "<?php",
		"tests/AppTest.php": "<?php",
	})

	files := discover(t, runner.Options{
		WorkingDir:   dir,
		IncludeGlobs: []string{"src/**"},
	})
	assertFiles(t, files, abs(dir, "src/App.php", "src/sub/Deep.php"))
}

func TestDiscover_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   t.TempDir(),
		ExcludeGlobs: []string{"[unclosed"},
	})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestDiscover_HiddenFilesAndDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"visible.php":      "<?php",
		".hidden.php":      "<?php",
		".git/hooks/x.php": "<?php",
	})

	files := discover(t, runner.Options{WorkingDir: dir})
	assertFiles(t, files, abs(dir, "visible.php"))
}

func TestDiscover_SkipVendor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/App.php":               "<?php",
		"vendor/acme/lib/Thing.php": "<?php",
	})

	files := discover(t, runner.Options{WorkingDir: dir, SkipVendor: true})
	assertFiles(t, files, abs(dir, "src/App.php"))

	files = discover(t, runner.Options{WorkingDir: dir})
	assertFiles(t, files, abs(dir, "src/App.php", "vendor/acme/lib/Thing.php"))
}

func TestDiscover_DetectShebang(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"bin/console": "#!/usr/bin/env php\n<?php\n",
		"bin/build":   "#!/bin/sh\necho hi\n",
		"bin/notes":   "nothing here\n",
		"app.php":     "<?php",
	})

	files := discover(t, runner.Options{WorkingDir: dir, DetectShebang: true})
	assertFiles(t, files, abs(dir, "app.php", "bin/console"))

	files = discover(t, runner.Options{WorkingDir: dir})
	assertFiles(t, files, abs(dir, "app.php"))
}

func TestDiscover_DeterministicOrderingAndDeduplication(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"z.php":   "<?php",
		"a.php":   "<?php",
		"m/b.php": "<?php",
	})

	files := discover(t, runner.Options{
		Paths:      []string{"z.php", ".", "m", "a.php"},
		WorkingDir: dir,
	})
	assertFiles(t, files, abs(dir, "a.php", "m/b.php", "z.php"))
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.php": "<?php"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Discover(ctx, runner.Options{WorkingDir: dir}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	dir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, dir, map[string]string{"a.php": "<?php"})
	writeTree(t, outside, map[string]string{"linked.php": "<?php"})

	if err := os.Symlink(outside, filepath.Join(dir, "shared")); err != nil {
		t.Fatalf("setup symlink: %v", err)
	}

	files := discover(t, runner.Options{WorkingDir: dir})
	assertFiles(t, files, abs(dir, "a.php"))

	files = discover(t, runner.Options{WorkingDir: dir, FollowSymlinks: true})
	realOutside, err := filepath.EvalSymlinks(outside)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	want := append(abs(dir, "a.php"), filepath.Join(realOutside, "linked.php"))
	slices.Sort(want)
	assertFiles(t, files, want)
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	if got := runner.DefaultExtensions(); !slices.Equal(got, []string{".php"}) {
		t.Errorf("DefaultExtensions() = %v", got)
	}
}
