package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/phpast/pkg/fsutil"
)

func TestReadSource(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "index.php")
		if err := os.WriteFile(path, []byte("<?php echo 1;"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		got, err := fsutil.ReadSource(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadSource() error = %v", err)
		}
		if string(got) != "<?php echo 1;" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.ReadSource(context.Background(), filepath.Join(t.TempDir(), "gone.php"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.ReadSource(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("expected ErrIsDirectory, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fsutil.ReadSource(ctx, "irrelevant.php")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".phpast.yml")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("jobs: 2\n"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(got) != "jobs: 2\n" {
			t.Errorf("content = %q", got)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %v, want %v", info.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("original"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0600); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the target file, got %d entries", len(entries))
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "no", "such", "dir", "x.yml")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err == nil {
			t.Fatal("expected error for missing directory")
		}
	})
}

func TestBackup(t *testing.T) {
	t.Parallel()

	t.Run("copies existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".phpast.yml")
		if err := os.WriteFile(path, []byte("jobs: 4\n"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		backupPath, err := fsutil.Backup(context.Background(), path)
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if backupPath != fsutil.BackupPath(path) {
			t.Errorf("backup path = %q, want %q", backupPath, fsutil.BackupPath(path))
		}

		got, err := os.ReadFile(backupPath)
		if err != nil {
			t.Fatalf("read backup: %v", err)
		}
		if string(got) != "jobs: 4\n" {
			t.Errorf("backup content = %q", got)
		}
	})

	t.Run("replaces older backup", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".phpast.yml")
		if err := os.WriteFile(fsutil.BackupPath(path), []byte("stale"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(path, []byte("fresh"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		if _, err := fsutil.Backup(context.Background(), path); err != nil {
			t.Fatalf("Backup() error = %v", err)
		}

		got, err := os.ReadFile(fsutil.BackupPath(path))
		if err != nil {
			t.Fatalf("read backup: %v", err)
		}
		if string(got) != "fresh" {
			t.Errorf("backup content = %q, want %q", got, "fresh")
		}
	})

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()

		backupPath, err := fsutil.Backup(context.Background(), filepath.Join(t.TempDir(), "gone.yml"))
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if backupPath != "" {
			t.Errorf("expected no backup, got %q", backupPath)
		}
	})
}
