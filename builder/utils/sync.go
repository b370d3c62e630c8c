package utils

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SyncVFS writes every file under dir on the in-memory fs to the same
// path on disk. Files whose disk content is already identical are skipped.
// It returns the number of files written.
func SyncVFS(ctx context.Context, memFs afero.Fs, dir string, workers int) (int, error) {
	dir = filepath.Clean(dir)

	var files []string
	err := afero.Walk(memFs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return os.MkdirAll(path, 0755)
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan VFS: %w", err)
	}

	written := make(chan struct{}, len(files))
	pool := NewWorkerPool(ctx, workers, func(_ context.Context, path string) error {
		changed, err := syncSingleFile(memFs, path)
		if err != nil {
			return err
		}
		if changed {
			written <- struct{}{}
		}
		return nil
	})
	pool.Start()
	for _, f := range files {
		pool.Submit(f)
	}
	if err := pool.Stop(); err != nil {
		return 0, err
	}
	return len(written), nil
}

func syncSingleFile(memFs afero.Fs, path string) (bool, error) {
	content, err := afero.ReadFile(memFs, path)
	if err != nil {
		return false, err
	}
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(content, existing) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// PruneVFS removes files under dir on disk that are absent from the
// in-memory fs, then any directory left empty. Hidden entries such as .git
// are kept. It returns the number of files removed.
func PruneVFS(memFs afero.Fs, dir string) (int, error) {
	dir = filepath.Clean(dir)
	if ok, err := afero.DirExists(memFs, dir); err != nil || !ok {
		return 0, err
	}

	removed := 0
	var dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == dir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if ok, err := afero.Exists(memFs, path); err != nil || ok {
			return err
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to prune %s: %w", dir, err)
	}

	// walk order is parent first, so reversed it empties children first
	for i := len(dirs) - 1; i >= 0; i-- {
		if ok, _ := afero.DirExists(memFs, dirs[i]); ok {
			continue
		}
		entries, err := os.ReadDir(dirs[i])
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dirs[i]); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", dirs[i], err)
		}
	}
	return removed, nil
}
