package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SafeRel returns target relative to base with forward slashes. Results
// escaping base are rejected.
func SafeRel(base, target string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %s escapes %s", target, base)
	}
	return filepath.ToSlash(rel), nil
}

// OutputPath maps a site URL path to the file that serves it, e.g.
// "/blog/post/" -> "<root>/blog/post/index.html".
func OutputPath(root, urlPath string) string {
	clean := strings.Trim(urlPath, "/")
	if clean == "" {
		return filepath.Join(root, "index.html")
	}
	if filepath.Ext(clean) != "" {
		return filepath.Join(root, filepath.FromSlash(clean))
	}
	return filepath.Join(root, filepath.FromSlash(clean), "index.html")
}

func WriteFileVFS(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write VFS file %s: %w", path, err)
	}
	return nil
}
