package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// CreateTestFilesystem creates source and destination filesystems for testing
func CreateTestFilesystem() (afero.Fs, afero.Fs) {
	return afero.NewMemMapFs(), afero.NewMemMapFs()
}

// CreateTestFilesystemWithContent creates filesystems with initial content
func CreateTestFilesystemWithContent(files map[string]string) (afero.Fs, afero.Fs) {
	sourceFs, destFs := CreateTestFilesystem()
	for path, content := range files {
		dir := filepath.Dir(path)
		if err := sourceFs.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
		if err := afero.WriteFile(sourceFs, path, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	return sourceFs, destFs
}

// AssertFileExists checks if a file exists in the filesystem
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if !exists {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if exists {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks that a file contains every given fragment
func AssertFileContains(t *testing.T, fs afero.Fs, path string, fragments ...string) {
	t.Helper()
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	for _, f := range fragments {
		if !strings.Contains(string(content), f) {
			t.Errorf("File %s should contain %q\ngot: %s", path, f, content)
		}
	}
}

// WriteKaTeXStub writes a minimal katex script to a temp dir and returns
// its path. The stub wraps its input in a katex span and throws on "\bad".
func WriteKaTeXStub(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "katex.min.js")
	if err := os.WriteFile(path, []byte(KaTeXStub), 0644); err != nil {
		t.Fatalf("Failed to write katex stub: %v", err)
	}
	return path
}

// KaTeXStub is a stand-in for katex.min.js.
const KaTeXStub = `var katex = {
  renderToString: function (tex, opts) {
    if (tex.indexOf("\\bad") !== -1) {
      throw new Error("ParseError: Undefined control sequence: \\bad");
    }
    var tag = opts && opts.displayMode ? "katex-display" : "katex";
    return '<span class="' + tag + '">' + tex.replace(/</g, "&lt;") + "</span>";
  }
};`
