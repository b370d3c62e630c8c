package utils

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestSafeRel(t *testing.T) {
	tests := []struct {
		base, target string
		want         string
		wantErr      bool
	}{
		{"static", "static/css/main.css", "css/main.css", false},
		{"/site/static", "/site/static/Img/A.PNG", "Img/A.PNG", false},
		{"static", "static", ".", false},
		{"static", "other/file.txt", "", true},
		{"/site/static", "/site", "", true},
	}
	for _, tt := range tests {
		got, err := SafeRel(tt.base, tt.target)
		if (err != nil) != tt.wantErr {
			t.Errorf("SafeRel(%q, %q) error = %v, wantErr %v", tt.base, tt.target, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("SafeRel(%q, %q) = %q, want %q", tt.base, tt.target, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"/":              "public/index.html",
		"":               "public/index.html",
		"/blog/":         "public/blog/index.html",
		"/blog/my-post":  "public/blog/my-post/index.html",
		"/blog/feed.xml": "public/blog/feed.xml",
		"/404.html":      "public/404.html",
	}
	for in, want := range tests {
		if got := OutputPath("public", in); got != filepath.FromSlash(want) {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteFileVFS_CreatesParents(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.Join("public", "a", "b", "index.html")
	if err := WriteFileVFS(fs, path, []byte("<p>hi</p>")); err != nil {
		t.Fatalf("WriteFileVFS() failed: %v", err)
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil || string(data) != "<p>hi</p>" {
		t.Errorf("read back %q, %v", data, err)
	}
}
