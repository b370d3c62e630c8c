package utils

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

func TestIsConvertibleImage(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":  true,
		"a.JPEG": true,
		"a.png":  true,
		"a.webp": false,
		"a.svg":  false,
		"noext":  false,
	}
	for in, want := range tests {
		if got := IsConvertibleImage(in); got != want {
			t.Errorf("IsConvertibleImage(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCopyStatic(t *testing.T) {
	src := afero.NewMemMapFs()
	files := map[string]string{
		"static/img/photo.png":   "not really a png",
		"static/docs/cv.pdf":     "pdf",
		"static/css/main.css":    "body{}",
		"static/fonts/sans.woff": "font",
	}
	for p, c := range files {
		if err := afero.WriteFile(src, filepath.FromSlash(p), []byte(c), 0644); err != nil {
			t.Fatal(err)
		}
	}

	dest := afero.NewMemMapFs()
	var mu sync.Mutex
	var written []string
	n, err := CopyStatic(context.Background(), src, dest, "static", filepath.Join("public", "static"), CopyOptions{
		SkipExts: []string{".css"},
		Workers:  2,
		OnWrite: func(p string) {
			mu.Lock()
			written = append(written, filepath.ToSlash(p))
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("CopyStatic() failed: %v", err)
	}
	if n != 3 {
		t.Errorf("copied %d files, want 3", n)
	}

	sort.Strings(written)
	want := []string{"public/static/docs/cv.pdf", "public/static/fonts/sans.woff", "public/static/img/photo.png"}
	if len(written) != len(want) {
		t.Fatalf("OnWrite saw %v, want %v", written, want)
	}
	for i := range want {
		if written[i] != want[i] {
			t.Errorf("OnWrite[%d] = %q, want %q", i, written[i], want[i])
		}
	}
	if ok, _ := afero.Exists(dest, filepath.Join("public", "static", "css", "main.css")); ok {
		t.Error("skipped extension was copied")
	}
}

func TestCopyStatic_ConversionFallsBack(t *testing.T) {
	src := afero.NewMemMapFs()
	_ = afero.WriteFile(src, filepath.Join("static", "broken.jpg"), []byte("garbage"), 0644)

	dest := afero.NewMemMapFs()
	n, err := CopyStatic(context.Background(), src, dest, "static", "out", CopyOptions{CompressImages: true})
	if err != nil {
		t.Fatalf("CopyStatic() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("copied %d, want 1", n)
	}
	data, err := afero.ReadFile(dest, filepath.Join("out", "broken.jpg"))
	if err != nil || string(data) != "garbage" {
		t.Errorf("original not copied: %q, %v", data, err)
	}
	if ok, _ := afero.Exists(dest, filepath.Join("out", "broken.webp")); ok {
		t.Error("webp written for undecodable image")
	}
}

func TestCopyStatic_MissingDir(t *testing.T) {
	n, err := CopyStatic(context.Background(), afero.NewMemMapFs(), afero.NewMemMapFs(), "static", "out", CopyOptions{})
	if err != nil || n != 0 {
		t.Errorf("CopyStatic() = %d, %v; want 0, nil", n, err)
	}
}
