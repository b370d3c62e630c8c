package server

import (
	"bufio"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/Kush-Singh-26/folio/builder/config"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":                   "<h1>home</h1>",
		"404.html":                     "<h1>missing</h1>",
		"blog/first/index.html":        "<h1>first</h1>",
		"static/css/main.QX4ZRT2M.css": "body{}",
		"static/img/logo.png":          "png",
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func get(t *testing.T, h http.Handler, path string, gzipped bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if gzipped {
		req.Header.Set("Accept-Encoding", "gzip")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ServesFiles(t *testing.T) {
	h := New(writeSite(t), nil).Handler()

	tests := []struct {
		name   string
		path   string
		status int
		body   string
		cache  string
	}{
		{"home", "/", http.StatusOK, "home", "no-store, no-cache, must-revalidate, proxy-revalidate"},
		{"post directory", "/blog/first/", http.StatusOK, "first", "no-store, no-cache, must-revalidate, proxy-revalidate"},
		{"hashed asset", "/static/css/main.QX4ZRT2M.css", http.StatusOK, "body{}", "public, max-age=31536000, immutable"},
		{"plain asset", "/static/img/logo.png", http.StatusOK, "png", "public, max-age=60"},
		{"missing page", "/nope/", http.StatusNotFound, "missing", ""},
		{"directory without index", "/empty/", http.StatusNotFound, "missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path, false)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.body)
			}
			if tt.cache != "" && rec.Header().Get("Cache-Control") != tt.cache {
				t.Errorf("Cache-Control = %q, want %q", rec.Header().Get("Cache-Control"), tt.cache)
			}
		})
	}
}

func TestHandler_Gzip(t *testing.T) {
	h := New(writeSite(t), nil).Handler()

	rec := get(t, h, "/blog/first/", true)
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() failed: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	if string(body) != "<h1>first</h1>" {
		t.Errorf("body = %q", body)
	}
}

func TestValidatePath(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"/", false},
		{"/blog/first/index.html", false},
		{"/../etc/passwd", false}, // cleaned to /etc/passwd under base
		{"../secret", true},
		{"..", true},
		{"a/../../b", true},
	}
	for _, tt := range tests {
		got, err := validatePath(base, tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err == nil && !strings.HasPrefix(got, base) {
			t.Errorf("validatePath(%q) = %q, escapes %q", tt.path, got, base)
		}
	}
}

func TestIsHashedAsset(t *testing.T) {
	tests := map[string]bool{
		"main.QX4ZRT2M.css":   true,
		"layout.a1b2c3d4.css": true,
		"main.css":            false,
		"jquery.min.js":       false,
		"main.a-b-c-d-e.js":   false,
	}
	for name, want := range tests {
		if got := isHashedAsset(name); got != want {
			t.Errorf("isHashedAsset(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSSE_Reload(t *testing.T) {
	srv := New(writeSite(t), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatalf("GET /events failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	lines := make(chan string, 10)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if line := sc.Text(); line != "" {
				lines <- line
			}
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l := <-lines:
			return l
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
			return ""
		}
	}

	if l := next(); l != "data: connected" {
		t.Fatalf("first event = %q", l)
	}
	if srv.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", srv.Clients())
	}
	srv.Reload()
	if l := next(); l != "data: reload" {
		t.Errorf("second event = %q, want reload", l)
	}

	srv.closeClients()
	select {
	case _, ok := <-lines:
		if ok {
			t.Error("stream should end after closeClients")
		}
	case <-time.After(5 * time.Second):
		t.Error("stream still open after closeClients")
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{BuildConfig: *config.DefaultBuildConfig()}
	cfg.ContentDir = filepath.Join(root, "content")
	cfg.DataDir = filepath.Join(root, "data")
	cfg.StaticDir = filepath.Join(root, "static")
	cfg.TemplateDir = filepath.Join(root, "templates")
	cfg.OutputDir = filepath.Join(root, "public")

	cfg.Bibliography = filepath.Join(root, "bibliography", "papers.bib")
	if dirs := watchDirs(cfg); len(dirs) != 5 || dirs[4] != filepath.Join(root, "bibliography") {
		t.Errorf("watchDirs() = %v, want the bibliography dir appended", dirs)
	}

	cfg.Bibliography = filepath.Join(root, "papers.bib")
	if dirs := watchDirs(cfg); len(dirs) != 4 {
		t.Errorf("watchDirs() = %v, root holding the output must not be watched", dirs)
	}
}
