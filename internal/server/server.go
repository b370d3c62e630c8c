package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/run"
	"github.com/Kush-Singh-26/folio/internal/watch"
)

// Server serves the built site and pushes reload events to open pages.
type Server struct {
	dir    string
	logger *slog.Logger

	clientMu sync.Mutex
	clients  map[chan struct{}]struct{}
}

// New creates a server for the output directory dir.
func New(dir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		dir:     dir,
		logger:  logger,
		clients: make(map[chan struct{}]struct{}),
	}
}

// Handler returns the routes: /events for SSE, everything else from dir.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleSSE)
	mux.HandleFunc("/", gzipHandler(s.handleFile))
	return mux
}

// gzipResponseWriter wraps the underlying ResponseWriter to enable Gzip compression
type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func gzipHandler(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		gz := gzip.NewWriter(w)
		defer func() { _ = gz.Close() }()
		next(&gzipResponseWriter{Writer: gz, ResponseWriter: w}, r)
	}
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	normalizedPath := normalizeRequestPath(r.URL.Path)

	fullPath, err := validatePath(s.dir, normalizedPath)
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("403 - Forbidden: Invalid path"))
		return
	}

	fileInfo, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.notFound(w)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("500 - Internal Server Error"))
		}
		return
	}
	if fileInfo.IsDir() {
		if _, err := os.Stat(filepath.Join(fullPath, "index.html")); err != nil {
			s.notFound(w)
			return
		}
	}

	filename := filepath.Base(normalizedPath)
	if isHashedAsset(filename) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else if fileInfo.IsDir() || strings.HasSuffix(filename, ".html") {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=60")
	}

	http.FileServer(http.Dir(s.dir)).ServeHTTP(w, r)
}

func (s *Server) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if content, err := os.ReadFile(filepath.Join(s.dir, "404.html")); err == nil {
		_, _ = w.Write(content)
		return
	}
	_, _ = w.Write([]byte("404 - Page Not Found"))
}

// Run builds the site in dev mode, serves it and rebuilds on changes to
// the sources. It returns once ctx is cancelled and the server has shut
// down.
func Run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	config.SetDevMode(cfg, true)
	logger := run.NewLogger(cfg.Verbose)

	b, err := run.NewBuilder(cfg, run.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer b.Close()

	m, err := b.Build(ctx)
	if err != nil {
		return err
	}
	m.Print()

	srv := New(cfg.OutputDir, logger)

	var buildMu sync.Mutex
	w, err := watch.New(watchDirs(cfg), cfg.DebounceDuration, func(ev watch.Event) {
		buildMu.Lock()
		defer buildMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		fmt.Printf("⚡ Change detected in %s, rebuilding...\n", ev.Name)
		m, err := b.Build(ctx)
		if err != nil {
			fmt.Printf("❌ Build failed: %v\n", err)
			return
		}
		m.Print()
		srv.Reload()
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(); err != nil {
		logger.Warn("Failed to watch sources", "error", err)
	}
	go w.Start(ctx)
	fmt.Println("👀 Watch mode active. Waiting for changes...")

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	// Shutdown handler - watches for context cancellation
	go func() {
		<-ctx.Done()
		fmt.Println("\n🛑 Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		srv.closeClients()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
	}()

	fmt.Printf("🌐 Serving on http://%s\n", addr)
	if cfg.Host == "0.0.0.0" {
		fmt.Println("   (Accessible on your local network)")
	}
	fmt.Println("   (Auto-reload enabled via /events)")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	buildMu.Lock()
	defer buildMu.Unlock()
	fmt.Println("✅ Server stopped.")
	return nil
}

// watchDirs lists the source directories to watch. The bibliography's
// directory is skipped when it also holds the output, which would make
// every build trigger another.
func watchDirs(cfg *config.Config) []string {
	dirs := []string{cfg.ContentDir, cfg.DataDir, cfg.StaticDir, cfg.TemplateDir}
	bibDir := filepath.Dir(cfg.Bibliography)
	if rel, err := filepath.Rel(bibDir, cfg.OutputDir); err != nil || strings.HasPrefix(rel, "..") {
		dirs = append(dirs, bibDir)
	}
	return dirs
}

// isHashedAsset checks if filename contains a content hash (e.g., main.A1B2C3D4.css)
func isHashedAsset(filename string) bool {
	parts := strings.Split(filename, ".")
	if len(parts) < 3 {
		return false
	}
	hashPart := parts[len(parts)-2]
	if len(hashPart) < 8 || len(hashPart) > 12 {
		return false
	}
	for _, c := range hashPart {
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
