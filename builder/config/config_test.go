package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kush-Singh-26/folio/builder/utils"
)

// changeToTempDir changes to a temp directory and returns a cleanup function
func changeToTempDir(t *testing.T) func() {
	t.Helper()
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	return func() {
		if err := os.Chdir(originalDir); err != nil {
			t.Errorf("Failed to restore original directory: %v", err)
		}
	}
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(DefaultConfigFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test folio.yaml: %v", err)
	}
}

func mustLoad(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg, err := Load(args)
	if err != nil {
		t.Fatalf("Load(%v) failed: %v", args, err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	cfg := mustLoad(t)

	if filepath.Base(cfg.ContentDir) != "content" {
		t.Errorf("ContentDir = %q, want .../content", cfg.ContentDir)
	}
	if filepath.Base(cfg.OutputDir) != "public" {
		t.Errorf("OutputDir = %q, want .../public", cfg.OutputDir)
	}
	if filepath.Base(cfg.Bibliography) != "papers.bib" {
		t.Errorf("Bibliography = %q", cfg.Bibliography)
	}
	if cfg.KatexPath != "" {
		t.Errorf("KatexPath = %q, want empty", cfg.KatexPath)
	}
	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if !cfg.Minify {
		t.Error("Minify should be enabled by default")
	}
	if cfg.CompressImages {
		t.Error("CompressImages should be disabled by default")
	}
	if cfg.Workers != utils.GetDefaultWorkerCount() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, utils.GetDefaultWorkerCount())
	}
	if cfg.ImageWorkers != 24 {
		t.Errorf("ImageWorkers = %d, want 24", cfg.ImageWorkers)
	}
	if cfg.Port != 2604 {
		t.Errorf("Port = %d, want 2604", cfg.Port)
	}
	if cfg.DebounceDuration != 500*time.Millisecond {
		t.Errorf("DebounceDuration = %v", cfg.DebounceDuration)
	}
	if cfg.ConfigPath != DefaultConfigFile {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	writeConfig(t, `
contentDir: site/content
outputDir: dist
katexPath: vendor/katex.min.js
workers: 3
compressImages: true
minify: false
debounceDuration: 250ms
shutdownTimeout: 10s
`)

	cfg := mustLoad(t)

	if !filepath.IsAbs(cfg.ContentDir) || filepath.Base(cfg.ContentDir) != "content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if filepath.Base(cfg.OutputDir) != "dist" {
		t.Errorf("OutputDir = %q, want .../dist", cfg.OutputDir)
	}
	if filepath.Base(cfg.KatexPath) != "katex.min.js" || !filepath.IsAbs(cfg.KatexPath) {
		t.Errorf("KatexPath = %q", cfg.KatexPath)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if !cfg.CompressImages {
		t.Error("CompressImages should be true")
	}
	if cfg.Minify {
		t.Error("Minify should be false")
	}
	if cfg.DebounceDuration != 250*time.Millisecond {
		t.Errorf("DebounceDuration = %v, want 250ms", cfg.DebounceDuration)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	writeConfig(t, "invalid: yaml: content: [")

	if _, err := Load(nil); err == nil {
		t.Error("expected error for malformed folio.yaml")
	}
}

func TestLoad_UnknownFlag(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	if _, err := Load([]string{"-drafts"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	writeConfig(t, `
outputDir: dist
compressImages: true
`)

	cfg := mustLoad(t, "-baseurl", "https://override.example.com/", "-output", "out", "-verbose", "-no-cache", "-katex", "k.js")

	if cfg.BaseURL != "https://override.example.com" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "https://override.example.com")
	}
	if filepath.Base(cfg.OutputDir) != "out" {
		t.Errorf("OutputDir = %q, want .../out", cfg.OutputDir)
	}
	if !cfg.CompressImages {
		t.Error("file value should survive when -compress is not given")
	}
	if !cfg.Verbose || !cfg.NoCache {
		t.Errorf("Verbose = %v, NoCache = %v", cfg.Verbose, cfg.NoCache)
	}
	if filepath.Base(cfg.KatexPath) != "k.js" {
		t.Errorf("KatexPath = %q", cfg.KatexPath)
	}

	cfg = mustLoad(t, "-compress=false")
	if cfg.CompressImages {
		t.Error("-compress=false should override the file")
	}
}

func TestLoad_ConfigFlag(t *testing.T) {
	cleanup := changeToTempDir(t)
	defer cleanup()

	if err := os.WriteFile("alt.yaml", []byte("outputDir: alt-out\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := mustLoad(t, "-config", "alt.yaml")
	if filepath.Base(cfg.OutputDir) != "alt-out" {
		t.Errorf("OutputDir = %q, want .../alt-out", cfg.OutputDir)
	}
}

func TestLoad_WorkersValidation(t *testing.T) {
	tests := []struct {
		name     string
		workers  int
		expected int
	}{
		{"zero uses default", 0, 24},
		{"negative uses default", -1, 24},
		{"valid value", 16, 16},
		{"maximum cap", 50, utils.MaxWorkers},
		{"at maximum", utils.MaxWorkers, utils.MaxWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := changeToTempDir(t)
			defer cleanup()

			yamlContent := ""
			if tt.workers != 0 {
				yamlContent = fmt.Sprintf("imageWorkers: %d", tt.workers)
			}
			writeConfig(t, yamlContent)

			cfg := mustLoad(t)

			if cfg.ImageWorkers != tt.expected {
				t.Errorf("ImageWorkers = %d, want %d", cfg.ImageWorkers, tt.expected)
			}
		})
	}
}

func TestValidate_Clamps(t *testing.T) {
	c := &BuildConfig{
		Port:             70000,
		DebounceDuration: time.Millisecond,
		ShutdownTimeout:  time.Hour,
		KatexVMs:         100,
	}
	c.validate()

	if c.Port != 2604 {
		t.Errorf("Port = %d, want 2604", c.Port)
	}
	if c.DebounceDuration != 10*time.Millisecond {
		t.Errorf("DebounceDuration = %v", c.DebounceDuration)
	}
	if c.ShutdownTimeout != 60*time.Second {
		t.Errorf("ShutdownTimeout = %v", c.ShutdownTimeout)
	}
	if c.KatexVMs != 16 {
		t.Errorf("KatexVMs = %d", c.KatexVMs)
	}
	if c.ContentDir != "content" || c.OutputDir != "public" {
		t.Errorf("empty directories not defaulted: %q %q", c.ContentDir, c.OutputDir)
	}
}

func TestSetDevMode(t *testing.T) {
	cfg := &Config{BuildConfig: BuildConfig{Minify: true}}

	SetDevMode(cfg, true)
	if !cfg.IsDev {
		t.Error("IsDev should be true")
	}
	if cfg.Minify {
		t.Error("dev mode should disable minify")
	}

	SetDevMode(cfg, false)
	if cfg.IsDev {
		t.Error("IsDev should be false")
	}
}
