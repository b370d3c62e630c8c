package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/folio/builder/utils"
)

// BuildConfig contains the tunable build parameters.
// These can be overridden via folio.yaml
type BuildConfig struct {
	// Directories, relative to the working directory unless absolute
	ContentDir   string `yaml:"contentDir"`   // markdown collections and config.yml (default: content)
	DataDir      string `yaml:"dataDir"`      // socials, cv, repositories, coauthors, venues (default: data)
	Bibliography string `yaml:"bibliography"` // BibTeX file (default: bibliography/papers.bib)
	StaticDir    string `yaml:"staticDir"`    // copied to <output>/static (default: static)
	TemplateDir  string `yaml:"templateDir"`  // optional template overrides (default: templates)
	OutputDir    string `yaml:"outputDir"`    // default: public
	CacheDir     string `yaml:"cacheDir"`     // math memo and webp cache (default: .folio-cache)

	// Server-side math; empty leaves math to the browser
	KatexPath string `yaml:"katexPath"`

	// Worker settings
	Workers      int `yaml:"workers"`      // collection and page rendering (default: NumCPU, max 12)
	ImageWorkers int `yaml:"imageWorkers"` // parallel image processing (default: 24)
	KatexVMs     int `yaml:"katexVMs"`     // goja VMs holding KaTeX (default: 4)

	CompressImages bool `yaml:"compressImages"`
	Minify         bool `yaml:"minify"` // default: true

	// Dev server
	Port             int           `yaml:"port"`             // default: 2604
	DebounceDuration time.Duration `yaml:"debounceDuration"` // file watcher debounce (default: 500ms)
	ShutdownTimeout  time.Duration `yaml:"shutdownTimeout"`  // server shutdown timeout (default: 5s)
}

// DefaultBuildConfig returns the default build configuration
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		ContentDir:   "content",
		DataDir:      "data",
		Bibliography: "bibliography/papers.bib",
		StaticDir:    "static",
		TemplateDir:  "templates",
		OutputDir:    "public",
		CacheDir:     ".folio-cache",

		Workers:      utils.GetDefaultWorkerCount(),
		ImageWorkers: 24,
		KatexVMs:     4,

		Minify: true,

		Port:             2604,
		DebounceDuration: 500 * time.Millisecond,
		ShutdownTimeout:  5 * time.Second,
	}
}

// LoadBuildConfig reads path over the defaults. A missing file yields the
// defaults; a malformed one is an error.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	cfg := DefaultBuildConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.validate()
	return cfg, nil
}

// validate ensures configuration values are within reasonable bounds
func (c *BuildConfig) validate() {
	def := DefaultBuildConfig()

	// Directories
	if c.ContentDir == "" {
		c.ContentDir = def.ContentDir
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}

	// Workers
	if c.Workers < 1 {
		c.Workers = def.Workers
	}
	if c.Workers > utils.MaxWorkers {
		c.Workers = utils.MaxWorkers
	}
	if c.ImageWorkers < 1 {
		c.ImageWorkers = def.ImageWorkers
	}
	if c.ImageWorkers > utils.MaxWorkers {
		c.ImageWorkers = utils.MaxWorkers
	}
	if c.KatexVMs < 1 {
		c.KatexVMs = 1
	}
	if c.KatexVMs > 16 {
		c.KatexVMs = 16
	}

	// Server
	if c.Port < 1 || c.Port > 65535 {
		c.Port = def.Port
	}
	if c.ShutdownTimeout < 1*time.Second {
		c.ShutdownTimeout = 1 * time.Second
	}
	if c.ShutdownTimeout > 60*time.Second {
		c.ShutdownTimeout = 60 * time.Second
	}
	if c.DebounceDuration < 10*time.Millisecond {
		c.DebounceDuration = 10 * time.Millisecond
	}
	if c.DebounceDuration > 5*time.Second {
		c.DebounceDuration = 5 * time.Second
	}
}
