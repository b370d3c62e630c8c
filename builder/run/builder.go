package run

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/content"
	mdParser "github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/renderer/native"
)

// Options override the filesystems a Builder works on.
type Options struct {
	// SourceFs holds content, data, static files and templates. Defaults
	// to the OS filesystem.
	SourceFs afero.Fs
	// DestFs receives the output. When nil each build renders into a fresh
	// in-memory fs that is synced to disk afterwards.
	DestFs afero.Fs
	Logger *slog.Logger
}

// Builder maintains the state shared between site builds
type Builder struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *cache.Manager   // nil with -no-cache
	native *native.Renderer // nil when no KaTeX script is configured
	md     *mdParser.Markdown
	store  *content.Store

	SourceFs afero.Fs
	DestFs   afero.Fs
	sync     bool
}

// NewBuilder wires the cache, math renderer, markdown parser and content
// store for cfg. A cache that cannot be opened is reported and skipped.
func NewBuilder(cfg *config.Config, opts Options) (*Builder, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SourceFs == nil {
		opts.SourceFs = afero.NewOsFs()
	}

	b := &Builder{
		cfg:      cfg,
		logger:   opts.Logger,
		SourceFs: opts.SourceFs,
		DestFs:   opts.DestFs,
		sync:     opts.DestFs == nil,
	}
	if b.DestFs == nil {
		b.DestFs = afero.NewMemMapFs()
	}

	if !cfg.NoCache {
		m, err := cache.Open(cfg.CacheDir, cfg.IsDev)
		if err != nil {
			fmt.Printf("Warning: Failed to open math cache: %v\n", err)
		} else {
			b.cache = m
		}
	}

	if cfg.KatexPath != "" {
		r, err := native.New(b.SourceFs, cfg.KatexPath, cfg.KatexVMs, b.logger)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to load KaTeX: %w", err)
		}
		b.native = r
	} else {
		b.logger.Warn("no KaTeX script configured, math is left for the browser and TeX errors will not fail the build")
	}

	mdOpts := []mdParser.Option{mdParser.WithLogger(b.logger)}
	if b.native != nil {
		mdOpts = append(mdOpts, mdParser.WithMath(b.native))
	}
	if b.cache != nil {
		mdOpts = append(mdOpts, mdParser.WithMathCache(b.cache))
	}
	b.md = mdParser.New(mdOpts...)

	b.store = content.NewStore(b.SourceFs, b.md, content.Options{
		ContentDir:   cfg.ContentDir,
		DataDir:      cfg.DataDir,
		Bibliography: cfg.Bibliography,
		Workers:      cfg.Workers,
		Logger:       b.logger,
	})
	return b, nil
}

// Config returns the builder's configuration
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// Store returns the content store backing every build.
func (b *Builder) Store() *content.Store {
	return b.store
}

// SetDevMode enables/disables development mode (affects minify and base URL)
func (b *Builder) SetDevMode(isDev bool) {
	config.SetDevMode(b.cfg, isDev)
}

// Close releases the math cache.
func (b *Builder) Close() {
	if b.cache == nil {
		return
	}
	if err := b.cache.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to close math cache: %v\n", err)
	}
	b.cache = nil
}
