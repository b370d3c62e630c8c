// Handles template loading and page writing
package renderer

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"
)

//go:embed templates/*.html
var embedded embed.FS

const layoutTemplate = "layout.html"

// Page templates. Each one defines "content" and is executed through the
// layout.
const (
	TemplateHome         = "home.html"
	TemplateBlog         = "blog.html"
	TemplatePost         = "post.html"
	TemplateNews         = "news.html"
	TemplateProjects     = "projects.html"
	TemplateBooks        = "books.html"
	TemplatePublications = "publications.html"
	TemplateCV           = "cv.html"
	TemplateRepositories = "repositories.html"
	TemplateProfiles     = "profiles.html"
	TemplatePage         = "page.html"
	TemplateNotFound     = "404.html"
)

var pageTemplates = []string{
	TemplateHome, TemplateBlog, TemplatePost, TemplateNews, TemplateProjects,
	TemplateBooks, TemplatePublications, TemplateCV, TemplateRepositories,
	TemplateProfiles, TemplatePage, TemplateNotFound,
}

type Options struct {
	DestFs      afero.Fs
	SourceFs    afero.Fs // where TemplateDir lives
	TemplateDir string   // optional overrides, same file names as the embedded set
	Compress    bool
	WebP        bool // point local jpg/png images at their converted .webp
	Logger      *slog.Logger
	OnWrite     func(path string)
}

type Renderer struct {
	DestFs   afero.Fs
	Compress bool
	WebP     bool

	templates map[string]*template.Template
	assets    map[string]string
	mu        sync.RWMutex
	written   atomic.Int64
	onWrite   func(string)
	logger    *slog.Logger
}

// New parses every page template together with the layout. Files found in
// opts.TemplateDir replace their embedded counterparts.
func New(opts Options) (*Renderer, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	overrides := overrideFS(opts)

	r := &Renderer{
		DestFs:    opts.DestFs,
		Compress:  opts.Compress,
		WebP:      opts.WebP,
		templates: make(map[string]*template.Template, len(pageTemplates)),
		onWrite:   opts.OnWrite,
		logger:    opts.Logger,
	}

	layout, err := readTemplate(overrides, layoutTemplate, opts.Logger)
	if err != nil {
		return nil, err
	}
	for _, name := range pageTemplates {
		page, err := readTemplate(overrides, name, opts.Logger)
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(layoutTemplate).Funcs(funcMap()).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", layoutTemplate, err)
		}
		if _, err := tmpl.New(name).Parse(page); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func overrideFS(opts Options) fs.FS {
	if opts.SourceFs == nil || opts.TemplateDir == "" {
		return nil
	}
	if ok, _ := afero.DirExists(opts.SourceFs, opts.TemplateDir); !ok {
		return nil
	}
	return afero.NewIOFS(afero.NewBasePathFs(opts.SourceFs, opts.TemplateDir))
}

func readTemplate(overrides fs.FS, name string, logger *slog.Logger) (string, error) {
	if overrides != nil {
		data, err := fs.ReadFile(overrides, name)
		if err == nil {
			logger.Debug("Using template override", "template", name)
			return string(data), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to read template %s: %w", name, err)
		}
	}
	data, err := embedded.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", name, err)
	}
	return string(data), nil
}

// SetAssets installs the source-to-output URL map built by esbuild.
func (r *Renderer) SetAssets(assets map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = assets
}

func (r *Renderer) GetAssets() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.assets
}

// Written returns the number of files registered so far, pages and assets.
func (r *Renderer) Written() int64 {
	return r.written.Load()
}

func (r *Renderer) RegisterFile(path string) {
	r.written.Add(1)
	if r.onWrite != nil {
		r.onWrite(path)
	}
}
