// Package content loads the markdown collections, YAML site data and the
// bibliography that make up the site.
package content

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/parser"
)

// Collection directory names under the content root.
const (
	CollectionPosts    = "posts"
	CollectionNews     = "news"
	CollectionProjects = "projects"
	CollectionBooks    = "books"
	CollectionPages    = "pages"
)

// Renderer turns preprocessed markdown into HTML.
type Renderer interface {
	Render(src string) (string, error)
}

// Options locate the sources a Store reads.
type Options struct {
	ContentDir   string
	DataDir      string
	Bibliography string
	Workers      int
	Logger       *slog.Logger
}

// Store reads content on demand. Nothing is memoized between calls, so
// every result reflects the files at read time.
type Store struct {
	fs      afero.Fs
	md      Renderer
	root    string
	dataDir string
	bibPath string
	workers int
	logger  *slog.Logger
}

func NewStore(fs afero.Fs, md Renderer, opts Options) *Store {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		fs:      fs,
		md:      md,
		root:    opts.ContentDir,
		dataDir: opts.DataDir,
		bibPath: opts.Bibliography,
		workers: opts.Workers,
		logger:  opts.Logger,
	}
}

// RenderMarkdown runs the legacy preprocessor and the markdown renderer.
func (s *Store) RenderMarkdown(body string) (template.HTML, error) {
	out, err := s.md.Render(parser.Preprocess(body))
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

func (s *Store) loadRendered(collection, file string) (models.Entry, error) {
	e, err := LoadEntry(s.fs, s.root, collection, file)
	if err != nil {
		return models.Entry{}, err
	}
	e.HTML, err = s.RenderMarkdown(e.Body)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%s/%s: %w", collection, file, err)
	}
	return e, nil
}

// loadCollection loads and renders every entry of a collection
// concurrently. The first failure cancels the rest.
func (s *Store) loadCollection(ctx context.Context, collection string) ([]models.Entry, error) {
	files, err := ListEntries(s.fs, s.root, collection)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := s.loadRendered(collection, file)
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("Loaded collection", "collection", collection, "entries", len(entries))
	return entries, nil
}

func str(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

func firstStr(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := str(data, k); v != "" {
			return v
		}
	}
	return ""
}

func newPost(e models.Entry) models.Post {
	date := e.Date()
	if date == nil {
		date = dateFromSlug(e.Slug, 10)
	}

	permalink := str(e.Data, "redirect")
	redirect := permalink
	if permalink == "" {
		permalink = "/blog/" + StripDatePrefix(e.Slug)
	}

	title := str(e.Data, "title")
	if title == "" {
		title = StripDatePrefix(e.Slug)
	}

	words, minutes := ReadingTime(e.Body)
	return models.Post{
		Entry:          e,
		Title:          title,
		Description:    str(e.Data, "description"),
		Tags:           NormalizeStringList(e.Data["tags"]),
		Categories:     NormalizeStringList(e.Data["categories"]),
		PublishedAt:    date,
		Year:           yearOf(date),
		Permalink:      permalink,
		Redirect:       redirect,
		WordCount:      words,
		ReadingMinutes: minutes,
	}
}

// GetPosts returns every post, newest first. Undated posts sort last.
func (s *Store) GetPosts(ctx context.Context) ([]models.Post, error) {
	entries, err := s.loadCollection(ctx, CollectionPosts)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, len(entries))
	for i, e := range entries {
		posts[i] = newPost(e)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return sortKey(posts[i].PublishedAt) > sortKey(posts[j].PublishedAt)
	})
	return posts, nil
}

// GetPostBySlug finds a post by its slug, with or without the date prefix.
// When no slug matches exactly, the first file whose slug ends with the
// argument wins. Nil without error when nothing matches.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := ListEntries(s.fs, s.root, CollectionPosts)
	if err != nil {
		return nil, err
	}

	match := ""
	for _, f := range files {
		base := BuildSlug(f)
		if base == slug || StripDatePrefix(base) == slug {
			match = f
			break
		}
	}
	if match == "" {
		for _, f := range files {
			if strings.HasSuffix(BuildSlug(f), slug) {
				match = f
				break
			}
		}
	}
	if match == "" {
		return nil, nil
	}

	e, err := s.loadRendered(CollectionPosts, match)
	if err != nil {
		return nil, err
	}
	post := newPost(e)
	return &post, nil
}

// GetNews returns news items newest first. A positive limit truncates.
func (s *Store) GetNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	entries, err := s.loadCollection(ctx, CollectionNews)
	if err != nil {
		return nil, err
	}
	items := make([]models.NewsItem, len(entries))
	for i, e := range entries {
		date := e.Date()
		if date == nil {
			date = dateFromSlug(e.Slug, 10)
		}
		items[i] = models.NewsItem{
			Entry:       e,
			Title:       str(e.Data, "title"),
			PublishedAt: date,
			Year:        yearOf(date),
			Inline:      cast.ToBool(e.Data["inline"]),
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return sortKey(items[i].PublishedAt) > sortKey(items[j].PublishedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GetProjects returns projects by ascending importance.
func (s *Store) GetProjects(ctx context.Context) ([]models.Project, error) {
	entries, err := s.loadCollection(ctx, CollectionProjects)
	if err != nil {
		return nil, err
	}
	projects := make([]models.Project, len(entries))
	for i, e := range entries {
		projects[i] = models.Project{
			Entry:       e,
			Title:       str(e.Data, "title"),
			Description: str(e.Data, "description"),
			Importance:  cast.ToFloat64(e.Data["importance"]),
			Category:    str(e.Data, "category"),
			Image:       firstStr(e.Data, "img", "image"),
			Redirect:    firstStr(e.Data, "redirect", "link"),
			GitHub:      firstStr(e.Data, "github", "repo"),
		}
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Importance < projects[j].Importance
	})
	return projects, nil
}

// GetBooks returns books newest first. Undated books take the year from
// the first four characters of their slug.
func (s *Store) GetBooks(ctx context.Context) ([]models.Book, error) {
	entries, err := s.loadCollection(ctx, CollectionBooks)
	if err != nil {
		return nil, err
	}
	books := make([]models.Book, len(entries))
	for i, e := range entries {
		date := e.Date()
		if date == nil {
			date = dateFromSlug(e.Slug, 4)
		}
		books[i] = models.Book{
			Entry:       e,
			Title:       str(e.Data, "title"),
			Author:      str(e.Data, "author"),
			Description: str(e.Data, "description"),
			Category:    str(e.Data, "category"),
			Cover:       str(e.Data, "cover"),
			Link:        str(e.Data, "link"),
			Rating:      cast.ToFloat64(e.Data["rating"]),
			Status:      str(e.Data, "status"),
			PublishedAt: date,
			Year:        yearOf(date),
		}
	}
	sort.SliceStable(books, func(i, j int) bool {
		return sortKey(books[i].PublishedAt) > sortKey(books[j].PublishedAt)
	})
	return books, nil
}

func newPage(e models.Entry) models.Page {
	return models.Page{
		Entry:       e,
		Title:       str(e.Data, "title"),
		Description: str(e.Data, "description"),
	}
}

// GetPages returns every page in file name order.
func (s *Store) GetPages(ctx context.Context) ([]models.Page, error) {
	entries, err := s.loadCollection(ctx, CollectionPages)
	if err != nil {
		return nil, err
	}
	pages := make([]models.Page, len(entries))
	for i, e := range entries {
		pages[i] = newPage(e)
	}
	return pages, nil
}

func (s *Store) findPage(match func(file string) bool) (*models.Page, error) {
	files, err := ListEntries(s.fs, s.root, CollectionPages)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !match(f) {
			continue
		}
		e, err := s.loadRendered(CollectionPages, f)
		if err != nil {
			return nil, err
		}
		page := newPage(e)
		return &page, nil
	}
	return nil, nil
}

// GetAboutPage returns the page with slug "about", falling back to any
// file named about.*.
func (s *Store) GetAboutPage(ctx context.Context) (*models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := s.findPage(func(f string) bool { return BuildSlug(f) == "about" })
	if page != nil || err != nil {
		return page, err
	}
	return s.findPage(func(f string) bool { return strings.HasPrefix(f, "about.") })
}

func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.findPage(func(f string) bool { return BuildSlug(f) == slug })
}

// GetSupplementaryPageContent renders a page addressed by file name or
// slug. Empty when the page does not exist.
func (s *Store) GetSupplementaryPageContent(ctx context.Context, name string) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	page, err := s.findPage(func(f string) bool { return f == name || BuildSlug(f) == name })
	if err != nil || page == nil {
		return "", err
	}
	return page.HTML, nil
}
