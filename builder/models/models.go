// defines the data structures produced by the content pipeline
package models

import (
	"html/template"
	"time"
)

// Content is the capability shared by every collection record.
type Content interface {
	EntrySlug() string
	RawBody() string
	Rendered() template.HTML
}

// Entry is one markdown file split into frontmatter and body.
type Entry struct {
	Slug string
	File string
	Data map[string]any
	Body string
	HTML template.HTML
}

func (e Entry) EntrySlug() string       { return e.Slug }
func (e Entry) RawBody() string         { return e.Body }
func (e Entry) Rendered() template.HTML { return e.HTML }

// Date returns the parsed frontmatter date, if any.
func (e Entry) Date() *time.Time {
	if t, ok := e.Data["date"].(*time.Time); ok {
		return t
	}
	return nil
}

// Post is a blog entry with its derived fields.
type Post struct {
	Entry
	Title          string
	Description    string
	Tags           []string
	Categories     []string
	PublishedAt    *time.Time
	Year           string
	Permalink      string
	Redirect       string
	WordCount      int
	ReadingMinutes int
}

// External reports whether the post points at another site.
func (p Post) External() bool {
	return p.Redirect != ""
}

type NewsItem struct {
	Entry
	Title       string
	PublishedAt *time.Time
	Year        string
	Inline      bool
}

type Project struct {
	Entry
	Title       string
	Description string
	Importance  float64
	Category    string
	Image       string
	Redirect    string
	GitHub      string
}

type Book struct {
	Entry
	Title       string
	Author      string
	Description string
	Category    string
	Cover       string
	Link        string
	Rating      float64
	Status      string
	PublishedAt *time.Time
	Year        string
}

type Page struct {
	Entry
	Title       string
	Description string
}

// Publication is a normalized bibliography entry.
type Publication struct {
	ID       string
	Title    string
	Authors  string
	Year     string
	Type     string
	Venue    string
	VenueURL string // from data/venues.yml
	URL      string
	PDF      string
	HTML     string
	Selected bool
	Extra    map[string]string
}

// PublicationGroup holds the entries of one year, sorted by title.
type PublicationGroup struct {
	Year    string
	Entries []Publication
}
