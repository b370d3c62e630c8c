package models

import (
	"encoding/xml"
	"html/template"
)

// HomeData carries the extra blocks of the landing page.
type HomeData struct {
	Subtitle       string
	ProfileImage   string
	ImageCircular  bool
	ProfileAlign   string
	MoreInfo       template.HTML
	Research       ResearchSection
	ShowNews       bool
	ScrollableNews bool
}

// PageData is the context passed to HTML templates.
type PageData struct {
	Title        string
	Description  string
	Eyebrow      string
	Path         string
	BaseURL      string
	Site         SiteConfig
	FullName     string
	Socials      []SiteSocial
	Navigation   []NavItem
	Assets       map[string]string
	BuildVersion int64
	Year         int
	Content      template.HTML
	IsDev        bool // injects the live-reload client
	ClientMath   bool // math markers are left for KaTeX in the browser

	Home         *HomeData
	Page         *Page
	Post         *Post
	Posts        []Post
	News         []NewsItem
	Projects     []Project
	Books        []Book
	Publications []PublicationGroup
	Coauthors    []Coauthor
	Selected     []Publication
	Cv           *CvData
	Repositories *RepositoriesConfig
	Profiles     []ProfileCard
}

// --- Sitemap Structures ---

type UrlSet struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// --- RSS Structures ---

type Rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Language    string `xml:"language,omitempty"`
	Items       []Item `xml:"item"`
}

type Item struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Guid        string   `xml:"guid"`
	Categories  []string `xml:"category,omitempty"`
}
