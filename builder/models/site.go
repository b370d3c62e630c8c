package models

import "html/template"

// NavItem is a single header navigation link.
type NavItem struct {
	Label    string `yaml:"label"`
	Href     string `yaml:"href"`
	External bool   `yaml:"external"`
}

// DefaultNavigation is used when config.yml declares no navigation.
func DefaultNavigation() []NavItem {
	return []NavItem{
		{Label: "About", Href: "/"},
		{Label: "Publications", Href: "/publications"},
		{Label: "People", Href: "/people"},
		{Label: "Projects", Href: "/projects"},
		{Label: "Join", Href: "/join"},
	}
}

type SiteConfig struct {
	Title             string
	FirstName         string
	MiddleName        string
	LastName          string
	Description       string
	Keywords          []string
	FooterText        string
	Icon              string
	Lang              string
	URL               string
	BaseURL           string
	BlogName          string
	BlogDescription   string
	EnableMath        bool
	DisplayTags       []string
	DisplayCategories []string
	Navigation        []NavItem
}

type SiteSocial struct {
	ID    string
	Label string
	URL   string
	Icon  string
}

type CvLink struct {
	Label string
	URL   string
}

type CvItem struct {
	Title       string
	Subtitle    string
	Period      string
	Description string
	Items       []CvItem
	Links       []CvLink
}

type CvSection struct {
	ID    string
	Title string
	Items []CvItem
}

type CvData struct {
	Basics   map[string]any
	Sections []CvSection
}

type RepositoriesConfig struct {
	GitHubUsers             []string
	GitHubRepos             []string
	RepoDescriptionLinesMax int
}

// ResearchItem is one card of the home page research section.
type ResearchItem struct {
	Title       string
	Description string
}

type ResearchSection struct {
	Title string
	Items []ResearchItem
}

// ProfileCard is one block of the profiles page.
// Coauthor is one record of data/coauthors.yml.
type Coauthor struct {
	Name string
	URL  string
}

type ProfileCard struct {
	Align         string
	Image         string
	ImageCircular bool
	MoreInfo      template.HTML
	HTML          template.HTML
}
