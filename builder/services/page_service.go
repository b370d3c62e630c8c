package services

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/renderer"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

const (
	defaultAnnouncements = 5
	selectedOnHome       = 5
)

// PageOptions tunes the data shared by every page.
type PageOptions struct {
	BaseURL      string // overrides the site's baseurl when set
	IsDev        bool
	ClientMath   bool
	BuildVersion int64
}

type pageServiceImpl struct {
	content ContentService
	opts    PageOptions
	logger  *slog.Logger
}

func NewPageService(cs ContentService, opts PageOptions, logger *slog.Logger) PageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &pageServiceImpl{content: cs, opts: opts, logger: logger}
}

// Collect loads the site and returns one route per published page.
// Pages whose slug names a dedicated section (publications, projects, ...)
// feed that section's title and intro instead of getting their own route,
// and pages embedded into profile cards are not published on their own.
func (s *pageServiceImpl) Collect(ctx context.Context) (*PageResult, error) {
	site, err := s.content.GetSiteConfig()
	if err != nil {
		return nil, err
	}
	socials, err := s.content.GetSocials()
	if err != nil {
		return nil, fmt.Errorf("socials: %w", err)
	}
	base := s.baseData(site, socials)

	posts, err := s.content.GetPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("posts: %w", err)
	}
	pages, err := s.content.GetPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	sections := make(map[string]*models.Page)
	for i := range pages {
		sections[pages[i].Slug] = &pages[i]
	}
	publications, err := s.content.GetPublications()
	if err != nil {
		return nil, fmt.Errorf("publications: %w", err)
	}
	venues, err := s.content.GetVenues()
	if err != nil {
		return nil, fmt.Errorf("venues: %w", err)
	}
	linkVenues(publications, venues)

	var routes []Route
	add := func(path, tmpl string, data models.PageData) {
		data.Path = path
		routes = append(routes, Route{Path: path, Template: tmpl, Data: data})
	}

	home, err := s.homeData(ctx, base, publications)
	if err != nil {
		return nil, err
	}
	add("/", renderer.TemplateHome, home)

	blog := base
	blog.Title = site.BlogName
	if blog.Title == "" {
		blog.Title = "Blog"
	}
	blog.Description = site.BlogDescription
	blog.Eyebrow = strings.ToUpper(site.BlogName)
	blog.Posts = posts
	add("/blog/", renderer.TemplateBlog, blog)

	for i := range posts {
		p := &posts[i]
		if p.External() {
			continue
		}
		data := base
		data.Title = p.Title
		data.Description = p.Description
		data.Post = p
		data.Content = p.HTML
		add(p.Permalink+"/", renderer.TemplatePost, data)
	}

	news, err := s.content.GetNews(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	data := section(base, sections["news"], "News", "Highlights and announcements.")
	data.News = news
	add("/news/", renderer.TemplateNews, data)

	projects, err := s.content.GetProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	data = section(base, sections["projects"], "Projects", "")
	data.Projects = projects
	add("/projects/", renderer.TemplateProjects, data)

	books, err := s.content.GetBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("books: %w", err)
	}
	data = section(base, sections["books"], "Books", "Long-form reads, reviews, and recommendations.")
	data.Books = books
	add("/books/", renderer.TemplateBooks, data)

	data = section(base, sections["publications"], "Publications", "")
	data.Publications = publications
	profiles, err := s.content.GetProfiles()
	if err != nil {
		return nil, fmt.Errorf("coauthors: %w", err)
	}
	data.Coauthors = coauthors(profiles)
	add("/publications/", renderer.TemplatePublications, data)

	cv, err := s.content.GetCvData()
	if err != nil {
		return nil, fmt.Errorf("cv: %w", err)
	}
	data = section(base, sections["cv"], "CV", "")
	data.Cv = &cv
	add("/cv/", renderer.TemplateCV, data)

	repos, err := s.content.GetRepositories()
	if err != nil {
		return nil, fmt.Errorf("repositories: %w", err)
	}
	data = section(base, sections["repositories"], "Repositories", "")
	data.Repositories = &repos
	add("/repositories/", renderer.TemplateRepositories, data)

	embedded := make(map[string]bool)
	if page := sections["profiles"]; page != nil {
		cards, err := s.profileCards(ctx, page, embedded)
		if err != nil {
			return nil, fmt.Errorf("profiles: %w", err)
		}
		data = section(base, page, "Profiles", "")
		data.Profiles = cards
		add("/profiles/", renderer.TemplateProfiles, data)
	}

	for i := range pages {
		p := &pages[i]
		if isSectionSlug(p.Slug) || embedded[p.Slug] || embedded[p.File] {
			continue
		}
		add("/"+p.Slug+"/", renderer.TemplatePage, section(base, p, content.StripDatePrefix(p.Slug), ""))
	}

	notFound := base
	notFound.Title = "Page not found"
	add("/404.html", renderer.TemplateNotFound, notFound)

	s.logger.Debug("Collected routes", "routes", len(routes), "posts", len(posts), "pages", len(pages))
	return &PageResult{Site: site, Routes: routes, Posts: posts}, nil
}

// isSectionSlug reports whether a page slug is served by a dedicated route.
func isSectionSlug(slug string) bool {
	switch slug {
	case "about", "blog", "news", "projects", "books", "publications", "cv", "repositories", "profiles":
		return true
	}
	return strings.HasPrefix(slug, "about.")
}

func (s *pageServiceImpl) baseData(site models.SiteConfig, socials []models.SiteSocial) models.PageData {
	baseURL := s.opts.BaseURL
	if baseURL == "" && !s.opts.IsDev {
		baseURL = site.BaseURL
	}
	return models.PageData{
		BaseURL:      baseURL,
		Site:         site,
		FullName:     utils.FullName(site.FirstName, site.MiddleName, site.LastName, site.Title),
		Socials:      socials,
		Navigation:   site.Navigation,
		BuildVersion: s.opts.BuildVersion,
		Year:         time.Now().Year(),
		IsDev:        s.opts.IsDev,
		ClientMath:   s.opts.ClientMath && site.EnableMath,
	}
}

// section fills title, description and intro from an optional page.
func section(base models.PageData, page *models.Page, title, description string) models.PageData {
	data := base
	data.Title = title
	data.Description = description
	if page == nil {
		return data
	}
	if page.Title != "" {
		data.Title = page.Title
	}
	if page.Description != "" {
		data.Description = page.Description
	}
	data.Page = page
	data.Content = page.HTML
	return data
}

func (s *pageServiceImpl) homeData(ctx context.Context, base models.PageData, publications []models.PublicationGroup) (models.PageData, error) {
	about, err := s.content.GetAboutPage(ctx)
	if err != nil {
		return base, fmt.Errorf("about: %w", err)
	}
	data := base
	data.Home = &models.HomeData{}
	data.Selected = content.SelectedPublications(publications, selectedOnHome)
	if about == nil {
		return data, nil
	}

	data.Page = about
	data.Content = about.HTML
	data.Description = about.Description
	fm := about.Data
	home := data.Home
	home.Subtitle = utils.StripHTML(cast.ToString(fm["subtitle"]))

	profile := cast.ToStringMap(fm["profile"])
	home.ProfileImage = cast.ToString(profile["image"])
	home.ImageCircular = cast.ToBool(profile["image_circular"])
	home.ProfileAlign = cast.ToString(profile["align"])
	if home.ProfileAlign == "" {
		home.ProfileAlign = "left"
	}
	home.MoreInfo = template.HTML(utils.SanitizeHTML(cast.ToString(profile["more_info"])))
	home.Research = researchSection(fm["research"])

	announcements := cast.ToStringMap(fm["announcements"])
	if cast.ToBool(announcements["enabled"]) {
		limit := defaultAnnouncements
		if v, ok := announcements["limit"]; ok && v != nil {
			limit = cast.ToInt(v)
		}
		news, err := s.content.GetNews(ctx, limit)
		if err != nil {
			return data, fmt.Errorf("news: %w", err)
		}
		home.ShowNews = true
		home.ScrollableNews = cast.ToBool(announcements["scrollable"])
		data.News = news
	}
	return data, nil
}

// linkVenues sets VenueURL on entries whose venue has a url in venues.yml.
// A venue maps either straight to a url or to a record with a url key.
func linkVenues(groups []models.PublicationGroup, venues map[string]any) {
	if len(venues) == 0 {
		return
	}
	for gi := range groups {
		for ei := range groups[gi].Entries {
			pub := &groups[gi].Entries[ei]
			switch v := venues[pub.Venue].(type) {
			case string:
				pub.VenueURL = v
			case map[string]any:
				pub.VenueURL = cast.ToString(v["url"])
			}
		}
	}
}

func coauthors(profiles []map[string]any) []models.Coauthor {
	var out []models.Coauthor
	for _, p := range profiles {
		first := strings.Join(content.NormalizeStringList(p["firstname"]), " ")
		name := utils.FullName(first, "", cast.ToString(p["lastname"]), cast.ToString(p["name"]))
		if name == "" {
			continue
		}
		out = append(out, models.Coauthor{Name: name, URL: cast.ToString(p["url"])})
	}
	return out
}

// researchSection keeps the items that carry a non-blank title.
func researchSection(v any) models.ResearchSection {
	raw := cast.ToStringMap(v)
	section := models.ResearchSection{}
	if title, ok := raw["title"].(string); ok {
		section.Title = title
	}
	items, _ := raw["items"].([]any)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, ok := m["title"].(string)
		if !ok || strings.TrimSpace(title) == "" {
			continue
		}
		desc, _ := m["description"].(string)
		section.Items = append(section.Items, models.ResearchItem{Title: title, Description: desc})
	}
	return section
}

// profileCards builds the cards of the profiles page and records the
// names of the pages they embed.
func (s *pageServiceImpl) profileCards(ctx context.Context, page *models.Page, embedded map[string]bool) ([]models.ProfileCard, error) {
	entries, _ := page.Data["profiles"].([]any)
	cards := make([]models.ProfileCard, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			cards = append(cards, models.ProfileCard{})
			continue
		}
		card := models.ProfileCard{
			Align:         cast.ToString(m["align"]),
			Image:         cast.ToString(m["image"]),
			ImageCircular: cast.ToBool(m["image_circular"]),
			MoreInfo:      template.HTML(utils.SanitizeHTML(cast.ToString(m["more_info"]))),
		}
		if card.Align == "" {
			card.Align = "left"
		}
		if name, ok := m["content"].(string); ok && name != "" {
			embedded[name] = true
			html, err := s.content.GetSupplementaryPageContent(ctx, name)
			if err != nil {
				return nil, err
			}
			card.HTML = html
		}
		cards = append(cards, card)
	}
	return cards, nil
}
