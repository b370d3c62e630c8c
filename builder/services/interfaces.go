package services

import (
	"context"
	"html/template"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// ContentService is the read side of the site source. content.Store
// implements it.
type ContentService interface {
	GetPosts(ctx context.Context) ([]models.Post, error)
	GetNews(ctx context.Context, limit int) ([]models.NewsItem, error)
	GetProjects(ctx context.Context) ([]models.Project, error)
	GetBooks(ctx context.Context) ([]models.Book, error)
	GetPages(ctx context.Context) ([]models.Page, error)
	GetAboutPage(ctx context.Context) (*models.Page, error)
	GetSupplementaryPageContent(ctx context.Context, name string) (template.HTML, error)

	GetSiteConfig() (models.SiteConfig, error)
	GetSocials() ([]models.SiteSocial, error)
	GetCvData() (models.CvData, error)
	GetRepositories() (models.RepositoriesConfig, error)
	GetPublications() ([]models.PublicationGroup, error)
	GetVenues() (map[string]any, error)
	GetProfiles() ([]map[string]any, error)
}

// Route is one HTML page of the site.
type Route struct {
	Path     string // URL path, e.g. "/blog/first/"
	Template string
	Data     models.PageData
}

// PageResult contains everything a build publishes.
type PageResult struct {
	Site   models.SiteConfig
	Routes []Route
	Posts  []models.Post
}

// PageService assembles template data for every route.
type PageService interface {
	Collect(ctx context.Context) (*PageResult, error)
}

// AssetService handles static asset processing
type AssetService interface {
	Build(ctx context.Context) error
}

// RenderService handles rendering logic
type RenderService interface {
	RenderPage(path, name string, data models.PageData) error
	RegisterFile(path string)
	SetAssets(assets map[string]string)
	GetAssets() map[string]string
	Written() int64
}
