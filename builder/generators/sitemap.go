package generators

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// SitemapPage is one page listed in sitemap.xml.
type SitemapPage struct {
	Path    string
	LastMod *time.Time
}

// GenerateSitemap writes sitemap.xml for pages, sorted by path. Non-page
// routes such as /404.html should be filtered out by the caller.
func GenerateSitemap(destFs afero.Fs, outputDir, root string, pages []SitemapPage, minify bool) error {
	sorted := make([]SitemapPage, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	urls := make([]models.Url, 0, len(sorted))
	for _, p := range sorted {
		u := models.Url{Loc: AbsoluteURL(root, p.Path)}
		if p.LastMod != nil {
			u.LastMod = p.LastMod.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return writeXML(destFs, filepath.Join(outputDir, "sitemap.xml"), models.UrlSet{Urls: urls}, minify)
}
