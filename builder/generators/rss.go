package generators

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// FeedPath is where the blog feed is written, relative to the output dir.
const FeedPath = "blog/feed.xml"

// SiteRoot joins the site URL and base URL into an absolute prefix
// without a trailing slash.
func SiteRoot(site models.SiteConfig) string {
	root := strings.TrimRight(site.URL, "/")
	if base := strings.Trim(site.BaseURL, "/"); base != "" {
		root += "/" + base
	}
	return root
}

// AbsoluteURL resolves a site-relative path against root. Absolute links
// are returned unchanged.
func AbsoluteURL(root, link string) string {
	link = utils.NormalizeLink(link)
	if strings.HasPrefix(link, "http") {
		return link
	}
	return root + link
}

// GenerateRSS writes the blog feed. Posts are expected newest first.
// External posts keep their redirect as the item link.
func GenerateRSS(destFs afero.Fs, outputDir string, site models.SiteConfig, posts []models.Post, minify bool) error {
	root := SiteRoot(site)

	title := site.BlogName
	if title == "" {
		title = site.Title
	}
	desc := site.BlogDescription
	if desc == "" {
		desc = site.Description
	}

	items := make([]models.Item, 0, len(posts))
	for _, p := range posts {
		link := p.Redirect
		if link == "" {
			link = p.Permalink + "/"
		}
		link = AbsoluteURL(root, link)

		item := models.Item{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			Guid:        link,
			Categories:  p.Tags,
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}

	rss := models.Rss{
		Version: "2.0",
		Channel: models.Channel{
			Title:       title,
			Link:        root + "/blog/",
			Description: desc,
			Language:    site.Lang,
			Items:       items,
		},
	}
	return writeXML(destFs, filepath.Join(outputDir, filepath.FromSlash(FeedPath)), rss, minify)
}

func writeXML(destFs afero.Fs, path string, v any, minify bool) error {
	output, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	data := append([]byte(xml.Header), output...)
	if minify {
		if data, err = utils.Minifier().Bytes("application/xml", data); err != nil {
			return fmt.Errorf("failed to minify %s: %w", filepath.Base(path), err)
		}
	}
	if err := utils.WriteFileVFS(destFs, path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
