package renderer

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/Kush-Singh-26/folio/builder/utils"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"join":      strings.Join,
		"now":       time.Now,
		"link":      utils.NormalizeLink,
		"url":       siteURL,
		"asset":     assetURL,
		"date":      formatDate,
		"repoCard":  repoCard,
	}
}

// siteURL prefixes root-relative paths with the base URL.
func siteURL(base, p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "mailto:") {
		return p
	}
	return base + p
}

// assetURL resolves a source asset to its emitted name.
func assetURL(assets map[string]string, src string) string {
	if out, ok := assets[src]; ok {
		return out
	}
	return src
}

func formatDate(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

// repoCard builds the pinned-repository card URL for "owner/name".
func repoCard(repo string, lines int) string {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return ""
	}
	q := url.Values{}
	q.Set("username", owner)
	q.Set("repo", name)
	if lines > 0 {
		q.Set("description_lines_count", fmt.Sprint(lines))
	}
	return "https://github-readme-stats.vercel.app/api/pin/?" + q.Encode()
}
