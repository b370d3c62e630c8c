package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	ugcPolicy   = bluemonday.UGCPolicy()
)

// NormalizeLink keeps absolute http(s) links and roots everything else.
func NormalizeLink(link string) string {
	if strings.HasPrefix(link, "http") {
		return link
	}
	return "/" + strings.TrimLeft(link, "/")
}

// FullName joins the non-empty name parts, falling back to title.
func FullName(first, middle, last, title string) string {
	var parts []string
	for _, p := range []string{first, middle, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return title
	}
	return strings.Join(parts, " ")
}

// StripHTML removes all markup and returns plain text.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// SanitizeHTML keeps user-authored markup safe to inline in a page.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}

// TitleLabel turns an identifier like "google_scholar" into "Google Scholar".
func TitleLabel(id string) string {
	// a Caser is stateful, so one per call
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}
