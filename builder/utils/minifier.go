package utils

import (
	"regexp"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/xml"
)

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

// Minifier returns the shared minifier for HTML pages and XML feeds.
func Minifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		minifier.AddFunc("application/xml", xml.Minify)
	})
	return minifier
}

var localImageRe = regexp.MustCompile(`(?i)(<img[^>]+src=["'])(/static/[^"']+)\.(?:jpe?g|png)(["'])`)

// ReplaceToWebP points local /static images at their converted .webp
// files. Remote images are left alone.
func ReplaceToWebP(html string) string {
	return localImageRe.ReplaceAllStringFunc(html, func(m string) string {
		parts := localImageRe.FindStringSubmatch(m)
		return parts[1] + parts[2] + ".webp" + parts[3]
	})
}

// WebPPath maps an image path to the path of its converted file.
func WebPPath(path string) string {
	if !IsConvertibleImage(path) {
		return path
	}
	return path[:strings.LastIndexByte(path, '.')] + ".webp"
}
