package parser

import (
	"regexp"
	"strings"
)

// Pass is one rewrite step of the legacy template preprocessor.
type Pass struct {
	Name  string
	Apply func(string) string
}

var (
	rawOpenRe      = regexp.MustCompile(`\{%\s*raw\s*%\}`)
	rawCloseRe     = regexp.MustCompile(`\{%\s*endraw\s*%\}`)
	highlightRe    = regexp.MustCompile(`(?s)\{%\s*highlight\s+([^\s%}]+)[^%]*%\}(.*?)\{%\s*endhighlight\s*%\}`)
	figureRe       = regexp.MustCompile(`\{%\s*include\s+figure\.liquid([^%]*)%\}`)
	citeRe         = regexp.MustCompile(`\{%\s*cite\s+([^%]+)%\}`)
	attributeRe    = regexp.MustCompile(`\{:\s*[^}]+\}`)
	siteVariableRe = regexp.MustCompile(`\{\{\s*site\.[^}]+\}\}`)
	pageVariableRe = regexp.MustCompile(`\{\{\s*page\.[^}]+\}\}`)
)

// Passes returns the rewrite steps in the order they must run. Later
// patterns can match inside the output of earlier ones.
func Passes() []Pass {
	return []Pass{
		{Name: "raw", Apply: stripRawMarkers},
		{Name: "highlight", Apply: convertHighlightBlocks},
		{Name: "figure", Apply: convertFigureIncludes},
		{Name: "cite", Apply: convertCitations},
		{Name: "attributes", Apply: stripAttributeLists},
		{Name: "variables", Apply: stripVariables},
	}
}

// Preprocess rewrites the legacy liquid dialect into plain markdown/HTML.
func Preprocess(body string) string {
	for _, p := range Passes() {
		body = p.Apply(body)
	}
	return body
}

// The markers are deleted; their contents are still subject to the later passes.
func stripRawMarkers(s string) string {
	s = rawOpenRe.ReplaceAllString(s, "")
	return rawCloseRe.ReplaceAllString(s, "")
}

func convertHighlightBlocks(s string) string {
	return highlightRe.ReplaceAllStringFunc(s, func(match string) string {
		m := highlightRe.FindStringSubmatch(match)
		code := strings.TrimRight(strings.TrimLeft(m[2], "\n"), "\n")
		return "\n\n```" + m[1] + "\n" + code + "\n```\n\n"
	})
}

func convertFigureIncludes(s string) string {
	return figureRe.ReplaceAllStringFunc(s, func(match string) string {
		attrs := figureRe.FindStringSubmatch(match)[1]
		path := liquidAttr(attrs, "path")
		title := liquidAttr(attrs, "title")
		class := liquidAttr(attrs, "class")
		loading := liquidAttr(attrs, "loading")

		src := ""
		if path != "" {
			src = "/" + strings.TrimLeft(path, "/")
		}
		alt := title
		if alt == "" {
			alt = "Figure"
		}

		var b strings.Builder
		b.WriteString(`<img src="`)
		b.WriteString(escapeAttr(src))
		b.WriteString(`" alt="`)
		b.WriteString(escapeAttr(alt))
		b.WriteString(`"`)
		if class != "" {
			b.WriteString(` class="` + escapeAttr(class) + `"`)
		}
		if loading != "" {
			b.WriteString(` loading="` + escapeAttr(loading) + `"`)
		}
		b.WriteString(" />")
		return b.String()
	})
}

var liquidAttrRes = map[string]*regexp.Regexp{
	"path":    regexp.MustCompile(`path="([^"]+)"`),
	"title":   regexp.MustCompile(`title="([^"]+)"`),
	"class":   regexp.MustCompile(`class="([^"]+)"`),
	"loading": regexp.MustCompile(`loading="([^"]+)"`),
}

func liquidAttr(attrs, name string) string {
	if m := liquidAttrRes[name].FindStringSubmatch(attrs); m != nil {
		return m[1]
	}
	return ""
}

func convertCitations(s string) string {
	return citeRe.ReplaceAllStringFunc(s, func(match string) string {
		raw := citeRe.FindStringSubmatch(match)[1]
		var keys []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return ""
		}
		return `<span class="citation">[` + strings.Join(keys, ", ") + `]</span>`
	})
}

func stripAttributeLists(s string) string {
	return attributeRe.ReplaceAllString(s, "")
}

func stripVariables(s string) string {
	s = siteVariableRe.ReplaceAllString(s, "")
	return pageVariableRe.ReplaceAllString(s, "")
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
