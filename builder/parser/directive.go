package parser

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	containerOpenRe  = regexp.MustCompile(`^(:{3,})([A-Za-z][\w-]*)(?:\[([^\]]*)\])?(\{[^}]*\})?\s*$`)
	containerCloseRe = regexp.MustCompile(`^(:{3,})\s*$`)
	leafRe           = regexp.MustCompile(`^::([A-Za-z][\w-]*)(?:\[([^\]]*)\])?(\{[^}]*\})?\s*$`)
	textDirectiveRe  = regexp.MustCompile(`(^|[^\w:\\]):([A-Za-z][\w-]*)\[([^\]]*)\](\{[^}]*\})?`)
	fenceRe          = regexp.MustCompile("^\\s{0,3}(```+|~~~+)")
	attrTokenRe      = regexp.MustCompile(`([.#]?[\w-]+)(?:=("[^"]*"|'[^']*'|[^\s"']+))?`)
)

type openDirective struct {
	name   string
	colons int
	line   int
}

// ExpandDirectives turns container (:::name), leaf (::name) and text
// (:name[label]) directives into raw HTML. Fenced code is left alone.
// An unclosed container is an error.
func ExpandDirectives(src string) (string, error) {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	var stack []openDirective
	fence := ""

	for i, line := range lines {
		if m := fenceRe.FindStringSubmatch(line); m != nil {
			marker := m[1]
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(marker, fence[:1]) && len(marker) >= len(fence):
				fence = ""
			}
			out = append(out, line)
			continue
		}
		if fence != "" {
			out = append(out, line)
			continue
		}

		if m := containerCloseRe.FindStringSubmatch(line); m != nil && len(stack) > 0 {
			top := stack[len(stack)-1]
			if len(m[1]) >= top.colons {
				stack = stack[:len(stack)-1]
				out = append(out, "", "</div>", "")
				continue
			}
		}
		if m := containerOpenRe.FindStringSubmatch(line); m != nil {
			stack = append(stack, openDirective{name: m[2], colons: len(m[1]), line: i + 1})
			out = append(out, "", "<div"+directiveAttrs(m[2], m[4])+">")
			if m[3] != "" {
				out = append(out, `<p class="directive-label">`+expandTextDirectives(m[3])+`</p>`)
			}
			out = append(out, "")
			continue
		}
		if m := leafRe.FindStringSubmatch(line); m != nil {
			out = append(out, "", "<div"+directiveAttrs(m[1], m[3])+">"+expandTextDirectives(m[2])+"</div>", "")
			continue
		}
		out = append(out, expandTextDirectives(line))
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return "", fmt.Errorf("unclosed directive %q opened on line %d", top.name, top.line)
	}
	return strings.Join(out, "\n"), nil
}

// expandTextDirectives rewrites text directives outside inline code spans.
// A span opens with a run of backticks and closes at the next run of the
// same length; an unmatched run is literal text.
func expandTextDirectives(line string) string {
	if !strings.Contains(line, ":") {
		return line
	}
	var b strings.Builder
	text := 0
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		n := backtickRun(line, i)
		if i > 0 && line[i-1] == '\\' {
			i += n
			continue
		}
		end := closingRun(line, i+n, n)
		if end < 0 {
			i += n
			continue
		}
		b.WriteString(replaceTextDirectives(line[text:i]))
		b.WriteString(line[i : end+n])
		i = end + n
		text = i
	}
	b.WriteString(replaceTextDirectives(line[text:]))
	return b.String()
}

func replaceTextDirectives(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}
	return textDirectiveRe.ReplaceAllStringFunc(s, func(match string) string {
		m := textDirectiveRe.FindStringSubmatch(match)
		return m[1] + "<span" + directiveAttrs(m[2], m[4]) + ">" + m[3] + "</span>"
	})
}

func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

func closingRun(s string, from, n int) int {
	for j := from; j < len(s); {
		if s[j] != '`' {
			j++
			continue
		}
		m := backtickRun(s, j)
		if m == n {
			return j
		}
		j += m
	}
	return -1
}

// directiveAttrs renders {.class #id key=value} as HTML attributes with
// the directive name as the first class.
func directiveAttrs(name, raw string) string {
	classes := []string{name}
	var id string
	var rest []string

	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "{"), "}")
	for _, m := range attrTokenRe.FindAllStringSubmatch(raw, -1) {
		key, val := m[1], strings.Trim(m[2], `"'`)
		switch {
		case strings.HasPrefix(key, "."):
			classes = append(classes, key[1:])
		case strings.HasPrefix(key, "#"):
			id = key[1:]
		case key == "class":
			classes = append(classes, strings.Fields(val)...)
		case key == "id":
			id = val
		default:
			rest = append(rest, fmt.Sprintf(` %s="%s"`, key, html.EscapeString(val)))
		}
	}

	var b strings.Builder
	b.WriteString(` class="` + html.EscapeString(strings.Join(classes, " ")) + `"`)
	if id != "" {
		b.WriteString(` id="` + html.EscapeString(id) + `"`)
	}
	for _, attr := range rest {
		b.WriteString(attr)
	}
	return b.String()
}
