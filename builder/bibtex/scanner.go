package bibtex

import (
	"regexp"
	"strings"
)

var (
	frontmatterRe = regexp.MustCompile(`(?s)\A---.*?---`)
	macroRefRe    = regexp.MustCompile(`=\s*([A-Za-z][\w:-]*)`)
)

const stringDirective = "@string"

// Macros maps lower-cased @string names to their unwrapped values.
type Macros map[string]string

// StripFrontmatter removes a single ---...--- block at the very start of
// the text, then trims it.
func StripFrontmatter(input string) string {
	return strings.TrimSpace(frontmatterRe.ReplaceAllString(input, ""))
}

// ExtractStrings removes every @string directive from the text and
// collects its definition. Directive bodies may nest the opening
// delimiter, so this is a character scan rather than a regex.
func ExtractStrings(input string) (string, Macros) {
	macros := make(Macros)
	var out strings.Builder
	out.Grow(len(input))

	i := 0
	for i < len(input) {
		if !hasDirectiveAt(input, i) {
			out.WriteByte(input[i])
			i++
			continue
		}

		start := i
		i += len(stringDirective)
		for i < len(input) && isSpace(input[i]) {
			i++
		}
		if i >= len(input) {
			break
		}

		opener := input[i]
		if opener != '{' && opener != '(' {
			// not a directive after all; keep the '@' and rescan
			out.WriteByte(input[start])
			i = start + 1
			continue
		}
		closer := byte('}')
		if opener == '(' {
			closer = ')'
		}

		i++
		bodyStart := i
		depth := 1
		for i < len(input) && depth > 0 {
			switch input[i] {
			case opener:
				depth++
			case closer:
				depth--
			}
			i++
		}
		bodyEnd := len(input)
		if depth == 0 {
			bodyEnd = i - 1
		}

		addMacro(macros, input[bodyStart:bodyEnd])
	}
	return out.String(), macros
}

func hasDirectiveAt(s string, i int) bool {
	return len(s)-i >= len(stringDirective) && strings.EqualFold(s[i:i+len(stringDirective)], stringDirective)
}

func addMacro(macros Macros, body string) {
	eq := strings.IndexByte(body, '=')
	if eq == -1 {
		return
	}
	key := strings.ToLower(strings.TrimSpace(body[:eq]))
	if key == "" {
		return
	}
	if value := StripWrapping(body[eq+1:]); value != "" {
		macros[key] = value
	}
}

// ApplyMacros rewrites bare macro references on the right of an '=' into
// braced literals. Unknown names are left for the grammar parser.
func ApplyMacros(input string, macros Macros) string {
	if len(macros) == 0 {
		return input
	}
	return macroRefRe.ReplaceAllStringFunc(input, func(match string) string {
		name := macroRefRe.FindStringSubmatch(match)[1]
		value, ok := macros[strings.ToLower(name)]
		if !ok {
			return match
		}
		return "= {" + value + "}"
	})
}

// StripWrapping trims the value and removes one layer of surrounding
// braces or double quotes.
func StripWrapping(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) <= 1 {
		return trimmed
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	if (first == '{' && last == '}') || (first == '"' && last == '"') {
		return strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	return trimmed
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
