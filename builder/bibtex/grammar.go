package bibtex

import (
	"fmt"
	"strings"
)

// Entry is a raw bibliography record. Field values carry one layer of
// wrapping less than in the source.
type Entry struct {
	Key    string
	Type   string
	Fields map[string]string
	Order  []string
}

// SyntaxError reports where the grammar parser gave up.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bibtex: line %d: %s", e.Line, e.Msg)
}

var months = map[string]bool{
	"jan": true, "feb": true, "mar": true, "apr": true, "may": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "oct": true, "nov": true, "dec": true,
}

type grammar struct {
	src string
	pos int
}

// ParseEntries parses macro-free BibTeX text. Text outside entries is
// ignored, @comment and @preamble blocks are skipped.
func ParseEntries(src string) ([]Entry, error) {
	g := &grammar{src: src}
	var entries []Entry
	for {
		at := strings.IndexByte(g.src[g.pos:], '@')
		if at == -1 {
			return entries, nil
		}
		g.pos += at + 1

		typ := strings.ToLower(g.identifier())
		if typ == "" {
			return nil, g.errorf("expected entry type after '@'")
		}
		g.skipSpace()
		closer, err := g.opener()
		if err != nil {
			return nil, err
		}

		switch typ {
		case "comment", "preamble", "string":
			if err := g.skipBalanced(closer); err != nil {
				return nil, err
			}
			continue
		}

		entry, err := g.entry(typ, closer)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

func (g *grammar) entry(typ string, closer byte) (Entry, error) {
	e := Entry{Type: typ, Fields: make(map[string]string)}

	g.skipSpace()
	start := g.pos
	for g.pos < len(g.src) && g.src[g.pos] != ',' && g.src[g.pos] != closer {
		g.pos++
	}
	e.Key = strings.TrimSpace(g.src[start:g.pos])
	if g.pos >= len(g.src) {
		return e, g.errorf("unterminated entry %q", e.Key)
	}

	for {
		g.skipSpace()
		if g.pos >= len(g.src) {
			return e, g.errorf("unterminated entry %q", e.Key)
		}
		switch g.src[g.pos] {
		case closer:
			g.pos++
			return e, nil
		case ',':
			g.pos++
			continue
		}

		name := strings.ToLower(g.fieldName())
		if name == "" {
			return e, g.errorf("expected field name in entry %q", e.Key)
		}
		g.skipSpace()
		if !g.consume('=') {
			return e, g.errorf("expected '=' after field %q in entry %q", name, e.Key)
		}
		value, err := g.value()
		if err != nil {
			return e, err
		}
		if _, dup := e.Fields[name]; !dup {
			e.Order = append(e.Order, name)
		}
		e.Fields[name] = value
	}
}

// value reads a single value or a '#' concatenation of values.
func (g *grammar) value() (string, error) {
	var parts []string
	for {
		g.skipSpace()
		part, err := g.singleValue()
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
		g.skipSpace()
		if !g.consume('#') {
			return strings.Join(parts, ""), nil
		}
	}
}

func (g *grammar) singleValue() (string, error) {
	if g.pos >= len(g.src) {
		return "", g.errorf("expected value")
	}
	switch c := g.src[g.pos]; {
	case c == '{':
		g.pos++
		start := g.pos
		if err := g.skipBalanced('}'); err != nil {
			return "", err
		}
		return g.src[start : g.pos-1], nil
	case c == '"':
		g.pos++
		start := g.pos
		depth := 0
		for g.pos < len(g.src) {
			switch g.src[g.pos] {
			case '{':
				depth++
			case '}':
				depth--
			case '\\':
				g.pos++
			case '"':
				if depth == 0 {
					g.pos++
					return g.src[start : g.pos-1], nil
				}
			}
			g.pos++
		}
		return "", g.errorf("unterminated quoted value")
	case c >= '0' && c <= '9':
		start := g.pos
		for g.pos < len(g.src) && g.src[g.pos] >= '0' && g.src[g.pos] <= '9' {
			g.pos++
		}
		return g.src[start:g.pos], nil
	default:
		word := g.identifier()
		if months[strings.ToLower(word)] {
			return strings.ToLower(word), nil
		}
		if word == "" {
			return "", g.errorf("expected value")
		}
		return "", g.errorf("undefined macro %q", word)
	}
}

func (g *grammar) opener() (byte, error) {
	switch {
	case g.consume('{'):
		return '}', nil
	case g.consume('('):
		return ')', nil
	}
	return 0, g.errorf("expected '{' or '('")
}

// skipBalanced advances past the closer matching an already consumed
// opener, counting nested braces.
func (g *grammar) skipBalanced(closer byte) error {
	opener := byte('{')
	if closer == ')' {
		opener = '('
	}
	depth := 1
	for g.pos < len(g.src) {
		switch g.src[g.pos] {
		case opener:
			depth++
		case closer:
			depth--
		}
		g.pos++
		if depth == 0 {
			return nil
		}
	}
	return g.errorf("unbalanced %q", string(opener))
}

func (g *grammar) identifier() string {
	start := g.pos
	for g.pos < len(g.src) {
		c := g.src[g.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == ':' || c == '.' {
			g.pos++
			continue
		}
		break
	}
	return g.src[start:g.pos]
}

func (g *grammar) fieldName() string {
	start := g.pos
	for g.pos < len(g.src) && !isSpace(g.src[g.pos]) && !strings.ContainsRune("=,{}()\"#", rune(g.src[g.pos])) {
		g.pos++
	}
	return g.src[start:g.pos]
}

func (g *grammar) consume(c byte) bool {
	if g.pos < len(g.src) && g.src[g.pos] == c {
		g.pos++
		return true
	}
	return false
}

func (g *grammar) skipSpace() {
	for g.pos < len(g.src) && isSpace(g.src[g.pos]) {
		g.pos++
	}
}

func (g *grammar) errorf(format string, args ...any) error {
	pos := g.pos
	if pos > len(g.src) {
		pos = len(g.src)
	}
	return &SyntaxError{
		Line: strings.Count(g.src[:pos], "\n") + 1,
		Msg:  fmt.Sprintf(format, args...),
	}
}
