package parser

import (
	"bytes"
	"strings"

	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

const (
	mathInlineClass  = "math-inline"
	mathDisplayClass = "math-display"
)

var (
	inlineDelimiters = []passthrough.Delimiters{{Open: "$", Close: "$"}, {Open: "\\(", Close: "\\)"}}
	blockDelimiters  = []passthrough.Delimiters{{Open: "$$", Close: "$$"}, {Open: "\\[", Close: "\\]"}}
)

// MathRenderer turns TeX into HTML markup.
type MathRenderer interface {
	RenderMath(tex string, display bool) (string, error)
}

// MathCache memoizes rendered math by content key.
type MathCache interface {
	GetMath(key string) (string, bool)
	PutMath(key, html string) error
}

// mathMarkerRenderer emits passthrough math as escaped TeX inside
// math-inline / math-display elements. The TeX is rendered later on the
// HTML tree.
type mathMarkerRenderer struct{}

func (r *mathMarkerRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(passthrough.KindPassthroughInline, r.renderInline)
	reg.Register(passthrough.KindPassthroughBlock, r.renderBlock)
}

func (r *mathMarkerRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	tex := stripDelimiters(string(node.Text(source)), inlineDelimiters)
	_, _ = w.WriteString(`<span class="math ` + mathInlineClass + `">`)
	_, _ = w.Write(util.EscapeHTML([]byte(tex)))
	_, _ = w.WriteString(`</span>`)
	return ast.WalkSkipChildren, nil
}

func (r *mathMarkerRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	tex := stripDelimiters(buf.String(), blockDelimiters)
	_, _ = w.WriteString(`<div class="math ` + mathDisplayClass + `">`)
	_, _ = w.Write(util.EscapeHTML([]byte(tex)))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

func stripDelimiters(s string, delims []passthrough.Delimiters) string {
	s = strings.TrimSpace(s)
	for _, d := range delims {
		if len(s) >= len(d.Open)+len(d.Close) && strings.HasPrefix(s, d.Open) && strings.HasSuffix(s, d.Close) {
			return strings.TrimSpace(s[len(d.Open) : len(s)-len(d.Close)])
		}
	}
	return s
}
