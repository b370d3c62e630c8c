// Configures the markdown pipeline: directives, goldmark, math and the final HTML tree pass
package parser

import (
	"bytes"
	"fmt"
	"log/slog"

	chroma_html "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/Kush-Singh-26/folio/builder/utils"
)

// HighlightStyle is the chroma style used for code blocks and chroma.css.
const HighlightStyle = "github"

func codeBlockWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		langBytes, _ := c.Language()
		lang := string(langBytes)
		if lang == "" {
			lang = "text"
		}
		_, _ = w.WriteString(`<div class="code-wrapper" data-lang="` + lang + `">`)
	} else {
		_, _ = w.WriteString(`</div>`)
	}
}

// Markdown renders preprocessed markdown into an HTML string.
type Markdown struct {
	md     goldmark.Markdown
	math   MathRenderer
	cache  MathCache
	logger *slog.Logger
}

type Option func(*Markdown)

// WithMath renders math server-side. Without it, math is left as
// math-inline / math-display markers for client-side rendering.
func WithMath(r MathRenderer) Option {
	return func(m *Markdown) { m.math = r }
}

// WithMathCache memoizes rendered math.
func WithMathCache(c MathCache) Option {
	return func(m *Markdown) { m.cache = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Markdown) { m.logger = l }
}

func New(opts ...Option) *Markdown {
	m := &Markdown{
		md:     newGoldmark(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&admonitions.Extender{},
			highlighting.NewHighlighting(
				highlighting.WithStyle(HighlightStyle),
				highlighting.WithGuessLanguage(true),
				highlighting.WithFormatOptions(
					chroma_html.WithClasses(true),
				),
				highlighting.WithWrapperRenderer(codeBlockWrapper),
			),
			passthrough.New(passthrough.Config{
				InlineDelimiters: inlineDelimiters,
				BlockDelimiters:  blockDelimiters,
			}),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&mathMarkerRenderer{}, 1),
				util.Prioritized(&headingRenderer{}, 100),
			),
		),
	)
}

// Render runs directives, goldmark, math rendering and the HTML tree
// round trip. Any stage failure fails the whole render.
func (m *Markdown) Render(src string) (string, error) {
	expanded, err := ExpandDirectives(src)
	if err != nil {
		return "", fmt.Errorf("directive: %w", err)
	}

	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)

	if err := m.md.Convert([]byte(expanded), buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return m.finalize(bytes.Clone(buf.Bytes()))
}
