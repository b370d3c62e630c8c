package parser

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Kush-Singh-26/folio/builder/renderer/native"
)

func fragmentContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// finalize re-parses the rendered markup so raw HTML becomes part of the
// tree, renders math nodes in place and serializes the result.
func (m *Markdown) finalize(src []byte) (string, error) {
	nodes, err := html.ParseFragment(bytes.NewReader(src), fragmentContext())
	if err != nil {
		return "", fmt.Errorf("html: %w", err)
	}

	if m.math != nil {
		for _, n := range nodes {
			if err := m.renderMathNodes(n); err != nil {
				return "", err
			}
		}
	}

	var out bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&out, n); err != nil {
			return "", fmt.Errorf("html: %w", err)
		}
	}
	return out.String(), nil
}

func (m *Markdown) renderMathNodes(n *html.Node) error {
	if n.Type == html.ElementNode {
		display, ok := mathKind(n)
		if ok {
			return m.replaceMath(n, display)
		}
		// code blocks never contain math
		if n.DataAtom == atom.Pre || n.DataAtom == atom.Code {
			return nil
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := m.renderMathNodes(c); err != nil {
			return err
		}
	}
	return nil
}

func mathKind(n *html.Node) (display bool, ok bool) {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(a.Val) {
			switch class {
			case mathInlineClass:
				return false, true
			case mathDisplayClass:
				return true, true
			}
		}
	}
	return false, false
}

func (m *Markdown) replaceMath(n *html.Node, display bool) error {
	tex := textContent(n)
	rendered, err := m.renderTeX(tex, display)
	if err != nil {
		return fmt.Errorf("math %q: %w", tex, err)
	}

	children, err := html.ParseFragment(strings.NewReader(rendered), n)
	if err != nil {
		return fmt.Errorf("math %q: %w", tex, err)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return nil
}

func (m *Markdown) renderTeX(tex string, display bool) (string, error) {
	kind := mathInlineClass
	if display {
		kind = mathDisplayClass
	}
	key := native.HashContent(kind, tex)

	if m.cache != nil {
		if cached, ok := m.cache.GetMath(key); ok {
			return cached, nil
		}
	}

	rendered, err := m.math.RenderMath(tex, display)
	if err != nil {
		return "", err
	}

	if m.cache != nil {
		if err := m.cache.PutMath(key, rendered); err != nil {
			m.logger.Warn("Failed to cache rendered math", "error", err)
		}
	}
	return rendered, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
