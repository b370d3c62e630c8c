package parser

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/renderer/native"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

type countingMath struct {
	mu    sync.Mutex
	calls int
}

func (c *countingMath) RenderMath(tex string, display bool) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if tex == "fail" {
		return "", errors.New("bad tex")
	}
	if display {
		return `<span class="katex-display">` + tex + `</span>`, nil
	}
	return `<span class="katex">` + tex + `</span>`, nil
}

type mapCache struct {
	mu sync.Mutex
	m  map[string]string
}

func (c *mapCache) GetMath(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) PutMath(key, html string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = html
	return nil
}

func TestRender(t *testing.T) {
	md := New()

	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "heading anchor",
			src:  "# Hello World",
			want: []string{`<h1 id="hello-world"><a class="anchor-link" href="#hello-world">Hello World</a></h1>`},
		},
		{
			name:    "directive in inline code",
			src:     "Use `x :note[hi]` in code.",
			want:    []string{`<code>x :note[hi]</code>`},
			notWant: []string{"&lt;span"},
		},
		{
			name: "inline math marker",
			src:  "Inline $a<b$ here",
			want: []string{`<span class="math math-inline">a&lt;b</span>`},
		},
		{
			name: "display math marker",
			src:  "$$\nx^2\n$$",
			want: []string{`<div class="math math-display">x^2</div>`},
		},
		{
			name: "highlighted code",
			src:  "```go\nfmt.Println(1)\n```",
			want: []string{`<div class="code-wrapper" data-lang="go">`, `class="chroma"`},
		},
		{
			name:    "math in code is literal",
			src:     "`$x$`",
			want:    []string{"<code>$x$</code>"},
			notWant: []string{"math-inline"},
		},
		{
			name: "raw html",
			src:  "<div class=\"custom\">hi</div>",
			want: []string{`<div class="custom">hi</div>`},
		},
		{
			name: "gfm table",
			src:  "| a |\n|---|\n| 1 |",
			want: []string{"<table>", "<td>1</td>"},
		},
		{
			name: "directive",
			src:  ":::note\nBody\n:::",
			want: []string{`<div class="note">`, "<p>Body</p>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := md.Render(tt.src)
			if err != nil {
				t.Fatalf("Render() failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Render() missing %q\ngot: %s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("Render() should not contain %q\ngot: %s", w, got)
				}
			}
		})
	}
}

func TestRender_DirectiveError(t *testing.T) {
	if _, err := New().Render(":::note\nnever closed"); err == nil {
		t.Fatal("expected error for an unclosed directive")
	}
}

func TestRender_ServerMath(t *testing.T) {
	math := &countingMath{}
	cache := &mapCache{m: make(map[string]string)}
	md := New(WithMath(math), WithMathCache(cache))

	src := "Let $x$ be.\n\n$$\ny\n$$"
	got, err := md.Render(src)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	for _, w := range []string{
		`<span class="math math-inline"><span class="katex">x</span></span>`,
		`<div class="math math-display"><span class="katex-display">y</span></div>`,
	} {
		if !strings.Contains(got, w) {
			t.Errorf("Render() missing %q\ngot: %s", w, got)
		}
	}

	again, err := md.Render(src)
	if err != nil {
		t.Fatalf("second Render() failed: %v", err)
	}
	if again != got {
		t.Errorf("cached render differs:\n%s\n%s", got, again)
	}
	if math.calls != 2 {
		t.Errorf("RenderMath called %d times, want 2", math.calls)
	}
}

func TestRender_MathError(t *testing.T) {
	md := New(WithMath(&countingMath{}))
	_, err := md.Render("bad $fail$ math")
	if err == nil || !strings.Contains(err.Error(), "bad tex") {
		t.Errorf("expected math error, got %v", err)
	}
}

func TestRender_KaTeX(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "katex.js", []byte(testutil.KaTeXStub), 0644); err != nil {
		t.Fatal(err)
	}
	katex, err := native.New(fs, "katex.js", 1, nil)
	if err != nil {
		t.Fatalf("native.New() failed: %v", err)
	}
	md := New(WithMath(katex))

	got, err := md.Render(`Area \(a<b\)`)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if !strings.Contains(got, `<span class="katex">a&lt;b</span>`) {
		t.Errorf("unexpected output: %s", got)
	}

	if _, err := md.Render(`$\bad$`); err == nil {
		t.Error("expected KaTeX error to fail the render")
	}
}
