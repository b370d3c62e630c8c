package parser

import (
	"strings"
	"testing"
)

func TestExpandDirectives(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "container",
			src:  ":::note{.wide #n1 data-x=\"1\"}\nBody\n:::",
			want: "\n<div class=\"note wide\" id=\"n1\" data-x=\"1\">\n\nBody\n\n</div>\n",
		},
		{
			name: "container label",
			src:  ":::warning[Careful]\nx\n:::",
			want: "\n<div class=\"warning\">\n<p class=\"directive-label\">Careful</p>\n\nx\n\n</div>\n",
		},
		{
			name: "leaf",
			src:  "::video[Clip]{src=a.mp4}",
			want: "\n<div class=\"video\" src=\"a.mp4\">Clip</div>\n",
		},
		{
			name: "text",
			src:  "an :abbr[HTML]{title=\"markup\"} tag",
			want: "an <span class=\"abbr\" title=\"markup\">HTML</span> tag",
		},
		{
			name: "time and urls untouched",
			src:  "at 10:30 see https://example.com",
			want: "at 10:30 see https://example.com",
		},
		{
			name: "inline code untouched",
			src:  "Use `x :note[hi]` and :note[ok].",
			want: "Use `x :note[hi]` and <span class=\"note\">ok</span>.",
		},
		{
			name: "double backtick span",
			src:  "``a ` :b[c]`` then :b[d]",
			want: "``a ` :b[c]`` then <span class=\"b\">d</span>",
		},
		{
			name: "unmatched backtick is text",
			src:  "a ` :note[x]",
			want: "a ` <span class=\"note\">x</span>",
		},
		{
			name: "escaped backtick opens no span",
			src:  "\\` :note[x] `",
			want: "\\` <span class=\"note\">x</span> `",
		},
		{
			name: "fenced code untouched",
			src:  "```\n:::note\n```",
			want: "```\n:::note\n```",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandDirectives(tt.src)
			if err != nil {
				t.Fatalf("ExpandDirectives() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandDirectives() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandDirectives_Nested(t *testing.T) {
	src := "::::outer\n:::inner\nx\n:::\n::::"
	got, err := ExpandDirectives(src)
	if err != nil {
		t.Fatalf("ExpandDirectives() failed: %v", err)
	}
	if strings.Count(got, "</div>") != 2 {
		t.Errorf("expected two closed divs, got %q", got)
	}
	if strings.Index(got, `class="outer"`) > strings.Index(got, `class="inner"`) {
		t.Errorf("outer must open first: %q", got)
	}
}

func TestExpandDirectives_Unclosed(t *testing.T) {
	_, err := ExpandDirectives("text\n:::note\nbody")
	if err == nil {
		t.Fatal("expected error for an unclosed container")
	}
	if !strings.Contains(err.Error(), `"note"`) || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("unexpected error: %v", err)
	}
}
