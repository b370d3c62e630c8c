package content

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func TestBuildSlug(t *testing.T) {
	tests := map[string]string{
		"2024-01-02-post.md": "2024-01-02-post",
		"page.markdown":      "page",
		"component.mdx":      "component",
		"notes.txt":          "notes.txt",
		"about.old.md":       "about.old",
	}
	for in, want := range tests {
		if got := BuildSlug(in); got != want {
			t.Errorf("BuildSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantBody string
		wantDate bool
		hasDate  bool
	}{
		{"with date", "---\ntitle: T\ndate: 2024-01-02\n---\n\n body \n", "body", true, true},
		{"bad date", "---\ndate: someday\n---\nbody", "body", false, true},
		{"no frontmatter", "just text\n", "just text", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, body, err := SplitFrontmatter([]byte(tt.raw))
			if err != nil {
				t.Fatalf("SplitFrontmatter() failed: %v", err)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			v, ok := data["date"]
			if ok != tt.hasDate {
				t.Fatalf("date key present = %v, want %v", ok, tt.hasDate)
			}
			if ok && (ParseDate(v) != nil) != tt.wantDate {
				t.Errorf("date = %v", v)
			}
		})
	}
}

func TestLoadEntry(t *testing.T) {
	fs, _ := testutil.CreateTestFilesystemWithContent(map[string]string{
		"content/posts/2024-01-02-a.md": "---\ntitle: A\ntags:\n  nested: [x]\n---\nBody",
	})

	e, err := LoadEntry(fs, "content", "posts", "2024-01-02-a.md")
	if err != nil {
		t.Fatalf("LoadEntry() failed: %v", err)
	}
	if e.Slug != "2024-01-02-a" || e.Body != "Body" || e.Data["title"] != "A" {
		t.Errorf("entry = %+v", e)
	}
	if got := NormalizeStringList(e.Data["tags"]); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("nested tags = %v", got)
	}

	_, err = LoadEntry(fs, "content", "posts", "missing.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestListEntries(t *testing.T) {
	fs, _ := testutil.CreateTestFilesystemWithContent(map[string]string{
		"content/news/b.md":       "",
		"content/news/a.markdown": "",
		"content/news/c.txt":      "",
		"content/news/sub/d.md":   "",
	})

	files, err := ListEntries(fs, "content", "news")
	if err != nil {
		t.Fatalf("ListEntries() failed: %v", err)
	}
	if !reflect.DeepEqual(files, []string{"a.markdown", "b.md"}) {
		t.Errorf("files = %v", files)
	}

	files, err = ListEntries(afero.NewMemMapFs(), "content", "news")
	if err != nil || len(files) != 0 {
		t.Errorf("missing dir = %v, %v", files, err)
	}
}
