package content

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// yaml.v3 keeps nested mappings as map[string]any, unlike the
// library's default yaml.v2 format.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

var markdownExts = []string{".markdown", ".mdx", ".md"}

// BuildSlug strips the markdown extension from a file name.
// A leading date prefix is kept.
func BuildSlug(filename string) string {
	for _, ext := range markdownExts {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext)
		}
	}
	return filename
}

func isMarkdownFile(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// SplitFrontmatter separates the YAML header from the body. A present
// date key is replaced by its parsed *time.Time (nil when unparseable).
func SplitFrontmatter(raw []byte) (map[string]any, string, error) {
	data := make(map[string]any)
	body, err := frontmatter.Parse(bytes.NewReader(raw), &data, yamlFormat)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	if v, ok := data["date"]; ok {
		data["date"] = ParseDate(v)
	}
	return data, strings.TrimSpace(string(body)), nil
}

// LoadEntry reads a single collection file.
func LoadEntry(fs afero.Fs, root, collection, filename string) (models.Entry, error) {
	path := filepath.Join(root, collection, filename)
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, body, err := SplitFrontmatter(raw)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%s: %w", path, err)
	}
	return models.Entry{
		Slug: BuildSlug(filename),
		File: filename,
		Data: data,
		Body: body,
	}, nil
}

// ListEntries returns the markdown file names of a collection in lexical
// order. A missing directory is an empty collection.
func ListEntries(fs afero.Fs, root, collection string) ([]string, error) {
	dir := filepath.Join(root, collection)
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !exists {
		return nil, nil
	}

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, info := range infos {
		if info.IsDir() || !isMarkdownFile(info.Name()) {
			continue
		}
		files = append(files, info.Name())
	}
	sort.Strings(files)
	return files, nil
}
