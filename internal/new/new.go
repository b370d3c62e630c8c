package new

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/folio/builder/config"
)

const maxSlugLength = 100

type postFrontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Categories  []string `yaml:"categories"`
}

// Slug converts a title to a safe filename slug
func Slug(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// Create writes a dated post stub to <contentDir>/posts/YYYY-MM-DD-<slug>.md
// and returns its path. Existing files are never overwritten.
func Create(fs afero.Fs, contentDir, title string, now time.Time) (string, error) {
	s := Slug(title)
	if s == "" {
		return "", errors.New("title produces empty slug after sanitization")
	}
	date := now.Format("2006-01-02")
	filename := filepath.Join(contentDir, "posts", date+"-"+s+".md")

	if exists, err := afero.Exists(fs, filename); err != nil {
		return "", err
	} else if exists {
		return "", fmt.Errorf("file already exists: %s: %w", filename, os.ErrExist)
	}

	meta, err := yaml.Marshal(postFrontmatter{
		Title:       title,
		Date:        date,
		Description: "Enter a short description here...",
		Tags:        []string{},
		Categories:  []string{},
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n## Introduction\n\nStart writing here...\n")

	if err := fs.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(fs, filename, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}
	return filename, nil
}

// Run creates a new blog post file. args[0] is the title; the rest are
// build flags such as -config or -content.
func Run(args []string) error {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New(`usage: folio new "My New Post Title" [flags]`)
	}
	cfg, err := config.Load(args[1:])
	if err != nil {
		return err
	}

	filename, err := Create(afero.NewOsFs(), cfg.ContentDir, args[0], time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created: %s\n", filename)
	return nil
}
