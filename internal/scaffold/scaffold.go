package scaffold

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/internal/new"
)

const defaultFolioYaml = `# Build configuration. Every key is optional.
contentDir: content
dataDir: data
bibliography: bibliography/papers.bib
staticDir: static
templateDir: templates
outputDir: public

# Path to katex.min.js for server-side math; leave empty to render in the browser
katexPath: ""

compressImages: false
minify: true

port: 2604
debounceDuration: 500ms
`

const siteConfig = `title: My Lab
first_name: Ada
last_name: Lovelace
description: Research on analytical engines.
url: http://localhost:2604
baseurl: ""
lang: en
blog_name: blog
blog_description: Notes from the lab
enable_math: true
footer_text: Built with folio
`

const aboutPage = `---
title: About
subtitle: Analytical engines and <b>notes</b>
profile:
  image: prof_pic.jpg
  more_info: <p>Room 42</p>
announcements:
  enabled: true
  limit: 5
---
Welcome! Edit this page in ` + "`content/pages/about.md`" + `.
`

const socials = `email: you@example.com
github_username: your-username
rss_icon: true
`

const papers = `@article{lovelace1843,
  title = {Notes on the Analytical Engine},
  author = {Ada Lovelace},
  journal = {Scientific Memoirs},
  year = {1843},
  selected = {true}
}
`

const mainCSS = `body {
  font-family: system-ui, sans-serif;
  max-width: 48rem;
  margin: 0 auto;
  padding: 1rem;
}
`

// Files returns the starter files keyed by path relative to the project root.
func Files() map[string]string {
	return map[string]string{
		config.DefaultConfigFile:  defaultFolioYaml,
		"content/config.yml":      siteConfig,
		"content/pages/about.md":  aboutPage,
		"data/socials.yml":        socials,
		"bibliography/papers.bib": papers,
		"static/css/main.css":     mainCSS,
	}
}

// Init writes the starter project under root. Existing files are kept.
// It returns the paths it created.
func Init(fs afero.Fs, root string, now time.Time) ([]string, error) {
	var created []string
	for _, dir := range []string{"content/posts", "content/news", "content/projects", "templates"} {
		if err := fs.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return created, fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	files := Files()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if exists, err := afero.Exists(fs, path); err != nil {
			return created, err
		} else if exists {
			fmt.Printf("   ⚠️ '%s' already exists, skipping.\n", name)
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return created, err
		}
		if err := afero.WriteFile(fs, path, []byte(files[name]), 0644); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", name, err)
		}
		created = append(created, path)
	}

	if empty, _ := afero.IsEmpty(fs, filepath.Join(root, "content/posts")); empty {
		post, err := new.Create(fs, filepath.Join(root, "content"), "Hello World", now)
		if err != nil {
			return created, err
		}
		created = append(created, post)
	}
	return created, nil
}

// Run initializes a new folio project in the working directory
func Run() error {
	fmt.Println("🌱 Initializing new folio project...")
	created, err := Init(afero.NewOsFs(), ".", time.Now())
	for _, path := range created {
		fmt.Printf("   📄 Created '%s'\n", path)
	}
	if err != nil {
		return err
	}
	fmt.Println("\n✅ Project initialized successfully!")
	fmt.Println("   👉 Run 'folio serve' to preview it.")
	return nil
}
