// Package testutil provides testing utilities and fixtures
package testutil

import (
	"html/template"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// SampleSite returns a small but complete site tree rooted at the
// working directory, suitable for CreateTestFilesystemWithContent.
func SampleSite() map[string]string {
	return map[string]string{
		"content/config.yml": `title: Lab
first_name: Ada
last_name: Lovelace
description: A research lab
url: https://lab.example.com
blog_name: notes
keywords: math, engines
footer_text: Hosted on the engine
`,
		"content/pages/about.md": `---
title: About
subtitle: <b>Analytical</b> engines
profile:
  image: prof.jpg
  image_circular: true
  more_info: <p>Room 42</p>
announcements:
  enabled: true
  limit: 1
research:
  title: Topics
  items:
    - title: Engines
      description: Difference and analytical.
    - description: dropped without a title
---
Welcome to the **lab**.
`,
		"content/pages/teaching.md": `---
title: Teaching
---
Courses.
`,
		"content/pages/profiles.md": `---
title: People
profiles:
  - align: right
    image: ada.jpg
    content: ada_bio.md
---
`,
		"content/pages/ada_bio.md": "Ada writes programs.\n",
		"content/posts/2024-01-02-first.md": `---
title: First
tags: [go, math]
---
Hello $x$.
`,
		"content/posts/2024-03-04-second.md": `---
title: Second
date: 2024-03-04
categories: notes
---
Second post.
`,
		"content/posts/2023-05-06-away.md": `---
title: Away
redirect: https://elsewhere.example.com/away
---
`,
		"content/news/2024-02-01-award.md": `---
inline: true
---
We won an award.
`,
		"content/news/2023-02-01-grant.md": "A grant.\n",
		"content/projects/engine.md": `---
title: Engine
importance: 2
---
`,
		"content/projects/loom.md": `---
title: Loom
importance: 1
---
`,
		"content/books/2020-notes.md": `---
title: Notes
rating: 4.5
---
`,
		"data/socials.yml": `email: ada@example.com
github_username: ada
rss_icon: true
scholar_userid: ""
`,
		"data/cv.yml": `sections:
  - title: Education
    items:
      - title: PhD
        links:
          - url: https://example.com/thesis
`,
		"data/venues.yml": `Nature:
  url: https://www.nature.com
`,
		"data/coauthors.yml": `- firstname: [Charles]
  lastname: Babbage
  url: https://example.com/babbage
- name: Analytical Society
`,
		"bibliography/papers.bib": `@string{nat = {Nature}}
@article{lovelace1843,
  title = {Notes on the Engine},
  author = {Ada Lovelace},
  journal = nat,
  year = {1843},
  selected = {true}
}
`,
	}
}

// CreateSamplePageData creates valid PageData for testing
func CreateSamplePageData() models.PageData {
	return models.PageData{
		Title:       "Test Page",
		Description: "Test page description",
		Path:        "/test/",
		Site:        models.SiteConfig{Title: "Lab", Lang: "en", Navigation: models.DefaultNavigation()},
		FullName:    "Ada Lovelace",
		Navigation:  models.DefaultNavigation(),
		Content:     template.HTML("<p>Test content</p>"),
	}
}
