package content

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func TestGetSiteConfig(t *testing.T) {
	s := sampleStore(t)
	cfg, err := s.GetSiteConfig()
	if err != nil {
		t.Fatalf("GetSiteConfig() failed: %v", err)
	}
	if cfg.Title != "Lab" || cfg.Lang != "en" || !cfg.EnableMath {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if strings.Join(cfg.Keywords, "|") != "math|engines" {
		t.Errorf("Keywords = %v", cfg.Keywords)
	}
	if len(cfg.Navigation) != 5 || cfg.Navigation[0].Label != "About" {
		t.Errorf("Navigation = %+v", cfg.Navigation)
	}
}

func TestGetSiteConfig_Overrides(t *testing.T) {
	fs, _ := testutil.CreateTestFilesystemWithContent(map[string]string{
		"content/config.yml": `lang: de
enable_math: false
keywords: [a, 1]
navigation:
  - label: Home
    href: /
  - label: Code
    href: https://github.com/lab
    external: true
`,
	})
	cfg, err := newTestStore(fs, echoRenderer{}).GetSiteConfig()
	if err != nil {
		t.Fatalf("GetSiteConfig() failed: %v", err)
	}
	if cfg.Title != "al-folio" || cfg.Lang != "de" || cfg.EnableMath {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if strings.Join(cfg.Keywords, "|") != "a|1" {
		t.Errorf("Keywords = %v", cfg.Keywords)
	}
	if len(cfg.Navigation) != 2 || !cfg.Navigation[1].External {
		t.Errorf("Navigation = %+v", cfg.Navigation)
	}
}

func TestGetSiteConfig_Missing(t *testing.T) {
	_, err := newTestStore(afero.NewMemMapFs(), echoRenderer{}).GetSiteConfig()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestGetSocials(t *testing.T) {
	socials, err := sampleStore(t).GetSocials()
	if err != nil {
		t.Fatalf("GetSocials() failed: %v", err)
	}
	if len(socials) != 3 {
		t.Fatalf("len(socials) = %d, want 3: %+v", len(socials), socials)
	}

	email := socials[0]
	if email.ID != "email" || email.Label != "ada@example.com" || email.URL != "mailto:ada@example.com" {
		t.Errorf("email = %+v", email)
	}
	if socials[1].Label != "github username" || socials[1].URL != "ada" {
		t.Errorf("github = %+v", socials[1])
	}
	if socials[2].ID != "rss" || socials[2].URL != "/blog/feed.xml" {
		t.Errorf("rss = %+v", socials[2])
	}
}

func TestSocialFor(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     any
		wantOK    bool
		wantLabel string
		wantIcon  string
	}{
		{"falsy", "x", false, false, "", ""},
		{"custom", "custom_social", map[string]any{"url": "https://c", "logo": "c.svg"}, true, "Custom", "c.svg"},
		{"custom no url", "custom_social", map[string]any{"title": "T"}, false, "", ""},
		{"object", "blog", map[string]any{"url": "https://b", "title": "Blog"}, true, "Blog", ""},
		{"object without title", "blog", map[string]any{"url": "https://b"}, true, "blog", ""},
		{"object without url", "blog", map[string]any{"title": "Blog"}, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := socialFor(tt.key, tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (got.Label != tt.wantLabel || got.Icon != tt.wantIcon) {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestGetCvData(t *testing.T) {
	cv, err := sampleStore(t).GetCvData()
	if err != nil {
		t.Fatalf("GetCvData() failed: %v", err)
	}
	if len(cv.Sections) != 1 {
		t.Fatalf("len(Sections) = %d", len(cv.Sections))
	}
	section := cv.Sections[0]
	if section.ID != "Education" || section.Title != "Education" {
		t.Errorf("section = %+v", section)
	}
	links := section.Items[0].Links
	if len(links) != 1 || links[0].Label != "link" {
		t.Errorf("links = %+v", links)
	}
}

func TestMissingDataFiles(t *testing.T) {
	s := newTestStore(afero.NewMemMapFs(), echoRenderer{})

	if socials, err := s.GetSocials(); err != nil || len(socials) != 0 {
		t.Errorf("GetSocials() = %v, %v", socials, err)
	}
	if cv, err := s.GetCvData(); err != nil || len(cv.Sections) != 0 || cv.Basics != nil {
		t.Errorf("GetCvData() = %+v, %v", cv, err)
	}
	if repos, err := s.GetRepositories(); err != nil || repos.GitHubUsers != nil {
		t.Errorf("GetRepositories() = %+v, %v", repos, err)
	}
	if profiles, err := s.GetProfiles(); err != nil || len(profiles) != 0 {
		t.Errorf("GetProfiles() = %v, %v", profiles, err)
	}
	if venues, err := s.GetVenues(); err != nil || len(venues) != 0 {
		t.Errorf("GetVenues() = %v, %v", venues, err)
	}
	if groups, err := s.GetPublications(); err != nil || len(groups) != 0 {
		t.Errorf("GetPublications() = %v, %v", groups, err)
	}
}

func TestRepositoriesProfilesVenues(t *testing.T) {
	fs, _ := testutil.CreateTestFilesystemWithContent(map[string]string{
		"data/repositories.yml": "github_users: [ada]\ngithub_repos: [lab/engine]\nrepo_description_lines_max: 3\n",
		"data/coauthors.yml":    "- name: Charles\n- just a string\n",
		"data/venues.yml":       "NeurIPS:\n  url: https://neurips.cc\n",
	})
	s := newTestStore(fs, echoRenderer{})

	repos, err := s.GetRepositories()
	if err != nil {
		t.Fatalf("GetRepositories() failed: %v", err)
	}
	if len(repos.GitHubUsers) != 1 || repos.GitHubRepos[0] != "lab/engine" || repos.RepoDescriptionLinesMax != 3 {
		t.Errorf("repos = %+v", repos)
	}

	profiles, err := s.GetProfiles()
	if err != nil || len(profiles) != 1 || profiles[0]["name"] != "Charles" {
		t.Errorf("GetProfiles() = %v, %v", profiles, err)
	}

	venues, err := s.GetVenues()
	if err != nil || venues["NeurIPS"] == nil {
		t.Errorf("GetVenues() = %v, %v", venues, err)
	}
}

func TestGetPublications(t *testing.T) {
	groups, err := sampleStore(t).GetPublications()
	if err != nil {
		t.Fatalf("GetPublications() failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Year != "1843" {
		t.Fatalf("groups = %+v", groups)
	}
	pub := groups[0].Entries[0]
	if pub.Venue != "Nature" || !pub.Selected || pub.Authors != "Ada Lovelace" {
		t.Errorf("publication = %+v", pub)
	}

	selected := SelectedPublications(groups, 5)
	if len(selected) != 1 || selected[0].ID != "lovelace1843" {
		t.Errorf("SelectedPublications() = %+v", selected)
	}
}
