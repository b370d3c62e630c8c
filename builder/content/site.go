package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// readOptional returns nil data for a missing file.
func (s *Store) readOptional(path string) ([]byte, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}

func (s *Store) dataFile(name string) string {
	return filepath.Join(s.dataDir, name)
}

// truthy mirrors the loose YAML truthiness authors expect: empty strings,
// zero numbers, false and null are all falsy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int, int64, float64, uint64:
		return cast.ToFloat64(val) != 0
	}
	return true
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, cast.ToString(item))
	}
	return out
}

// GetSiteConfig reads content/config.yml. The file is required.
func (s *Store) GetSiteConfig() (models.SiteConfig, error) {
	path := filepath.Join(s.root, "config.yml")
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return models.SiteConfig{}, fmt.Errorf("failed to read site config: %w", err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return models.SiteConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	var nav struct {
		Navigation []models.NavItem `yaml:"navigation"`
	}
	if err := yaml.Unmarshal(raw, &nav); err != nil {
		return models.SiteConfig{}, fmt.Errorf("failed to parse navigation in %s: %w", path, err)
	}

	cfg := models.SiteConfig{
		Title:             "al-folio",
		FirstName:         str(data, "first_name"),
		MiddleName:        str(data, "middle_name"),
		LastName:          str(data, "last_name"),
		Description:       str(data, "description"),
		FooterText:        str(data, "footer_text"),
		Icon:              str(data, "icon"),
		Lang:              "en",
		URL:               strings.TrimSuffix(str(data, "url"), "/"),
		BaseURL:           strings.TrimSuffix(str(data, "baseurl"), "/"),
		BlogName:          str(data, "blog_name"),
		BlogDescription:   str(data, "blog_description"),
		EnableMath:        true,
		DisplayTags:       stringSlice(data["display_tags"]),
		DisplayCategories: stringSlice(data["display_categories"]),
		Navigation:        nav.Navigation,
	}
	if v, ok := data["title"]; ok && v != nil {
		cfg.Title = cast.ToString(v)
	}
	if lang := str(data, "lang"); lang != "" {
		cfg.Lang = lang
	}
	if v, ok := data["enable_math"]; ok {
		cfg.EnableMath = truthy(v)
	}

	switch kw := data["keywords"].(type) {
	case []any:
		cfg.Keywords = stringSlice(kw)
	case string:
		for _, part := range strings.Split(kw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cfg.Keywords = append(cfg.Keywords, part)
			}
		}
	}
	if cfg.Keywords == nil {
		cfg.Keywords = []string{}
	}
	if len(cfg.Navigation) == 0 {
		cfg.Navigation = models.DefaultNavigation()
	}
	return cfg, nil
}

// GetSocials reads data/socials.yml in document order.
func (s *Store) GetSocials() ([]models.SiteSocial, error) {
	path := s.dataFile("socials.yml")
	raw, err := s.readOptional(path)
	if err != nil || raw == nil {
		return []models.SiteSocial{}, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	result := []models.SiteSocial{}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return result, nil
	}

	pairs := doc.Content[0].Content
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i].Value
		var value any
		if err := pairs[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode %s in %s: %w", key, path, err)
		}
		if social, ok := socialFor(key, value); ok {
			result = append(result, social)
		}
	}
	return result, nil
}

func socialFor(key string, value any) (models.SiteSocial, bool) {
	if !truthy(value) {
		return models.SiteSocial{}, false
	}
	if key == "rss_icon" {
		return models.SiteSocial{ID: "rss", Label: "RSS", URL: "/blog/feed.xml"}, true
	}

	record, isMap := value.(map[string]any)
	if key == "custom_social" && isMap {
		url := str(record, "url")
		if url == "" {
			return models.SiteSocial{}, false
		}
		label := "Custom"
		if v, ok := record["title"]; ok && v != nil {
			label = cast.ToString(v)
		}
		return models.SiteSocial{ID: key, Label: label, URL: url, Icon: str(record, "logo")}, true
	}

	switch val := value.(type) {
	case string:
		if key == "email" {
			return models.SiteSocial{ID: key, Label: val, URL: "mailto:" + val}, true
		}
		return models.SiteSocial{ID: key, Label: strings.ReplaceAll(key, "_", " "), URL: val}, true
	case map[string]any:
		url, ok := val["url"].(string)
		if !ok {
			return models.SiteSocial{}, false
		}
		label := key
		if v, ok := val["title"]; ok && v != nil {
			label = cast.ToString(v)
		}
		icon, _ := val["logo"].(string)
		return models.SiteSocial{ID: key, Label: label, URL: url, Icon: icon}, true
	}
	return models.SiteSocial{}, false
}

// GetCvData reads data/cv.yml.
func (s *Store) GetCvData() (models.CvData, error) {
	path := s.dataFile("cv.yml")
	raw, err := s.readOptional(path)
	if err != nil {
		return models.CvData{}, err
	}
	cv := models.CvData{Sections: []models.CvSection{}}
	if raw == nil {
		return cv, nil
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return models.CvData{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if basics, ok := data["basics"].(map[string]any); ok {
		cv.Basics = basics
	}

	sections, _ := data["sections"].([]any)
	for _, rawSection := range sections {
		section, ok := rawSection.(map[string]any)
		if !ok {
			continue
		}
		id := "section"
		if v := firstNonNil(section, "id", "title"); v != nil {
			id = cast.ToString(v)
		}
		title := "Untitled"
		if v := firstNonNil(section, "title"); v != nil {
			title = cast.ToString(v)
		}
		cv.Sections = append(cv.Sections, models.CvSection{
			ID:    id,
			Title: title,
			Items: cvItems(section["items"]),
		})
	}
	return cv, nil
}

func firstNonNil(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func cvItems(v any) []models.CvItem {
	raw, _ := v.([]any)
	items := []models.CvItem{}
	for _, r := range raw {
		item, ok := r.(map[string]any)
		if !ok {
			continue
		}
		cvItem := models.CvItem{
			Title:       str(item, "title"),
			Subtitle:    str(item, "subtitle"),
			Period:      str(item, "period"),
			Description: str(item, "description"),
			Items:       cvItems(item["items"]),
			Links:       []models.CvLink{},
		}
		links, _ := item["links"].([]any)
		for _, l := range links {
			link, ok := l.(map[string]any)
			if !ok || !truthy(link["url"]) {
				continue
			}
			label := "link"
			if v := firstNonNil(link, "label", "title"); v != nil {
				label = cast.ToString(v)
			}
			cvItem.Links = append(cvItem.Links, models.CvLink{Label: label, URL: cast.ToString(link["url"])})
		}
		items = append(items, cvItem)
	}
	return items
}

// GetRepositories reads data/repositories.yml.
func (s *Store) GetRepositories() (models.RepositoriesConfig, error) {
	path := s.dataFile("repositories.yml")
	raw, err := s.readOptional(path)
	if err != nil || raw == nil {
		return models.RepositoriesConfig{}, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return models.RepositoriesConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg := models.RepositoriesConfig{
		GitHubUsers: stringSlice(data["github_users"]),
		GitHubRepos: stringSlice(data["github_repos"]),
	}
	switch n := data["repo_description_lines_max"].(type) {
	case int:
		cfg.RepoDescriptionLinesMax = n
	case float64:
		cfg.RepoDescriptionLinesMax = int(n)
	}
	return cfg, nil
}

// GetProfiles reads data/coauthors.yml, which holds a sequence of records.
func (s *Store) GetProfiles() ([]map[string]any, error) {
	path := s.dataFile("coauthors.yml")
	raw, err := s.readOptional(path)
	if err != nil || raw == nil {
		return []map[string]any{}, err
	}

	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	seq, _ := data.([]any)
	profiles := make([]map[string]any, 0, len(seq))
	for _, item := range seq {
		if record, ok := item.(map[string]any); ok {
			profiles = append(profiles, record)
		}
	}
	return profiles, nil
}

// GetVenues reads data/venues.yml as a mapping.
func (s *Store) GetVenues() (map[string]any, error) {
	path := s.dataFile("venues.yml")
	raw, err := s.readOptional(path)
	if err != nil || raw == nil {
		return map[string]any{}, err
	}

	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	venues, ok := data.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return venues, nil
}
