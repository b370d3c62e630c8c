// Package bibtex turns a BibTeX bibliography into normalized publication
// records grouped by year.
package bibtex

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// NoYear is the group for entries without a year field.
const NoYear = "No year"

var recognizedFields = map[string]bool{
	"title": true, "year": true, "author": true, "journal": true, "booktitle": true,
	"publisher": true, "url": true, "pdf": true, "html": true, "selected": true, "bibtex_show": true,
}

// Parse runs the whole pipeline: frontmatter strip, @string extraction,
// macro substitution, grammar parse, normalization.
func Parse(raw string) ([]models.Publication, error) {
	body := StripFrontmatter(raw)
	body, macros := ExtractStrings(body)
	body = ApplyMacros(body, macros)

	entries, err := ParseEntries(body)
	if err != nil {
		return nil, err
	}

	pubs := make([]models.Publication, 0, len(entries))
	for _, e := range entries {
		pubs = append(pubs, Normalize(e, macros))
	}
	return pubs, nil
}

// ParseGrouped is Parse followed by GroupByYear.
func ParseGrouped(raw string) ([]models.PublicationGroup, error) {
	pubs, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return GroupByYear(pubs), nil
}

// Normalize resolves field values and fills the publication record.
func Normalize(e Entry, macros Macros) models.Publication {
	value := func(name string) string {
		raw, ok := e.Fields[name]
		if !ok {
			return ""
		}
		return resolveValue(raw, macros)
	}

	id := e.Key
	if id == "" {
		id = e.Fields["id"]
	}
	if id == "" {
		id = "entry"
	}
	typ := e.Type
	if typ == "" {
		typ = "article"
	}
	title := value("title")
	if title == "" {
		title = "Untitled"
	}
	venue := value("journal")
	if venue == "" {
		venue = value("booktitle")
	}
	if venue == "" {
		venue = value("publisher")
	}

	// an explicit selected field wins, bibtex_show is only the fallback
	selectedRaw, ok := e.Fields["selected"]
	if !ok {
		selectedRaw, ok = e.Fields["bibtex_show"]
	}
	if !ok {
		selectedRaw = "false"
	}

	extra := make(map[string]string)
	for _, name := range e.Order {
		if recognizedFields[name] {
			continue
		}
		if v := value(name); v != "" {
			extra[name] = v
		} else {
			extra[name] = e.Fields[name]
		}
	}

	return models.Publication{
		ID:       id,
		Title:    title,
		Authors:  value("author"),
		Year:     value("year"),
		Type:     typ,
		Venue:    venue,
		URL:      value("url"),
		PDF:      value("pdf"),
		HTML:     value("html"),
		Selected: strings.EqualFold(strings.TrimSpace(selectedRaw), "true"),
		Extra:    extra,
	}
}

func resolveValue(raw string, macros Macros) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if v, ok := macros[strings.ToLower(trimmed)]; ok {
		return v
	}
	return StripWrapping(trimmed)
}

// GroupByYear buckets publications by year. Groups are ordered by the
// leading integer of the year, descending; unparsable years count as 0.
// Entries are ordered by title.
func GroupByYear(pubs []models.Publication) []models.PublicationGroup {
	var groups []models.PublicationGroup
	index := make(map[string]int)
	for _, p := range pubs {
		year := p.Year
		if year == "" {
			year = NoYear
		}
		i, ok := index[year]
		if !ok {
			i = len(groups)
			index[year] = i
			groups = append(groups, models.PublicationGroup{Year: year})
		}
		groups[i].Entries = append(groups[i].Entries, p)
	}

	col := collate.New(language.English)
	for _, g := range groups {
		sort.SliceStable(g.Entries, func(a, b int) bool {
			return col.CompareString(g.Entries[a].Title, g.Entries[b].Title) < 0
		})
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return leadingInt(groups[a].Year) > leadingInt(groups[b].Year)
	})
	return groups
}

// leadingInt parses an optional sign and leading digits, 0 when absent.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
