package content

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	listSeparatorRe = regexp.MustCompile(`[\s,;]+`)
	datePrefixRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)
)

// extra layouts JavaScript-style date parsing accepts and cast does not
var partialDateLayouts = []string{"2006-01", "2006"}

// NormalizeStringList flattens a string, sequence or mapping into a
// deduplicated list, keeping first-seen order. Strings split on
// whitespace, commas and semicolons.
func NormalizeStringList(v any) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	collectStrings(v, func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	})
	return out
}

func collectStrings(v any, emit func(string)) {
	switch val := v.(type) {
	case nil:
	case string:
		for _, part := range listSeparatorRe.Split(strings.TrimSpace(val), -1) {
			if part = strings.TrimSpace(part); part != "" {
				emit(part)
			}
		}
	case []string:
		for _, item := range val {
			collectStrings(item, emit)
		}
	case []any:
		for _, item := range val {
			collectStrings(item, emit)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectStrings(val[k], emit)
		}
	case bool:
	default:
		if s, err := cast.ToStringE(val); err == nil {
			collectStrings(s, emit)
		}
	}
}

// ParseDate converts a frontmatter value into a timestamp. Unparseable
// values yield nil.
func ParseDate(v any) *time.Time {
	switch d := v.(type) {
	case time.Time:
		return &d
	case *time.Time:
		return d
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return nil
		}
		if t, err := cast.ToTimeE(s); err == nil {
			return &t
		}
		for _, layout := range partialDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

// dateFromSlug parses the first n characters of a slug.
func dateFromSlug(slug string, n int) *time.Time {
	if len(slug) > n {
		slug = slug[:n]
	}
	return ParseDate(slug)
}

// StripDatePrefix removes a leading YYYY-MM-DD- from a slug.
func StripDatePrefix(slug string) string {
	return datePrefixRe.ReplaceAllString(slug, "")
}

func yearOf(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006")
}

// sortKey maps a missing date to the epoch.
func sortKey(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

// ReadingTime estimates minutes at 200 words per minute, never below one.
func ReadingTime(body string) (words, minutes int) {
	words = len(strings.Fields(body))
	minutes = int(math.Round(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return words, minutes
}

const wordsPerMinute = 200
