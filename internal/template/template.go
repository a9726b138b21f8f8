// Package template expands {{...}} placeholders in rename templates
// and destination paths. Expansion is total: unknown keys become empty
// strings and malformed filter input passes through unchanged.
package template

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Layouts accepted by the date filter, tried in order. EXIF carries
// its own colon-separated timestamp format.
var dateLayouts = []string{
	time.RFC3339,
	"2006:01:02 15:04:05",
}

// Expand substitutes every {{key|filter...}} token in tmpl. Supported
// keys: "filename" (the file's base name without extension) and
// "metadata.<k>" looked up case-insensitively in meta. Unknown keys
// yield an empty substitution.
func Expand(tmpl, path string, meta map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(token string) string {
		expr := strings.TrimSpace(placeholderRe.FindStringSubmatch(token)[1])
		segments := strings.Split(expr, "|")

		value := resolveKey(strings.TrimSpace(segments[0]), path, meta)
		for _, filter := range segments[1:] {
			value = applyFilter(strings.TrimSpace(filter), value)
		}
		return value
	})
}

func resolveKey(key, path string, meta map[string]string) string {
	switch {
	case key == "filename":
		name := filepath.Base(path)
		return strings.TrimSuffix(name, filepath.Ext(name))
	case strings.HasPrefix(key, "metadata."):
		want := strings.TrimPrefix(key, "metadata.")
		if v, ok := meta[want]; ok {
			return v
		}
		for k, v := range meta {
			if strings.EqualFold(k, want) {
				return v
			}
		}
		return ""
	default:
		return ""
	}
}

// applyFilter applies one pipe segment to a value. The only filter is
// date:<layout>, which reparses the value and reformats it; a value
// that parses as neither RFC3339 nor an EXIF timestamp is left as is.
func applyFilter(filter, value string) string {
	if !strings.HasPrefix(filter, "date:") {
		return value
	}
	layout := strings.TrimPrefix(filter, "date:")

	for _, parse := range dateLayouts {
		if t, err := time.Parse(parse, value); err == nil {
			return t.Format(layout)
		}
	}
	return value
}

// ExpandDateTokens fills literal {year}/{month}/{day} tokens in a
// destination path from the given time. This is a separate, simpler
// pass than the {{...}} placeholder syntax.
func ExpandDateTokens(path string, now time.Time) string {
	r := strings.NewReplacer(
		"{year}", now.Format("2006"),
		"{month}", now.Format("01"),
		"{day}", now.Format("02"),
	)
	return r.Replace(path)
}
