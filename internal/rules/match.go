// Package rules implements the declarative rule model: loading and
// validating rule sets, evaluating rule conditions against files, and
// resolving which single rule applies to a file.
package rules

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/gobwas/glob"

	"declutter/internal/analysis"
	log "declutter/internal/log"
	"declutter/pkg/types"
)

const dateLayout = "2006-01-02"

// Default bounds for open-ended date ranges.
var (
	minDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Evaluator decides whether a file satisfies a rule's conditions.
// Evaluation never fails: a malformed pattern or unreadable metadata
// degrades the affected sub-condition to false.
type Evaluator struct {
	analysis *analysis.Engine
}

// NewEvaluator creates an evaluator backed by the given analysis engine
func NewEvaluator(engine *analysis.Engine) *Evaluator {
	return &Evaluator{analysis: engine}
}

// Matches reports whether the file at path satisfies the conditions.
// Present sub-conditions are folded with OR when c.Any is set, AND
// otherwise. A condition block with no sub-conditions matches any file.
func (ev *Evaluator) Matches(path string, c *types.Conditions) bool {
	var results []bool

	if c.Filename != "" {
		results = append(results, matchFilename(path, c.Filename))
	}
	if len(c.Extensions) > 0 {
		results = append(results, matchExtensions(path, c.Extensions))
	}
	if c.Path != "" {
		results = append(results, matchPathGlob(path, c.Path))
	}
	if c.SizeKB != nil {
		results = append(results, matchSize(path, c.SizeKB))
	}
	if c.MimeType != "" {
		results = append(results, matchMime(path, c.MimeType))
	}
	if c.CreatedDate != nil {
		results = append(results, matchCreated(path, c.CreatedDate))
	}
	if c.ModifiedDate != nil {
		results = append(results, matchModified(path, c.ModifiedDate))
	}
	if c.IsSymlink != nil {
		results = append(results, matchSymlink(path, *c.IsSymlink))
	}
	if len(c.Metadata) > 0 {
		// The metadata list is one AND-ed unit even under an outer OR
		results = append(results, ev.matchMetadata(path, c.Metadata))
	}

	if len(results) == 0 {
		return true // No constraints present
	}

	if c.Any {
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}
	for _, r := range results {
		if !r {
			return false
		}
	}
	return true
}

// matchFilename matches the base name against a case-sensitive regex
func matchFilename(path, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		log.LogWithFields(log.F("pattern", pattern)).Debugf("invalid filename regex: %v", err)
		return false
	}
	return re.MatchString(filepath.Base(path))
}

// matchExtensions matches the dotless extension against the set
func matchExtensions(path string, extensions []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// matchPathGlob matches the full path string against a glob
func matchPathGlob(path, pattern string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		log.LogWithFields(log.F("pattern", pattern)).Debugf("invalid path glob: %v", err)
		return false
	}
	return g.Match(path)
}

// matchSize checks the byte length against an inclusive KB range
func matchSize(path string, r *types.SizeRange) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	size := info.Size()

	var min int64
	if r.MinKB != nil {
		min = int64(*r.MinKB) * 1024
	}
	if size < min {
		return false
	}
	if r.MaxKB != nil && size > int64(*r.MaxKB)*1024 {
		return false
	}
	return true
}

// matchMime matches the extension-guessed MIME type, exactly or
// against a "type/*" wildcard
func matchMime(path, want string) bool {
	got := analysis.MimeByExtension(path)
	if got == "" {
		return false
	}
	if strings.HasSuffix(want, "/*") {
		return strings.HasPrefix(got, strings.TrimSuffix(want, "*"))
	}
	return got == want
}

func matchCreated(path string, r *types.DateRange) bool {
	ts, err := times.Stat(path)
	if err != nil || !ts.HasBirthTime() {
		return false
	}
	return inDateRange(ts.BirthTime(), r)
}

func matchModified(path string, r *types.DateRange) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return inDateRange(info.ModTime(), r)
}

// inDateRange compares date-only (UTC) against the range bounds.
// An unparsable bound degrades the sub-condition to false.
func inDateRange(t time.Time, r *types.DateRange) bool {
	from, to := minDate, maxDate
	if r.From != "" {
		parsed, err := time.Parse(dateLayout, r.From)
		if err != nil {
			return false
		}
		from = parsed
	}
	if r.To != "" {
		parsed, err := time.Parse(dateLayout, r.To)
		if err != nil {
			return false
		}
		to = parsed
	}
	day := t.UTC().Truncate(24 * time.Hour)
	return !day.Before(from) && !day.After(to)
}

// matchSymlink compares the unresolved (Lstat) symlink flag
func matchSymlink(path string, want bool) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	isLink := info.Mode()&os.ModeSymlink != 0
	return isLink == want
}

// matchMetadata requires every listed field to exist in the file's
// metadata mapping (case-insensitive key match) and, where a glob
// value is given, to match it. A missing metadata source fails the
// whole unit.
func (ev *Evaluator) matchMetadata(path string, fields []types.MetadataField) bool {
	meta, err := ev.analysis.Metadata(path)
	if err != nil {
		return false
	}

	for _, field := range fields {
		value, ok := lookupFold(meta, field.Key)
		if !ok {
			return false
		}
		if field.Value != "" {
			g, err := glob.Compile(field.Value)
			if err != nil {
				log.LogWithFields(log.F("pattern", field.Value)).Debugf("invalid metadata glob: %v", err)
				return false
			}
			if !g.Match(value) {
				return false
			}
		}
	}
	return true
}

// lookupFold finds a metadata value by case-insensitive key
func lookupFold(meta map[string]string, key string) (string, bool) {
	if v, ok := meta[key]; ok {
		return v, true
	}
	for k, v := range meta {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
