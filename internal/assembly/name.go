package assembly

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Slug reduces a display name to a lowercase, hyphen-separated identifier
// safe for filenames.
func Slug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// DisplayName turns a slug or free-form name into a presentable title.
func DisplayName(name string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}

// OutputFileName derives the unique on-disk name for a merged episode from
// its display name, the configured container format, and the merge time.
func OutputFileName(name, format string, now time.Time) string {
	slug := Slug(name)
	if slug == "" {
		slug = "episode"
	}
	return slug + "-" + now.UTC().Format("20060102-150405") + "." + format
}
