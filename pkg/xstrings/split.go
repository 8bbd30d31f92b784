package xstrings

import (
	"regexp"
	"strings"
)

// SplitList splits a comma separated list, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	list := []string{}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			list = append(list, entry)
		}
	}
	return list
}

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9]`)
	dashRuns   = regexp.MustCompile(`-+`)
	slugFormat = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify lower-cases s, turns every character outside [a-z0-9] into a dash,
// collapses dash runs and trims leading and trailing dashes.
func Slugify(s string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	slug = dashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// IsSlug reports whether s is already in the form Slugify produces.
func IsSlug(s string) bool {
	return slugFormat.MatchString(s)
}
