package form

import (
	"regexp"
	"strings"
)

const MaxSlugLength = 120

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidSlug reports whether s is lowercase, hyphen separated and URL safe.
func ValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// Slugify derives a slug from a display name. It never returns an empty string.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonAlphaNum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength-16 {
		slug = strings.TrimRight(slug[:MaxSlugLength-16], "-")
	}
	if slug == "" {
		slug = "form"
	}
	return slug
}
