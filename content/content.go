// Package content holds the admin form transforms: slug generation, tag
// parsing and the derived fields computed before a record is saved.
package content

import (
	"regexp"
	"strings"

	"portfolio/models"
)

const wordsPerMinute = 200

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	dashes       = regexp.MustCompile(`-+`)
	validSlug    = regexp.MustCompile(`^[a-z0-9_]+(?:-[a-z0-9_]+)*$`)
)

// Slugify derives a URL segment from a title.
//
//	"My Cool Project!" → "my-cool-project"
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = dashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func IsValidSlug(s string) bool {
	return validSlug.MatchString(s)
}

// ParseTags splits "a, b, c" into ["a","b","c"], dropping empty entries.
func ParseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ReadTime estimates reading minutes for a markdown body. Never less than one.
func ReadTime(markdown string) int {
	words := len(strings.Fields(markdown))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func ValidStatus(status string) bool {
	return status == models.StatusDraft || status == models.StatusPublished
}

// NormalizeStatus defaults a blank status to draft.
func NormalizeStatus(status string) string {
	if status == "" {
		return models.StatusDraft
	}
	return status
}

// ResolveID returns the explicit id when given, otherwise the slug of title.
func ResolveID(id, title string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return Slugify(title)
}

// NormalizeEmail lowercases and trims an address before it is stored or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
