package form

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
)

// Slugify derives the document id of a category: lowercase, whitespace runs
// become "_", anything outside [A-Za-z0-9_-] is dropped.
func Slugify(categoryName string) string {
	s := strings.ToLower(categoryName)
	s = whitespaceRun.ReplaceAllString(s, "_")
	return nonSlugChars.ReplaceAllString(s, "")
}
