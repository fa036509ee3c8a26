package catalog

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Slugify lowercases and trims name, strips everything but word characters, spaces and
// hyphens, then joins whitespace runs with a single hyphen.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = nonWord.ReplaceAllString(s, "")
	return whitespace.ReplaceAllString(s, "-")
}
