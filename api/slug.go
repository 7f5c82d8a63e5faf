package api

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// slugify normalizes a title into a URL-safe slug: lowercase, runs of
// non-alphanumerics collapsed into single hyphens.
func slugify(title string) string {
	base := strings.ToLower(title)
	base = nonAlnum.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		return "post"
	}
	return base
}
