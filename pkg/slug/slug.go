package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "AirPods Pro (2nd Gen)" → "airpods-pro-2nd-gen"
//   - "  Hello   World!  " → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix appends a short suffix to a slug, used to disambiguate
// duplicate product names.
func WithSuffix(slug, suffix string) string {
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
