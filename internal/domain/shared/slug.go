package shared

import (
	"regexp"
	"strings"
)

var (
	slugWhitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	slugInvalid    = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	slugHyphens    = regexp.MustCompile(`-{2,}`)
)

// Slugify turns free text into a lower-case, hyphenated URL identifier.
// Whitespace runs become a single hyphen, anything outside [A-Za-z0-9_-] is
// dropped and hyphen runs are collapsed. The result never starts or ends with
// a hyphen, and Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is already in slug form
func IsValidSlug(s string) bool {
	return s != "" && Slugify(s) == s
}
