package report

import (
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips characters that are unsafe in file names,
// collapses whitespace to underscores and caps the length. Group names
// routinely contain emoji and punctuation; the result must stay a valid
// path segment on every platform.
func SanitizeFilename(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "_")
	safe = whitespace.ReplaceAllString(strings.TrimSpace(safe), "_")
	safe = strings.Trim(safe, ".")

	if runes := []rune(safe); len(runes) > 50 {
		safe = string(runes[:50])
	}
	if safe == "" {
		return "unknown_group"
	}
	return safe
}
