package util

import (
	"strings"
	"unicode"
)

// CleanText trims surrounding whitespace and drops control characters.
func CleanText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// NormalizeEmail returns the canonical form used for lookups and storage.
func NormalizeEmail(s string) string {
	return strings.ToLower(CleanText(s))
}

// SanitizeEnvValue cleans an environment variable value by removing
// surrounding quotes and whitespace.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
