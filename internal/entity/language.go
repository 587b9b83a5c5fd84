package entity

import "strings"

// Language is a learner-configured language. Code uses ISO-style
// abbreviations ("en", "de", ...).
type Language struct {
	ID   int64
	Name string
	Code string
}

// NormalizeWordToken lowercases and trims a word for case-insensitive
// lookups against Term.TextLC.
func NormalizeWordToken(word string) string {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}
