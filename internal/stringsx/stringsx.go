package stringsx

import (
	"html"
	"strings"
)

// Clip returns at most max characters of s.
// If max <= 0, an empty string is returned.
func Clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Normalize trims spaces and converts a string to lower case.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsEmpty reports whether s is empty after trimming spaces.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// StripTags removes markup tags from s and unescapes HTML entities,
// leaving plain text. An unclosed tag is dropped up to the end of the string.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return html.UnescapeString(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

// WordCount counts whitespace-separated words in the plain-text form of s.
func WordCount(s string) int {
	return len(strings.Fields(StripTags(s)))
}
