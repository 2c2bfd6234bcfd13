package services

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, turns every rune that is not a word character,
// whitespace, '.', '!' or '?' into a space, collapses whitespace runs and trims.
// Word characters are Unicode letters, numbers and '_'.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	cleaned := strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return ' '
	}, lowered)
	return strings.Join(strings.Fields(cleaned), " ")
}

func keepRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsSpace(r):
		return true
	case r == '_', r == '.', r == '!', r == '?':
		return true
	default:
		return false
	}
}

// countKeywords counts the keywords contained in normalized text.
// Each keyword counts once no matter how often it occurs, and matching is
// plain substring containment, so "down" also matches "downtown".
func countKeywords(normalized string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(normalized, keyword) {
			count++
		}
	}
	return count
}

// matchedKeywords returns the keywords contained in normalized text, in table order.
func matchedKeywords(normalized string, keywords []string) []string {
	var matched []string
	for _, keyword := range keywords {
		if strings.Contains(normalized, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}
