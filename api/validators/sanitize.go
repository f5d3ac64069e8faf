package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims input and caps it at maxLen bytes without splitting a
// rune. Invalid UTF-8 sequences are dropped.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.ToValidUTF8(strings.TrimSpace(input), "")
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}
