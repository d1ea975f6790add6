package validators

import "strings"

// SanitizeString trims input, drops invalid UTF-8 and keeps at most maxLen runes.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.ToValidUTF8(strings.TrimSpace(input), "")
	if maxLen <= 0 {
		return trimmed
	}
	count := 0
	for i := range trimmed {
		if count == maxLen {
			return strings.TrimSpace(trimmed[:i])
		}
		count++
	}
	return trimmed
}
