package parsing

import (
	"strings"
	"unicode/utf8"
)

// NormalizeItem strips markdown bold markers and wrapping quotes from an item and
// collapses internal whitespace.
func NormalizeItem(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// truncateRunes shortens s to at most max runes.
func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}

// normalizeItems normalizes, length-filters and deduplicates items, keeping
// the first occurrence. Items shorter than minLen runes are dropped and
// items longer than maxLen are truncated.
func normalizeItems(items []string, minLen, maxLen int) []string {
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		normalized := NormalizeItem(item)
		if normalized == "" || utf8.RuneCountInString(normalized) < minLen {
			continue
		}
		normalized = truncateRunes(normalized, maxLen)

		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, normalized)
	}
	return out
}
