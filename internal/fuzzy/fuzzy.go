package fuzzy

import "unicode/utf8"

// Match reports whether the runes of pattern appear in subject in the same
// order, not necessarily contiguously.
//
// Comparison is exact rune equality: no case folding and no normalization.
// A combining mark only matches the same combining mark, so "y̆" does
// not match "yaŏ".
func Match(pattern, subject string) bool {
	if pattern == "" {
		return true
	}
	if subject == "" {
		return false
	}

	// Longer patterns can never be contained
	if utf8.RuneCountInString(pattern) > utf8.RuneCountInString(subject) {
		return false
	}

	want, width := utf8.DecodeRuneInString(pattern)
	for _, r := range subject {
		if r != want {
			continue
		}
		pattern = pattern[width:]
		if pattern == "" {
			return true
		}
		want, width = utf8.DecodeRuneInString(pattern)
	}

	return false
}

// Filter returns the subjects matched by pattern, keeping their order.
func Filter(pattern string, subjects []string) []string {
	matched := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		if Match(pattern, subject) {
			matched = append(matched, subject)
		}
	}
	return matched
}
