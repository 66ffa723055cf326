package fuzzy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// peelMatch is the slower recursive formulation: find the first pattern rune,
// then recurse on what follows it in both sequences.
func peelMatch(pattern, subject []rune) bool {
	if len(pattern) == 0 {
		return true
	}
	if len(subject) == 0 || len(subject) < len(pattern) {
		return false
	}
	for i, r := range subject {
		if r == pattern[0] {
			return peelMatch(pattern[1:], subject[i+1:])
		}
	}
	return false
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		subject  string
		expected bool
		reason   string
	}{
		// Empty inputs
		{"", "", true, "empty pattern, empty subject"},
		{"", "anything", true, "empty pattern"},
		{"a", "", false, "empty subject"},

		// Exact and prefix matches
		{"string", "string", true, "exact match"},
		{"str", "string", true, "first three letters"},
		{"longer", "a", false, "pattern longer than subject"},

		// Ordering
		{"tac", "cat", false, "reversed letters"},
		{"Super.cs", "SuperAwesomeClass.cs", true, "file name"},
		{"fu_rch_match", "fuzzy_search_match", true, "gaps between runs"},
		{"abc", "abcdefg", true, "leading subsequence"},
		{"abc", "Alaska Beer Crusade", false, "case sensitive"},
		{"aa", "a", false, "repeated rune needs two occurrences"},
		{"aa", "aba", true, "repeated rune with gap"},

		// Multi-byte runes
		{"老虎é", "Löwe 老虎 Léopard", true, "CJK and accented latin"},
		{"Löwe 老虎 Léopard", "Löwe 老虎 Léopard", true, "exact multi-byte"},
		{"Löwe 老虎", "Löwe 老虎 Léopard", true, "spaces"},
		{"虎老", "老虎", false, "reversed CJK"},

		// Combining marks are separate runes
		{"y\u0306", "ya\u014f", false, "breve attached to another base"},
		{"y\u0306", "yao\u0306", true, "decomposed breve is its own rune"},
		{"y\u0306", "yay\u0306", true, "breve following y"},
		{"\u00e9", "e\u0301", false, "precomposed vs decomposed"},
		{"e\u0301", "\u00e9", false, "decomposed vs precomposed"},
	}

	for _, tt := range tests {
		result := Match(tt.pattern, tt.subject)
		if result != tt.expected {
			t.Errorf("Match(%q, %q) = %v, expected %v (%s)",
				tt.pattern, tt.subject, result, tt.expected, tt.reason)
		}
	}
}

func TestMatchAgreesWithPeel(t *testing.T) {
	corpus := []string{
		"", "a", "ab", "ba", "aab", "abc", "cat", "tac", "string", "str",
		"Löwe 老虎 Léopard", "老虎é", "yay̆", "yaŏ", "y̆",
		"SuperAwesomeClass.cs", "Super.cs", "\xff\xfe", "a\xffb",
	}

	for _, pattern := range corpus {
		for _, subject := range corpus {
			expected := peelMatch([]rune(pattern), []rune(subject))
			require.Equal(t, expected, Match(pattern, subject), "pattern=%q subject=%q", pattern, subject)
		}
	}
}

func TestMatchProperties(t *testing.T) {
	subjects := []string{"", "x", "string", "Löwe 老虎 Léopard", "yaŏ"}

	for _, s := range subjects {
		require.True(t, Match("", s), "empty pattern must match %q", s)
		require.True(t, Match(s, s), "reflexive on %q", s)
		require.False(t, Match(s+"z", s), "longer pattern must not match %q", s)
		if s != "" {
			require.False(t, Match(s, ""), "non-empty pattern %q against empty subject", s)
		}
	}
}

func TestMatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !Match("老虎é", "Löwe 老虎 Léopard") {
					t.Error("expected match")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFilter(t *testing.T) {
	subjects := []string{"fuzzy_match", "fuzzy_filter", "fahrenheit_to_celsius", "tool_search"}

	require.Equal(t, []string{"fuzzy_match", "fuzzy_filter"}, Filter("fzy", subjects))
	require.Equal(t, subjects, Filter("", subjects))
	require.Empty(t, Filter("xyz", subjects))
	require.Empty(t, Filter("a", nil))

	// Input is left untouched
	require.Equal(t, "fuzzy_match", subjects[0])
}
