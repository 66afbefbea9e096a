// Package strsim provides the last-resort name-similarity signal used when
// higher-precedence equality tests (exact, core-match, variant-match) have
// failed: normalized Levenshtein similarity with punctuation folded out
// (spec.md §4.3).
package strsim

import "strings"

// Similarity returns a normalized Levenshtein similarity in [0,1] between a
// and b after stripping "_" and "-". Identical strings return 1.0; an
// empty operand returns 0.0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	na := fold(a)
	nb := fold(b)

	if na == nb {
		return 1.0
	}

	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	if maxLen == 0 {
		return 0.0
	}

	dist := levenshteinDistance(na, nb)
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0.0
	}
	return sim
}

func fold(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// levenshteinDistance computes the classic edit distance using a
// single-row DP table for space efficiency.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = minInt(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func minInt(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
