package errors

import (
	"fmt"
	"strings"
)

// Suggest returns a "Did you mean" hint for an unknown word, or a list of the
// valid words when nothing is close enough.
func Suggest(unknown string, valid []string) string {
	if len(valid) == 0 {
		return ""
	}

	minDistance := -1
	var bestMatch string
	for _, v := range valid {
		dist := levenshteinDistance(strings.ToLower(unknown), strings.ToLower(v))
		if minDistance < 0 || dist < minDistance {
			minDistance = dist
			bestMatch = v
		}
	}

	if minDistance < 4 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	return fmt.Sprintf("Valid values: %s", strings.Join(valid, ", "))
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
