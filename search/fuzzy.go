package search

import "strings"

// editDistanceAtMost reports whether the Levenshtein distance between a and b
// is at most max. Rows whose minimum already exceeds max stop the computation.
func editDistanceAtMost(a, b string, max int) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}

	ar := []rune(a)
	br := []rune(b)
	if abs(len(ar)-len(br)) > max {
		return false
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return false
		}
		prev, curr = curr, prev
	}
	return prev[len(br)] <= max
}

// tokenMatchScore scores query tokens against the combined product text.
// A token matches as a substring of combined, a prefix of a word, or (from
// three characters on) a word within edit distance 1, or 2 past five characters.
// Returns -1 when nothing matched.
func tokenMatchScore(tokens []string, combined string, words []string) int {
	if len(tokens) == 0 {
		return -1
	}

	matched := 0
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if tokenMatches(t, combined, words) {
			matched++
		}
	}

	switch {
	case matched == 0:
		return -1
	case matched < len(tokens):
		return 40 + matched*3
	default:
		return 70 + matched*3
	}
}

func tokenMatches(t, combined string, words []string) bool {
	if strings.Contains(combined, t) {
		return true
	}
	for _, w := range words {
		if strings.HasPrefix(w, t) {
			return true
		}
	}

	n := len([]rune(t))
	if n < 3 {
		return false
	}
	maxDist := 1
	if n > 5 {
		maxDist = 2
	}
	for _, w := range words {
		if editDistanceAtMost(t, w, maxDist) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
