package fuzzy

import "strings"

// Match reports whether query approximately occurs in text. Both inputs are
// normalized first; the checks run cheapest first and stop at the first hit:
// substring containment, whole-text edit distance of at most one, then a
// subsequence scan tolerating a single error.
func Match(query, text string) bool {
	q := Normalize(query)
	t := Normalize(text)
	return Contains(q, t) || WithinOneEdit(q, t) || SubsequenceWithOneError(q, t)
}

// Contains reports whether text contains query as a contiguous substring. An
// empty query is always contained.
func Contains(query, text string) bool {
	return strings.Contains(text, query)
}

// WithinOneEdit reports whether query and text, compared in full, are at most
// one insertion, deletion or substitution apart.
func WithinOneEdit(query, text string) bool {
	return Levenshtein(query, text) <= 1
}

// Levenshtein returns the unit-cost edit distance between a and b, counted in
// runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
				continue
			}
			matrix[i][j] = 1 + min(
				matrix[i-1][j],   // deletion
				matrix[i][j-1],   // insertion
				matrix[i-1][j-1], // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// SubsequenceWithOneError walks text consuming query in order. The first
// mismatch is repaired once, preferring to skip a text rune, then to skip a
// query rune, then to treat it as a substitution; any later mismatch rejects.
// The scan accepts when at most one trailing query rune is left unconsumed.
func SubsequenceWithOneError(query, text string) bool {
	q, t := []rune(query), []rune(text)
	qi := 0
	repaired := false

	for i := 0; i < len(t) && qi < len(q); i++ {
		if t[i] == q[qi] {
			qi++
			continue
		}
		if repaired {
			return false
		}
		repaired = true
		switch {
		case i+1 < len(t) && t[i+1] == q[qi]:
			qi++
			i++
		case qi+1 < len(q) && t[i] == q[qi+1]:
			qi += 2
		default:
			qi++
		}
	}

	return qi >= len(q)-1
}
