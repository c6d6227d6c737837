// Package normalize canonicalizes header names and key values so that
// punctuation, spacing and case do not affect matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize replaces every character outside the word/whitespace class with
// a space, collapses runs of whitespace, trims and case-folds.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// Fold first so that folding can never reintroduce characters the
	// filter below would strip.
	folded := cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if isWord(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Equal reports whether a and b normalize to the same text.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}
