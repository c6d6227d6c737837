package pagediff

import "strings"

// Tokens splits text on whitespace into a set.
func Tokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		set[tok] = struct{}{}
	}
	return set
}

// SymmetricDifference returns the words that are in exactly one of the
// page's word list and the other page's whitespace-split text.
func SymmetricDifference(words []Word, otherText string) map[string]struct{} {
	own := make(map[string]struct{}, len(words))
	for _, w := range words {
		own[w.Text] = struct{}{}
	}
	other := Tokens(otherText)

	diff := make(map[string]struct{})
	for w := range own {
		if _, ok := other[w]; !ok {
			diff[w] = struct{}{}
		}
	}
	for w := range other {
		if _, ok := own[w]; !ok {
			diff[w] = struct{}{}
		}
	}
	return diff
}

// ChangedWords returns every occurrence in words whose text is in the
// symmetric difference against otherText, in page order. Position and count
// are ignored: a word found anywhere in otherText is never changed.
func ChangedWords(words []Word, otherText string) []Word {
	diff := SymmetricDifference(words, otherText)
	var changed []Word
	for _, w := range words {
		if _, ok := diff[w.Text]; ok {
			changed = append(changed, w)
		}
	}
	return changed
}
