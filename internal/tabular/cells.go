package tabular

import (
	"github.com/nconklindev/diffcheck/internal/grid"
	"github.com/nconklindev/diffcheck/internal/normalize"
)

// Verdict is the diff classification of one side of an aligned cell pair.
type Verdict int

const (
	Blank Verdict = iota
	Match
	Removed
	Added
)

func (v Verdict) String() string {
	switch v {
	case Match:
		return "match"
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "blank"
	}
}

// CellDiff is an aligned cell pair with the verdict for each side.
type CellDiff struct {
	Left         grid.Cell
	Right        grid.Cell
	LeftVerdict  Verdict
	RightVerdict Verdict
}

// Classify compares two values. Equality ignores case, punctuation and
// spacing; with numericCoercion two values that both parse as numbers are
// also equal when numerically equal.
//
// A differing pair is marked Removed on the left and Added on the right,
// each only where that side holds a value.
func Classify(left, right grid.Cell, numericCoercion bool) CellDiff {
	d := CellDiff{Left: left, Right: right}

	leftEmpty, rightEmpty := left.IsEmpty(), right.IsEmpty()
	if leftEmpty && rightEmpty {
		return d
	}

	if valuesEqual(left.Value, right.Value, numericCoercion) {
		d.LeftVerdict, d.RightVerdict = Match, Match
		return d
	}

	if !leftEmpty {
		d.LeftVerdict = Removed
	}
	if !rightEmpty {
		d.RightVerdict = Added
	}
	return d
}

func valuesEqual(a, b string, numericCoercion bool) bool {
	if normalize.Equal(a, b) {
		return true
	}
	if !numericCoercion {
		return false
	}
	x, okA := grid.ParseNumber(a)
	y, okB := grid.ParseNumber(b)
	return okA && okB && x == y
}

// Palette maps verdicts to fill colors (hex RGB, no leading #).
type Palette struct {
	Match   string
	Added   string
	Removed string
}

// DefaultPalette is yellow for matches, green for additions and red for
// removals.
func DefaultPalette() Palette {
	return Palette{Match: "FFFF00", Added: "C6EFCE", Removed: "FFC7CE"}
}

// Fill returns the fill color for v, or "" for no highlight.
func (p Palette) Fill(v Verdict) string {
	switch v {
	case Match:
		return p.Match
	case Added:
		return p.Added
	case Removed:
		return p.Removed
	default:
		return ""
	}
}
