package pdf

import (
	"image"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/tabula/text"

	"github.com/nconklindev/diffcheck/internal/pagediff"
)

// descent is the share of the font size drawn below the baseline.
const descent = 0.2

// MediaBox is a page's [llx lly urx ury] box in PDF points.
type MediaBox [4]float64

// FragmentWords splits positioned text fragments into words and converts
// their boxes from PDF space (origin bottom-left, points) into raster pixels
// (origin top-left) at the given scale. A fragment's width is shared among
// its runes evenly.
func FragmentWords(frags []text.TextFragment, box MediaBox, scale float64) []pagediff.Word {
	var words []pagediff.Word
	for _, f := range frags {
		total := utf8.RuneCountInString(f.Text)
		if total == 0 {
			continue
		}
		runeWidth := f.Width / float64(total)
		top := box[3] - (f.Y + f.Height)
		bottom := box[3] - (f.Y - f.Height*descent)

		for _, span := range fieldSpans(f.Text) {
			x0 := f.X - box[0] + float64(span.start)*runeWidth
			x1 := f.X - box[0] + float64(span.end)*runeWidth
			words = append(words, pagediff.Word{
				Text: span.text,
				Box: image.Rect(
					int(math.Floor(x0*scale)), int(math.Floor(top*scale)),
					int(math.Ceil(x1*scale)), int(math.Ceil(bottom*scale)),
				),
			})
		}
	}
	return words
}

type span struct {
	text       string
	start, end int
}

// fieldSpans is strings.Fields with rune offsets.
func fieldSpans(s string) []span {
	var spans []span
	var b strings.Builder
	start, pos := -1, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{text: b.String(), start: start, end: pos})
				b.Reset()
				start = -1
			}
		} else {
			if start < 0 {
				start = pos
			}
			b.WriteRune(r)
		}
		pos++
	}
	if start >= 0 {
		spans = append(spans, span{text: b.String(), start: start, end: pos})
	}
	return spans
}
