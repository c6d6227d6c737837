package tabular

import (
	"sort"
	"strings"

	"github.com/nconklindev/diffcheck/internal/grid"
	"github.com/nconklindev/diffcheck/internal/normalize"

	"github.com/pmezard/go-difflib/difflib"
)

// MatchParams tunes column matching.
type MatchParams struct {
	WeightName float64
	WeightData float64
	MinScore   float64
	SampleSize int
}

// DefaultMatchParams returns the stock weights: data similarity dominates.
func DefaultMatchParams() MatchParams {
	return MatchParams{
		WeightName: 0.25,
		WeightData: 0.75,
		MinScore:   0.20,
		SampleSize: 40,
	}
}

// ColumnPair is one accepted file-1 to file-2 header match.
type ColumnPair struct {
	Left      string
	Right     string
	Score     float64
	NameScore float64
	DataScore float64
}

// ColumnMatch is a one-to-one partial mapping between header sets.
type ColumnMatch struct {
	pairs   []ColumnPair
	byLeft  map[string]int
	byRight map[string]int
}

func newColumnMatch() *ColumnMatch {
	return &ColumnMatch{byLeft: make(map[string]int), byRight: make(map[string]int)}
}

// Partner returns the file-2 header matched to left.
func (m *ColumnMatch) Partner(left string) (string, bool) {
	i, ok := m.byLeft[left]
	if !ok {
		return "", false
	}
	return m.pairs[i].Right, true
}

// Source returns the file-1 header matched to right.
func (m *ColumnMatch) Source(right string) (string, bool) {
	i, ok := m.byRight[right]
	if !ok {
		return "", false
	}
	return m.pairs[i].Left, true
}

// Pairs returns the accepted matches in acceptance order.
func (m *ColumnMatch) Pairs() []ColumnPair {
	return m.pairs
}

func (m *ColumnMatch) Len() int {
	return len(m.pairs)
}

// MatchColumns scores every header pair as
// WeightName*nameSimilarity + WeightData*jaccard(samples) and accepts pairs
// greedily from the highest score down, skipping headers already taken.
// Equal scores keep enumeration order: file-1 headers left to right, then
// file-2 headers left to right.
func MatchColumns(headers1, headers2 *HeaderMap, g1, g2 grid.Grid, params MatchParams) *ColumnMatch {
	samples1 := make(map[string][]string, headers1.Len())
	for _, h := range headers1.Headers() {
		samples1[h.Norm] = SampleColumn(g1, h.Row, h.Col, params.SampleSize)
	}
	samples2 := make(map[string][]string, headers2.Len())
	for _, h := range headers2.Headers() {
		samples2[h.Norm] = SampleColumn(g2, h.Row, h.Col, params.SampleSize)
	}

	scores := make([]ColumnPair, 0, headers1.Len()*headers2.Len())
	for _, h1 := range headers1.Headers() {
		for _, h2 := range headers2.Headers() {
			nameScore := NameSimilarity(h1.Display, h2.Display)
			dataScore := Jaccard(samples1[h1.Norm], samples2[h2.Norm])
			scores = append(scores, ColumnPair{
				Left:      h1.Norm,
				Right:     h2.Norm,
				Score:     params.WeightName*nameScore + params.WeightData*dataScore,
				NameScore: nameScore,
				DataScore: dataScore,
			})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	match := newColumnMatch()
	for _, pair := range scores {
		if pair.Score < params.MinScore {
			break
		}
		if _, taken := match.byLeft[pair.Left]; taken {
			continue
		}
		if _, taken := match.byRight[pair.Right]; taken {
			continue
		}
		match.byLeft[pair.Left] = len(match.pairs)
		match.byRight[pair.Right] = len(match.pairs)
		match.pairs = append(match.pairs, pair)
	}

	return match
}

// SampleColumn collects up to size normalized non-empty values below
// headerRow, scanning at most size*5 rows so sparse columns still yield a
// sample.
func SampleColumn(g grid.Grid, headerRow, col, size int) []string {
	var values []string
	last := headerRow + size*5
	if last > g.MaxRow() {
		last = g.MaxRow()
	}
	for r := headerRow + 1; r <= last; r++ {
		cell := g.Cell(r, col)
		if cell.IsEmpty() {
			continue
		}
		norm := normalize.Normalize(cell.Value)
		if norm == "" {
			continue
		}
		values = append(values, norm)
		if len(values) >= size {
			break
		}
	}
	return values
}

// Jaccard returns |A∩B|/|A∪B| over the distinct values. Two empty samples
// are identical (1.0); exactly one empty sample shares nothing (0.0).
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	inter := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// NameSimilarity is the case-insensitive SequenceMatcher ratio of two
// display names, 0 when either is empty.
func NameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b))).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
