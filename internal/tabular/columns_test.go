package tabular

import (
	"math"
	"testing"

	"github.com/nconklindev/diffcheck/internal/grid"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"Both empty", nil, nil, 1.0},
		{"Left empty", nil, []string{"a"}, 0.0},
		{"Right empty", []string{"a"}, nil, 0.0},
		{"Identical", []string{"a", "b"}, []string{"b", "a"}, 1.0},
		{"Disjoint", []string{"a"}, []string{"b"}, 0.0},
		{"Half", []string{"a", "b"}, []string{"b", "c", "a", "d"}, 0.5},
		{"Duplicates ignored", []string{"a", "a", "b"}, []string{"a"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Jaccard(%v, %v) = %f; want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"Case insensitive", "Name", "NAME", 1.0},
		{"Empty", "", "Name", 0.0},
		{"Disjoint", "ID", "xyz", 0.0},
		{"Partial", "abcd", "abxy", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NameSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("NameSimilarity(%q, %q) = %f; want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSampleColumn(t *testing.T) {
	records := [][]string{{"Code"}}
	for i := 0; i < 20; i++ {
		records = append(records, []string{""})
	}
	records = append(records, []string{"A-1"}, []string{"B 2"}, []string{"c3"})
	g := grid.FromStrings(records)

	t.Run("Skips blanks within scan window", func(t *testing.T) {
		got := SampleColumn(g, 1, 1, 5)
		want := []string{"a 1", "b 2", "c3"}
		if len(got) != len(want) {
			t.Fatalf("SampleColumn = %v; want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("sample[%d] = %q; want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("Scan window bounded", func(t *testing.T) {
		if got := SampleColumn(g, 1, 1, 2); len(got) != 0 {
			t.Errorf("SampleColumn(size 2) = %v; want empty (window ends at row 11)", got)
		}
	})

	t.Run("Sample capped at size", func(t *testing.T) {
		if got := SampleColumn(g, 1, 1, 100); len(got) != 3 {
			t.Errorf("SampleColumn(size 100) = %v; want 3 values", got)
		}
		if got := SampleColumn(g, 21, 1, 2); len(got) != 2 {
			t.Errorf("SampleColumn from row 21 = %v; want 2 values", got)
		}
	})
}

func TestMatchColumns(t *testing.T) {
	g1 := grid.FromStrings([][]string{
		{"ID", "Name", "City"},
		{"1", "Ann", "Oslo"},
		{"2", "Bob", "Rome"},
		{"3", "Cid", "Lima"},
	})
	g2 := grid.FromStrings([][]string{
		{"Town", "Identifier", "Full Name", "Notes"},
		{"Oslo", "1", "Ann", "x"},
		{"Rome", "2", "Bob", "y"},
		{"Lima", "3", "Cid", "z"},
	})
	h1, h2 := Extract(g1, 1), Extract(g2, 1)
	params := DefaultMatchParams()

	match := MatchColumns(h1, h2, g1, g2, params)

	want := map[string]string{"id": "identifier", "name": "full name", "city": "town"}
	for left, right := range want {
		if got, ok := match.Partner(left); !ok || got != right {
			t.Errorf("Partner(%q) = %q, %v; want %q", left, got, ok, right)
		}
	}
	if _, ok := match.Source("notes"); ok {
		t.Errorf("notes should stay unmatched")
	}

	seenLeft := make(map[string]bool)
	seenRight := make(map[string]bool)
	for _, p := range match.Pairs() {
		if seenLeft[p.Left] || seenRight[p.Right] {
			t.Errorf("pair %+v reuses a header", p)
		}
		seenLeft[p.Left], seenRight[p.Right] = true, true
		if p.Score < params.MinScore {
			t.Errorf("pair %+v below min score %f", p, params.MinScore)
		}
	}
}

func TestMatchColumnsMinScore(t *testing.T) {
	g1 := grid.FromStrings([][]string{{"Alpha"}, {"1"}})
	g2 := grid.FromStrings([][]string{{"Zed"}, {"9"}})
	params := DefaultMatchParams()
	params.MinScore = 0.5

	match := MatchColumns(Extract(g1, 1), Extract(g2, 1), g1, g2, params)
	if match.Len() != 0 {
		t.Errorf("MatchColumns accepted %+v; want none below min score", match.Pairs())
	}
}
