// Package tabular aligns two spreadsheets by schema and key and classifies
// every aligned cell pair.
package tabular

import (
	"sort"
	"strings"

	"github.com/nconklindev/diffcheck/internal/grid"
	"github.com/nconklindev/diffcheck/internal/normalize"
	"github.com/nconklindev/diffcheck/internal/types"
)

// Location is the row and column where a header was found.
type Location struct {
	Row int
	Col int
}

// Header is one entry of a header row.
type Header struct {
	Norm    string
	Row     int
	Col     int
	Display string
}

// HeaderMap maps normalized header text to its cell in a single header row.
// Iteration order is left to right.
type HeaderMap struct {
	headers []Header
	index   map[string]int
}

func newHeaderMap() *HeaderMap {
	return &HeaderMap{index: make(map[string]int)}
}

func (m *HeaderMap) add(h Header) bool {
	if _, ok := m.index[h.Norm]; ok {
		return false
	}
	m.index[h.Norm] = len(m.headers)
	m.headers = append(m.headers, h)
	return true
}

// Get returns the header with the given normalized text.
func (m *HeaderMap) Get(norm string) (Header, bool) {
	i, ok := m.index[norm]
	if !ok {
		return Header{}, false
	}
	return m.headers[i], true
}

// Has reports whether norm is present.
func (m *HeaderMap) Has(norm string) bool {
	_, ok := m.index[norm]
	return ok
}

// Headers returns the headers left to right.
func (m *HeaderMap) Headers() []Header {
	return m.headers
}

func (m *HeaderMap) Len() int {
	return len(m.headers)
}

// Locate finds the cell holding the normalized header target. Candidates in
// the first topRowsPreferred rows win over any further down; within a tier
// the row with the most textual cells wins, then the smallest row, then the
// smallest column.
func Locate(g grid.Grid, target string, topRowsPreferred int) (Location, error) {
	type candidate struct {
		row, col, textual int
	}

	var candidates []candidate
	textualCounts := make(map[int]int)
	for r := 1; r <= g.MaxRow(); r++ {
		for c := 1; c <= g.MaxCol(); c++ {
			cell := g.Cell(r, c)
			if !cell.IsText() || normalize.Normalize(cell.Value) != target {
				continue
			}
			count, ok := textualCounts[r]
			if !ok {
				count = countTextual(g, r)
				textualCounts[r] = count
			}
			candidates = append(candidates, candidate{row: r, col: c, textual: count})
		}
	}

	if len(candidates) == 0 {
		return Location{}, &types.HeaderNotFoundError{Header: target}
	}

	var pool []candidate
	for _, cand := range candidates {
		if cand.row <= topRowsPreferred {
			pool = append(pool, cand)
		}
	}
	if len(pool) == 0 {
		pool = candidates
	}

	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.textual != b.textual {
			return a.textual > b.textual
		}
		if a.row != b.row {
			return a.row < b.row
		}
		return a.col < b.col
	})

	return Location{Row: pool[0].row, Col: pool[0].col}, nil
}

func countTextual(g grid.Grid, row int) int {
	count := 0
	for c := 1; c <= g.MaxCol(); c++ {
		if g.Cell(row, c).IsText() {
			count++
		}
	}
	return count
}

// Extract builds the header map for headerRow. The left-most occurrence of
// a normalized name wins, and numeric headers keep their display text.
func Extract(g grid.Grid, headerRow int) *HeaderMap {
	m := newHeaderMap()
	for c := 1; c <= g.MaxCol(); c++ {
		cell := g.Cell(headerRow, c)
		if cell.IsEmpty() {
			continue
		}
		display := strings.TrimSpace(cell.Value)
		if display == "" {
			continue
		}
		norm := normalize.Normalize(display)
		if norm == "" {
			continue
		}
		m.add(Header{Norm: norm, Row: headerRow, Col: c, Display: display})
	}
	return m
}
