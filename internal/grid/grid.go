// Package grid defines the read-only two-dimensional cell contract the
// tabular comparison consumes, plus providers that load it from XLSX and
// CSV files.
package grid

import (
	"math"
	"strconv"
	"strings"
)

// Kind classifies a cell value.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
	Bool
	Date
)

// Cell is a single displayed value and its kind. Value keeps the original
// formatting; it is never normalized.
type Cell struct {
	Value string
	Kind  Kind
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty || c.Value == ""
}

// IsText reports whether the cell is a textual, non-blank value.
func (c Cell) IsText() bool {
	return c.Kind == Text && strings.TrimSpace(c.Value) != ""
}

// Grid is a 1-indexed addressable sheet. Cells outside 1..MaxRow and
// 1..MaxCol are empty.
type Grid interface {
	Cell(row, col int) Cell
	MaxRow() int
	MaxCol() int
}

// Memory is an in-memory Grid.
type Memory struct {
	rows   [][]Cell
	maxCol int
}

// New builds a grid from rows of cells; row 0 of the slice is sheet row 1.
func New(rows [][]Cell) *Memory {
	m := &Memory{rows: rows}
	for _, row := range rows {
		if len(row) > m.maxCol {
			m.maxCol = len(row)
		}
	}
	return m
}

// FromStrings builds a grid from raw strings, typing values that parse as
// numbers as Number and everything else non-empty as Text.
func FromStrings(records [][]string) *Memory {
	rows := make([][]Cell, len(records))
	for r, record := range records {
		row := make([]Cell, len(record))
		for c, v := range record {
			row[c] = inferCell(v)
		}
		rows[r] = row
	}
	return New(rows)
}

func (m *Memory) Cell(row, col int) Cell {
	if row < 1 || row > len(m.rows) {
		return Cell{}
	}
	r := m.rows[row-1]
	if col < 1 || col > len(r) {
		return Cell{}
	}
	return r[col-1]
}

func (m *Memory) MaxRow() int { return len(m.rows) }

func (m *Memory) MaxCol() int { return m.maxCol }

// Set stores a cell, growing the grid as needed.
func (m *Memory) Set(row, col int, c Cell) {
	for len(m.rows) < row {
		m.rows = append(m.rows, nil)
	}
	r := m.rows[row-1]
	for len(r) < col {
		r = append(r, Cell{})
	}
	r[col-1] = c
	m.rows[row-1] = r
	if col > m.maxCol {
		m.maxCol = col
	}
}

func inferCell(v string) Cell {
	if v == "" {
		return Cell{}
	}
	if IsNumeric(v) {
		return Cell{Value: v, Kind: Number}
	}
	return Cell{Value: v, Kind: Text}
}

// IsNumeric reports whether s parses as a finite number.
func IsNumeric(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}

// ParseNumber parses s as a finite float, ignoring surrounding whitespace.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
