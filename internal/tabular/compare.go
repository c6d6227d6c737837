package tabular

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nconklindev/diffcheck/internal/grid"
	"github.com/nconklindev/diffcheck/internal/normalize"
	"github.com/nconklindev/diffcheck/internal/progress"
	"github.com/nconklindev/diffcheck/internal/types"
)

// Options configures a tabular comparison.
type Options struct {
	KeyHeader        string
	Mode             types.AlignmentMode
	Match            MatchParams
	TopRowsPreferred int
	NumericCoercion  bool
	Palette          Palette
	Progress         *progress.Tracker
	Logger           *log.Logger
}

// DefaultOptions returns options matching the stock configuration.
func DefaultOptions() Options {
	return Options{
		KeyHeader:        "S.no",
		Mode:             types.AlignByKey,
		Match:            DefaultMatchParams(),
		TopRowsPreferred: 20,
		Palette:          DefaultPalette(),
	}
}

// Column is one entry of the unified header list. Col1 or Col2 is zero
// when the column does not exist in that file.
type Column struct {
	Norm     string
	Display1 string
	Display2 string
	Col1     int
	Col2     int
}

// Row is an aligned row with one CellDiff per unified column.
type Row struct {
	AlignedRow
	Cells []CellDiff
}

// Result is the aligned diff grid.
type Result struct {
	Columns []Column
	Rows    []Row
	Meta    types.TabularMeta
	Palette Palette
}

// Compare aligns the first two grids and classifies every cell.
func Compare(ctx context.Context, grids []grid.Grid, opts Options) (*Result, error) {
	if len(grids) < 2 {
		return nil, types.ErrTooFewFiles
	}
	if _, err := types.ParseAlignmentMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	track := opts.Progress
	if track == nil {
		track = progress.New(ctx, nil)
	}

	g1, g2 := grids[0], grids[1]
	if err := track.Report(1); err != nil {
		return nil, err
	}

	keyNorm := normalize.Normalize(opts.KeyHeader)
	loc1, err := Locate(g1, keyNorm, opts.TopRowsPreferred)
	if err != nil {
		return nil, withSource(err, "file 1")
	}
	loc2, err := Locate(g2, keyNorm, opts.TopRowsPreferred)
	if err != nil {
		return nil, withSource(err, "file 2")
	}
	logger.Debug("located key header", "header", keyNorm, "file1", loc1, "file2", loc2)
	if err := track.Report(5); err != nil {
		return nil, err
	}

	headers1 := Extract(g1, loc1.Row)
	headers2 := Extract(g2, loc2.Row)
	match := MatchColumns(headers1, headers2, g1, g2, opts.Match)
	logger.Debug("matched columns", "headers1", headers1.Len(), "headers2", headers2.Len(), "pairs", match.Len())

	columns := unifyColumns(keyNorm, headers1, headers2, match)
	if len(columns) == 0 {
		return nil, types.ErrNoHeadersFound
	}
	if err := track.Report(15); err != nil {
		return nil, err
	}

	aligned, err := AlignRows(opts.Mode, g1, g2, loc1, loc2)
	if err != nil {
		return nil, err
	}
	if err := track.Report(30); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(aligned))
	total := len(aligned)
	for i, a := range aligned {
		cells := make([]CellDiff, len(columns))
		for j, col := range columns {
			cells[j] = Classify(cellAt(g1, a.Row1, col.Col1), cellAt(g2, a.Row2, col.Col2), opts.NumericCoercion)
		}
		rows = append(rows, Row{AlignedRow: a, Cells: cells})

		if i%20 == 0 {
			if err := track.Report(progress.Scale(30, 90, i, total)); err != nil {
				return nil, err
			}
		}
	}
	if err := track.Report(95); err != nil {
		return nil, err
	}

	logger.Debug("compared rows", "rows", len(rows), "columns", len(columns), "mode", opts.Mode)

	return &Result{
		Columns: columns,
		Rows:    rows,
		Meta: types.TabularMeta{
			RowsCompared:  len(rows),
			KeyHeaderUsed: opts.KeyHeader,
			AlignmentMode: opts.Mode,
		},
		Palette: opts.Palette,
	}, nil
}

func withSource(err error, source string) error {
	var notFound *types.HeaderNotFoundError
	if errors.As(err, &notFound) {
		notFound.Source = source
	}
	return err
}

func cellAt(g grid.Grid, row, col int) grid.Cell {
	if row == 0 || col == 0 {
		return grid.Cell{}
	}
	return g.Cell(row, col)
}

// unifyColumns lists the key header first, then file-1 headers left to
// right, then every file-2 header no file-1 column claimed. A file-2-only
// column whose name is already listed gets a "#2" suffix on Norm; the
// normalizer strips '#', so the suffix cannot clash with a real header.
func unifyColumns(keyNorm string, headers1, headers2 *HeaderMap, match *ColumnMatch) []Column {
	var columns []Column
	listed := make(map[string]bool)
	claimed := make(map[string]bool)

	add := func(h1 Header, ok1 bool, h2 Header, ok2 bool, norm string) {
		if listed[norm] {
			norm += "#2"
		}
		listed[norm] = true
		col := Column{Norm: norm}
		if ok1 {
			col.Col1, col.Display1 = h1.Col, h1.Display
		}
		if ok2 {
			col.Col2, col.Display2 = h2.Col, h2.Display
			claimed[h2.Norm] = true
		}
		col.Display1 = firstNonEmpty(col.Display1, col.Display2, norm)
		col.Display2 = firstNonEmpty(col.Display2, col.Display1, norm)
		columns = append(columns, col)
	}

	// file-2 partner of a file-1 header: its match, else the same-name
	// header when nothing else is matched to it
	partnerOf := func(norm string) (Header, bool) {
		if partner, matched := match.Partner(norm); matched {
			return headers2.Get(partner)
		}
		if _, taken := match.Source(norm); taken || claimed[norm] {
			return Header{}, false
		}
		return headers2.Get(norm)
	}

	first := headers1.Headers()
	if h1, ok := headers1.Get(keyNorm); ok {
		h2, ok2 := partnerOf(keyNorm)
		add(h1, true, h2, ok2, keyNorm)
	}
	for _, h1 := range first {
		if h1.Norm == keyNorm {
			continue
		}
		h2, ok2 := partnerOf(h1.Norm)
		add(h1, true, h2, ok2, h1.Norm)
	}
	for _, h2 := range headers2.Headers() {
		if claimed[h2.Norm] {
			continue
		}
		add(Header{}, false, h2, true, h2.Norm)
	}
	return columns
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
