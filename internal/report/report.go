// Package report renders a tabular comparison into an XLSX workbook.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/diffcheck/internal/grid"
	"github.com/nconklindev/diffcheck/internal/tabular"
	"github.com/nconklindev/diffcheck/internal/workspace"
)

const (
	SheetName = "Comparison"

	headerRow    = 6
	firstDataRow = 7
	altFill      = "F2F2F2"
	maxColWidth  = 120
)

var legend = []string{
	"Legend:",
	"Yellow = Match",
	"Red = Removed/Changed (File 1)",
	"Green = Added/Changed (File 2)",
}

// Failure is a cosmetic finishing step that did not apply.
type Failure struct {
	Step string
	Err  error
}

// Finishing lists cosmetic steps that failed. The workbook is still valid
// when it is non-empty.
type Finishing struct {
	Failures []Failure
}

func (f *Finishing) record(step string, err error) {
	if err != nil {
		f.Failures = append(f.Failures, Failure{Step: step, Err: err})
	}
}

// OK reports whether every cosmetic step applied.
func (f Finishing) OK() bool {
	return len(f.Failures) == 0
}

// Err joins the failures, or returns nil.
func (f Finishing) Err() error {
	errs := make([]error, 0, len(f.Failures))
	for _, fail := range f.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", fail.Step, fail.Err))
	}
	return errors.Join(errs...)
}

// Steps describes each failure as "step: error", or returns nil.
func (f Finishing) Steps() []string {
	if len(f.Failures) == 0 {
		return nil
	}
	steps := make([]string, 0, len(f.Failures))
	for _, fail := range f.Failures {
		steps = append(steps, fmt.Sprintf("%s: %v", fail.Step, fail.Err))
	}
	return steps
}

// Log writes each failure at warn level.
func (f Finishing) Log(logger *log.Logger) {
	if logger == nil {
		return
	}
	for _, fail := range f.Failures {
		logger.Warn("cosmetic finishing failed", "step", fail.Step, "err", fail.Err)
	}
}

type builder struct {
	f      *excelize.File
	styles map[string]int
	widths map[int]int
}

// Build lays out res as a workbook: legend in A1:A4, headers on row 6, one
// row per aligned row from row 7, then frozen panes, column widths and an
// autofilter.
func Build(res *tabular.Result) (*excelize.File, Finishing, error) {
	var fin Finishing
	b := &builder{
		f:      excelize.NewFile(),
		styles: make(map[string]int),
		widths: make(map[int]int),
	}
	f := b.f

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fin, err
	}

	for i, line := range legend {
		if err := b.set(1, i+1, line); err != nil {
			f.Close()
			return nil, fin, err
		}
	}

	bold, err := b.style("", true)
	if err != nil {
		f.Close()
		return nil, fin, err
	}

	if err := b.set(1, headerRow, "Rows: File 1/File 2"); err != nil {
		f.Close()
		return nil, fin, err
	}
	for i, col := range res.Columns {
		left, right := 2+2*i, 3+2*i
		if err := b.set(left, headerRow, col.Display1+" (File 1)"); err != nil {
			f.Close()
			return nil, fin, err
		}
		if err := b.set(right, headerRow, col.Display2+" (File 2)"); err != nil {
			f.Close()
			return nil, fin, err
		}
		if err := b.apply(left, headerRow, bold); err != nil {
			f.Close()
			return nil, fin, err
		}
		if err := b.apply(right, headerRow, bold); err != nil {
			f.Close()
			return nil, fin, err
		}
	}

	for i, row := range res.Rows {
		if err := b.writeRow(firstDataRow+i, i%2 == 1, row, res.Palette); err != nil {
			f.Close()
			return nil, fin, err
		}
	}

	lastCol := 1 + 2*len(res.Columns)
	b.finish(&fin, lastCol)
	return f, fin, nil
}

func (b *builder) writeRow(r int, alternate bool, row tabular.Row, palette tabular.Palette) error {
	if err := b.set(1, r, row.Label); err != nil {
		return err
	}
	for j, cd := range row.Cells {
		left, right := 2+2*j, 3+2*j
		if err := b.setCell(left, r, cd.Left); err != nil {
			return err
		}
		if err := b.setCell(right, r, cd.Right); err != nil {
			return err
		}
		if err := b.fill(left, r, palette.Fill(cd.LeftVerdict), alternate); err != nil {
			return err
		}
		if err := b.fill(right, r, palette.Fill(cd.RightVerdict), alternate); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) fill(col, row int, color string, alternate bool) error {
	if color == "" && alternate {
		color = altFill
	}
	if color == "" {
		return nil
	}
	id, err := b.style(color, false)
	if err != nil {
		return err
	}
	return b.apply(col, row, id)
}

// finish applies the post-processing steps whose failure never invalidates
// the workbook.
func (b *builder) finish(fin *Finishing, lastCol int) {
	fin.record("freeze panes", b.f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      headerRow,
		TopLeftCell: "B7",
		ActivePane:  "bottomRight",
	}))

	for col := 1; col <= lastCol; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			fin.record("column width", err)
			continue
		}
		width := min(maxColWidth, b.widths[col]+2)
		fin.record("column width "+name, b.f.SetColWidth(SheetName, name, name, float64(width)))
	}

	last, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		fin.record("autofilter", err)
		return
	}
	ref := fmt.Sprintf("A%d:%s%d", headerRow, last, headerRow)
	fin.record("autofilter", b.f.AutoFilter(SheetName, ref, nil))
}

func (b *builder) set(col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if s, ok := value.(string); ok {
		b.width(col, s)
	}
	return b.f.SetCellValue(SheetName, cell, value)
}

// setCell writes the original value, keeping numbers and booleans typed.
func (b *builder) setCell(col, row int, c grid.Cell) error {
	if c.IsEmpty() {
		return nil
	}
	b.width(col, c.Value)
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch c.Kind {
	case grid.Number:
		if n, ok := grid.ParseNumber(c.Value); ok {
			return b.f.SetCellValue(SheetName, cell, n)
		}
	case grid.Bool:
		if v, err := strconv.ParseBool(c.Value); err == nil {
			return b.f.SetCellValue(SheetName, cell, v)
		}
	}
	return b.f.SetCellStr(SheetName, cell, c.Value)
}

func (b *builder) width(col int, s string) {
	if n := utf8.RuneCountInString(s); n > b.widths[col] {
		b.widths[col] = n
	}
}

func (b *builder) style(color string, bold bool) (int, error) {
	key := color
	if bold {
		key += "+bold"
	}
	if id, ok := b.styles[key]; ok {
		return id, nil
	}
	s := &excelize.Style{}
	if color != "" {
		s.Fill = excelize.Fill{Type: "pattern", Color: []string{"#" + color}, Pattern: 1}
	}
	if bold {
		s.Font = &excelize.Font{Bold: true}
	}
	id, err := b.f.NewStyle(s)
	if err != nil {
		return 0, fmt.Errorf("creating style %s: %w", key, err)
	}
	b.styles[key] = id
	return id, nil
}

func (b *builder) apply(col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return b.f.SetCellStyle(SheetName, cell, cell, style)
}

// Write builds the workbook and saves it to path. Nothing is written to
// path when building fails.
func Write(res *tabular.Result, path string) (Finishing, error) {
	f, fin, err := Build(res)
	if err != nil {
		return fin, err
	}
	defer f.Close()

	err = workspace.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	if err != nil {
		return fin, fmt.Errorf("saving %s: %w", path, err)
	}
	return fin, nil
}
