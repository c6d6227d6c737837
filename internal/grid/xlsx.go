package grid

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// OpenXLSX loads the first sheet of an XLSX workbook. Values are the cached
// results excelize reports, so formulas compare by their resulting values.
func OpenXLSX(path string) (*Memory, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	return ReadSheet(f, sheetName)
}

// ReadSheet loads one sheet of an open workbook.
func ReadSheet(f *excelize.File, sheetName string) (*Memory, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	cells := make([][]Cell, len(rows))
	for rowIdx, row := range rows {
		line := make([]Cell, len(row))
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			kind, err := cellKind(f, sheetName, cellName, value)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			line[colIdx] = Cell{Value: value, Kind: kind}
		}
		cells[rowIdx] = line
	}

	return New(cells), nil
}

func cellKind(f *excelize.File, sheetName, cellName, value string) (Kind, error) {
	typ, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return Empty, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return Bool, nil
	case excelize.CellTypeDate:
		return Date, nil
	case excelize.CellTypeNumber:
		return Number, nil
	case excelize.CellTypeUnset:
		// Plain numeric cells carry no type attribute; look at the stored
		// value rather than the formatted one.
		raw, err := f.GetCellValue(sheetName, cellName, excelize.Options{RawCellValue: true})
		if err != nil {
			return Empty, err
		}
		if IsNumeric(raw) {
			return Number, nil
		}
		return Text, nil
	default:
		return Text, nil
	}
}
