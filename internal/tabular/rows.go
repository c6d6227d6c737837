package tabular

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nconklindev/diffcheck/internal/grid"
	"github.com/nconklindev/diffcheck/internal/normalize"
	"github.com/nconklindev/diffcheck/internal/types"
)

// AlignedRow pairs a file-1 row with a file-2 row. A zero row number means
// that side is absent; at least one side is always present.
type AlignedRow struct {
	Row1  int
	Row2  int
	Label string
}

// KeyIndex maps normalized key-cell text to the first row below headerRow
// holding it. Keys that normalize to nothing are skipped.
func KeyIndex(g grid.Grid, headerRow, keyCol int) map[string]int {
	index := make(map[string]int)
	for r := headerRow + 1; r <= g.MaxRow(); r++ {
		cell := g.Cell(r, keyCol)
		if cell.IsEmpty() {
			continue
		}
		key := normalize.Normalize(cell.Value)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = r
		}
	}
	return index
}

// AlignRows pairs data rows of both grids using the given mode. key1 and
// key2 are the located key headers.
func AlignRows(mode types.AlignmentMode, g1, g2 grid.Grid, key1, key2 Location) ([]AlignedRow, error) {
	switch mode {
	case types.AlignByKey:
		return alignByKey(g1, g2, key1, key2), nil
	case types.AlignByRow:
		return alignByRow(g1, g2, key1, key2), nil
	default:
		return nil, types.InvalidAlignmentMode(string(mode))
	}
}

func alignByKey(g1, g2 grid.Grid, key1, key2 Location) []AlignedRow {
	index1 := KeyIndex(g1, key1.Row, key1.Col)
	index2 := KeyIndex(g2, key2.Row, key2.Col)

	keys := make([]string, 0, len(index1)+len(index2))
	for k := range index1 {
		keys = append(keys, k)
	}
	for k := range index2 {
		if _, ok := index1[k]; !ok {
			keys = append(keys, k)
		}
	}
	keys = SortKeys(keys)

	rows := make([]AlignedRow, 0, len(keys))
	for _, k := range keys {
		r1, r2 := index1[k], index2[k]
		rows = append(rows, AlignedRow{
			Row1:  r1,
			Row2:  r2,
			Label: rowLabel(g1, g2, r1, r2, key1.Col, key2.Col),
		})
	}
	return rows
}

// alignByRow pairs rows by their offset from each file's own header row.
func alignByRow(g1, g2 grid.Grid, key1, key2 Location) []AlignedRow {
	after1 := g1.MaxRow() - key1.Row
	after2 := g2.MaxRow() - key2.Row
	maxAfter := max(after1, after2)

	rows := make([]AlignedRow, 0, max(maxAfter, 0))
	for offset := 1; offset <= maxAfter; offset++ {
		var r1, r2 int
		if offset <= after1 {
			r1 = key1.Row + offset
		}
		if offset <= after2 {
			r2 = key2.Row + offset
		}
		rows = append(rows, AlignedRow{
			Row1:  r1,
			Row2:  r2,
			Label: rowLabel(g1, g2, r1, r2, key1.Col, key2.Col),
		})
	}
	return rows
}

// rowLabel renders "left/right" where each side is the original key text,
// falling back to the sheet row number, or nothing when the side is absent.
func rowLabel(g1, g2 grid.Grid, r1, r2, keyCol1, keyCol2 int) string {
	return fmt.Sprintf("%s/%s", sideLabel(g1, r1, keyCol1), sideLabel(g2, r2, keyCol2))
}

func sideLabel(g grid.Grid, row, keyCol int) string {
	if row == 0 {
		return ""
	}
	if keyCol > 0 {
		if cell := g.Cell(row, keyCol); !cell.IsEmpty() {
			return cell.Value
		}
	}
	return strconv.Itoa(row)
}

// SortKeys orders keys numerically when they parse as numbers and lexically
// otherwise; numeric keys come before non-numeric ones.
func SortKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)

	type parsed struct {
		num     float64
		numeric bool
	}
	cache := make(map[string]parsed, len(out))
	for _, k := range out {
		n, ok := grid.ParseNumber(k)
		cache[k] = parsed{num: n, numeric: ok}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := cache[out[i]], cache[out[j]]
		if a.numeric != b.numeric {
			return a.numeric
		}
		if a.numeric && a.num != b.num {
			return a.num < b.num
		}
		return out[i] < out[j]
	})
	return out
}
