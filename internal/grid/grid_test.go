package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestMemoryBounds(t *testing.T) {
	g := FromStrings([][]string{
		{"ID", "Name"},
		{"1"},
	})

	if g.MaxRow() != 2 || g.MaxCol() != 2 {
		t.Fatalf("MaxRow, MaxCol = %d, %d; want 2, 2", g.MaxRow(), g.MaxCol())
	}

	tests := []struct {
		name     string
		row, col int
		expected Cell
	}{
		{"Header text", 1, 1, Cell{Value: "ID", Kind: Text}},
		{"Numeric", 2, 1, Cell{Value: "1", Kind: Number}},
		{"Short row", 2, 2, Cell{}},
		{"Row zero", 0, 1, Cell{}},
		{"Past last row", 3, 1, Cell{}},
		{"Past last column", 1, 9, Cell{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Cell(tt.row, tt.col); got != tt.expected {
				t.Errorf("Cell(%d, %d) = %+v; want %+v", tt.row, tt.col, got, tt.expected)
			}
		})
	}
}

func TestMemorySetGrows(t *testing.T) {
	g := New(nil)
	g.Set(3, 4, Cell{Value: "x", Kind: Text})
	if g.MaxRow() != 3 || g.MaxCol() != 4 {
		t.Fatalf("MaxRow, MaxCol = %d, %d; want 3, 4", g.MaxRow(), g.MaxCol())
	}
	if got := g.Cell(3, 4).Value; got != "x" {
		t.Errorf("Cell(3, 4) = %q; want x", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"10", true},
		{" 10.5 ", true},
		{"-3e2", true},
		{"", false},
		{"abc", false},
		{"NaN", false},
		{"inf", false},
		{"1,000", false},
	}

	for _, tt := range tests {
		if _, ok := ParseNumber(tt.input); ok != tt.ok {
			t.Errorf("ParseNumber(%q) ok = %v; want %v", tt.input, ok, tt.ok)
		}
	}
}

func TestOpenXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "S.no")
	f.SetCellValue(sheetName, "B1", "Name")
	f.SetCellValue(sheetName, "A2", 1)
	f.SetCellValue(sheetName, "B2", "Alice")
	f.SetCellValue(sheetName, "C3", true)

	tmpFile := filepath.Join(t.TempDir(), "grid.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	g, err := Open(tmpFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if g.MaxRow() != 3 {
		t.Errorf("Expected 3 rows, got %d", g.MaxRow())
	}
	if c := g.Cell(1, 1); c.Value != "S.no" || c.Kind != Text {
		t.Errorf("A1 = %+v; want text S.no", c)
	}
	if c := g.Cell(2, 1); c.Value != "1" || c.Kind != Number {
		t.Errorf("A2 = %+v; want number 1", c)
	}
	if c := g.Cell(3, 3); c.Kind != Bool {
		t.Errorf("C3 = %+v; want bool", c)
	}
}

func TestOpenCSV(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "grid.csv")
	if err := os.WriteFile(tmpFile, []byte("ID,Name\n1,A\n2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := Open(tmpFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if g.MaxRow() != 3 || g.MaxCol() != 2 {
		t.Errorf("MaxRow, MaxCol = %d, %d; want 3, 2", g.MaxRow(), g.MaxCol())
	}
	if c := g.Cell(3, 1); c.Kind != Number {
		t.Errorf("A3 = %+v; want number", c)
	}
}

func TestOpenUnsupported(t *testing.T) {
	if _, err := Open("legacy.xls"); err == nil {
		t.Error("expected error for .xls input")
	}
}
