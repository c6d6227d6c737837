package types

// Kind names the comparison engine used for a pair of files.
type Kind string

const (
	KindTabular  Kind = "excel"
	KindDocument Kind = "pdf"
)

// AlignmentMode selects how data rows are paired across two grids.
type AlignmentMode string

const (
	AlignByKey AlignmentMode = "by_key"
	AlignByRow AlignmentMode = "by_row"
)

// ParseAlignmentMode returns the mode named by s.
func ParseAlignmentMode(s string) (AlignmentMode, error) {
	switch AlignmentMode(s) {
	case AlignByKey, AlignByRow:
		return AlignmentMode(s), nil
	}
	return "", InvalidAlignmentMode(s)
}

type ComparisonResult struct {
	Kind       Kind          `json:"type"`
	InputFiles [2]string     `json:"input_files"`
	OutputFile string        `json:"output_file"`
	Tabular    *TabularMeta  `json:"excel,omitempty"`
	Document   *DocumentMeta `json:"pdf,omitempty"`

	// CosmeticFailures lists finishing steps (panes, widths, filters) that
	// did not apply. The artifact is complete either way.
	CosmeticFailures []string `json:"cosmetic_failures,omitempty"`
}

type TabularMeta struct {
	RowsCompared  int           `json:"rows_compared"`
	KeyHeaderUsed string        `json:"key_header"`
	AlignmentMode AlignmentMode `json:"compare_mode"`
}

type DocumentMeta struct {
	PagesCompared int       `json:"pages_compared"`
	SourceFiles   [2]string `json:"files"`
}
