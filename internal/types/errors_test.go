package types

import (
	"errors"
	"testing"
)

func TestHeaderNotFoundErrorUnwrap(t *testing.T) {
	var err error = &HeaderNotFoundError{Header: "s no", Source: "a.xlsx"}
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("errors.Is(%v, ErrHeaderNotFound) = false; want true", err)
	}
	want := `key header "s no" not found in a.xlsx`
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}

func TestParseAlignmentMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AlignmentMode
		wantErr bool
	}{
		{"By key", "by_key", AlignByKey, false},
		{"By row", "by_row", AlignByRow, false},
		{"Unknown", "by_column", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlignmentMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAlignmentMode) {
					t.Errorf("ParseAlignmentMode(%q) error = %v; want ErrInvalidAlignmentMode", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseAlignmentMode(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}
