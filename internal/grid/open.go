package grid

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/diffcheck/internal/types"
)

// Open loads a grid from path, choosing the provider by extension.
func Open(path string) (*Memory, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		g   *Memory
		err error
	)
	switch ext {
	case ".csv":
		g, err = OpenCSV(path)
	case ".xlsx", ".xlsm":
		g, err = OpenXLSX(path)
	default:
		return nil, types.UnsupportedFileType(ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
