package grid

import (
	"encoding/csv"
	"fmt"
	"os"
)

// OpenCSV loads a CSV file. Every record becomes one sheet row.
func OpenCSV(path string) (*Memory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	return FromStrings(records), nil
}
