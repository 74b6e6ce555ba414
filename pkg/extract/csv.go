package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadCSV reads a headed CSV into a Table. Ragged records are tolerated.
func ReadCSV(source string, r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("%s: no columns to parse", source)
	}
	if err != nil {
		return Table{}, fmt.Errorf("%s: failed to read header: %w", source, err)
	}

	table := Table{Source: source}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("%s: failed to read record: %w", source, err)
		}
		table.Rows = append(table.Rows, NewRow(header, record))
	}

	return table, nil
}

// ReadCSVFile opens and reads a CSV file.
func ReadCSVFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	return ReadCSV(filepath.Base(path), f)
}
