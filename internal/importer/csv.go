package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Row is a single CSV record keyed by header column name. Missing columns read
// as the empty string, which every mapping treats as "use the default".
type Row map[string]string

// ReadRows eagerly loads every record from the CSV file at path. The whole
// file is held in memory before any row is processed; the dataset is small and
// the pipeline deliberately runs in one pass over a fixed snapshot.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, missing cells map to ""

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Row{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make(Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
