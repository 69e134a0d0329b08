package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load loads a table from a CSV file.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer file.Close()

	t, err := ReadCSV(file)
	if err != nil {
		return nil, err
	}

	t.path = path
	return t, nil
}

// Save saves the table to a CSV file.
func (t *Table) Save(path string) error {
	if path == "" {
		path = t.path
	}
	if path == "" {
		return fmt.Errorf("no path specified for saving table")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	defer file.Close()

	if err := t.WriteCSV(file); err != nil {
		return err
	}

	t.path = path
	return nil
}

// ReadCSV reads rows from a CSV reader. The first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Short rows are padded below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	seen := make(map[string]bool, len(header))
	columns := make([]string, 0, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		if col == "" {
			return nil, fmt.Errorf("empty column name at position %d", i+1)
		}
		if seen[col] {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
		columns = append(columns, col)
	}

	t := New(columns...)

	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) > len(columns) {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", lineNum, len(record), len(columns))
		}

		row := &Row{values: make(map[string]string, len(columns))}
		for i, col := range columns {
			if i < len(record) {
				row.values[col] = strings.TrimSpace(record[i])
			} else {
				row.values[col] = ""
			}
		}
		t.rows = append(t.rows, row)
	}

	return t, nil
}

// WriteCSV writes the table to a CSV writer.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(t.columns))
	for i, r := range t.rows {
		for j, col := range t.columns {
			record[j] = r.Get(col)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ParseBool parses a boolean cell. Empty cells are false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// FormatBool formats a boolean cell the way ParseBool reads it back.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
