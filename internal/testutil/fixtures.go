// Package testutil provides test fixtures and helpers for coffee packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coffee-platform/coffee-go/internal/table"
)

// ExampleCSV is the three-item calculation chain A <- B <- C.
const ExampleCSV = `name,formula,is_calculation
A,,false
B,[A] + 1,true
C,[B] * [A],true
`

// RowOption configures a test row.
type RowOption func(map[string]string)

// NewTestRow creates a row named name with optional configuration.
func NewTestRow(name string, opts ...RowOption) *table.Row {
	values := map[string]string{
		"name":           name,
		"formula":        "",
		"is_calculation": "false",
	}
	for _, opt := range opts {
		opt(values)
	}
	return table.NewRow(values)
}

// WithFormula sets the formula and marks the row as a calculation.
func WithFormula(formula string) RowOption {
	return func(v map[string]string) {
		v["formula"] = formula
		v["is_calculation"] = "true"
	}
}

// WithField sets an arbitrary column.
func WithField(column, value string) RowOption {
	return func(v map[string]string) {
		v[column] = value
	}
}

// NewTestTable creates a table holding rows in order. The header is
// name, formula, is_calculation followed by any extra columns.
func NewTestTable(t *testing.T, rows ...*table.Row) *table.Table {
	t.Helper()

	tbl := table.New("name", "formula", "is_calculation")
	for _, r := range rows {
		tbl.Append(r)
	}
	return tbl
}

// ParseTable parses CSV text into a table, failing the test on error.
func ParseTable(t *testing.T, csv string) *table.Table {
	t.Helper()

	tbl, err := table.ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Failed to parse test table: %v", err)
	}
	return tbl
}

// WriteCSVFile writes csv into a file named name inside a temp directory
// and returns its path.
func WriteCSVFile(t *testing.T, name, csv string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
