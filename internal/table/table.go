// Package table provides the in-memory tabular batch used by coffee workflows.
package table

import (
	"fmt"
	"strings"
)

// Row is a single record of a table, keyed by column name.
type Row struct {
	values map[string]string
}

// NewRow creates a row from a column -> value map.
func NewRow(values map[string]string) *Row {
	r := &Row{values: make(map[string]string, len(values))}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// Get returns the value stored under column, or "" when unset.
func (r *Row) Get(column string) string {
	return r.values[column]
}

// Lookup returns the value stored under column and whether it is set.
func (r *Row) Lookup(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Set stores a value under column.
func (r *Row) Set(column, value string) {
	r.values[column] = value
}

// Values returns a copy of the row's values.
func (r *Row) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *Row) clone() *Row {
	return NewRow(r.values)
}

// Table is an ordered collection of rows sharing one header.
type Table struct {
	// columns preserves header order for consistent output.
	columns []string

	// rows preserves input order.
	rows []*Row

	// path is the file path this table was loaded from.
	path string
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		columns: cols,
		rows:    make([]*Row, 0),
	}
}

// Path returns the file path this table was loaded from.
func (t *Table) Path() string {
	return t.path
}

// SetPath sets the file path for saving.
func (t *Table) SetPath(path string) {
	t.path = path
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// HasColumn checks if a column exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnsContaining returns the columns whose name contains substr, in header order.
func (t *Table) ColumnsContaining(substr string) []string {
	var found []string
	for _, c := range t.columns {
		if strings.Contains(c, substr) {
			found = append(found, c)
		}
	}
	return found
}

// AddColumn appends a column, setting value on every row.
// Adding an existing column overwrites its values.
func (t *Table) AddColumn(name, value string) {
	if !t.HasColumn(name) {
		t.columns = append(t.columns, name)
	}
	for _, r := range t.rows {
		r.Set(name, value)
	}
}

// DropColumn removes a column and its values.
func (t *Table) DropColumn(name string) {
	cols := t.columns[:0]
	for _, c := range t.columns {
		if c != name {
			cols = append(cols, c)
		}
	}
	t.columns = cols
	for _, r := range t.rows {
		delete(r.values, name)
	}
}

// Append adds a row. Columns unknown to the header are appended to it.
func (t *Table) Append(r *Row) {
	for k := range r.values {
		if !t.HasColumn(k) {
			t.columns = append(t.columns, k)
		}
	}
	t.rows = append(t.rows, r)
}

// Row returns the row at index i.
func (t *Table) Row(i int) *Row {
	return t.rows[i]
}

// Rows returns the rows in table order.
func (t *Table) Rows() []*Row {
	rows := make([]*Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.rows))
	for i, r := range t.rows {
		values[i] = r.Get(name)
	}
	return values
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := New(t.columns...)
	c.path = t.path
	for _, r := range t.rows {
		c.rows = append(c.rows, r.clone())
	}
	return c
}

// Subset returns a new table holding copies of the rows at indices, in the given order.
func (t *Table) Subset(indices []int) (*Table, error) {
	c := New(t.columns...)
	c.path = t.path
	for _, i := range indices {
		if i < 0 || i >= len(t.rows) {
			return nil, fmt.Errorf("row index %d out of range [0,%d)", i, len(t.rows))
		}
		c.rows = append(c.rows, t.rows[i].clone())
	}
	return c, nil
}
