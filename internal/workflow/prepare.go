// Package workflow runs a per-row operation over a bulk upload batch.
//
// A batch is prepared by adding the result columns and ordering the rows so
// that calculations come after the items they reference. A Runner then
// applies the operation to every row, recording success or the error message
// in the result columns, and the results are saved next to the input file.
package workflow

import (
	"fmt"
	"strings"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/table"
)

// DefaultOperation names the result column when none is given.
const DefaultOperation = "processed"

// MultipleFormulaColumnError reports a batch with more than one formula column.
type MultipleFormulaColumnError struct {
	Columns []string
}

func (e *MultipleFormulaColumnError) Error() string {
	return fmt.Sprintf("received more formula columns than expected %v", e.Columns)
}

// ErrorColumn returns the name of the error column of operation.
func ErrorColumn(operation string) string {
	return operation + "_error"
}

// FormulaColumn returns the formula column of t: cols.Formula when t has
// it, otherwise the single column whose name contains "formula". The
// references helper column is ignored. ok is false when there is none.
func FormulaColumn(t *table.Table, cols calc.Columns) (name string, ok bool, err error) {
	if cols.Formula != "" && t.HasColumn(cols.Formula) {
		return cols.Formula, true, nil
	}

	var found []string
	for _, c := range t.ColumnsContaining("formula") {
		if cols.References != "" && c == cols.References {
			continue
		}
		found = append(found, c)
	}

	switch len(found) {
	case 0:
		return "", false, nil
	case 1:
		return found[0], true, nil
	default:
		return "", false, &MultipleFormulaColumnError{Columns: found}
	}
}

// Prepare returns a copy of t ready for processing by operation: the
// operation and error result columns are added and, when the batch carries
// formulas, the rows are ordered by calculation dependency.
func Prepare(t *table.Table, operation string, opts calc.Options) (*table.Table, error) {
	if operation == "" {
		operation = DefaultOperation
	}

	cols := opts.Columns
	if cols.References == "" {
		cols.References = calc.DefaultColumns().References
	}

	formulaCol, ok, err := FormulaColumn(t, cols)
	if err != nil {
		return nil, err
	}

	prepared := t.Clone()
	if ok && hasFormula(t, formulaCol) {
		opts.Columns.Formula = formulaCol
		prepared, err = calc.NewSorter(opts).Sort(t)
		if err != nil {
			return nil, fmt.Errorf("failed to order batch: %w", err)
		}
	}

	prepared.AddColumn(operation, table.FormatBool(false))
	prepared.AddColumn(ErrorColumn(operation), "")
	return prepared, nil
}

func hasFormula(t *table.Table, column string) bool {
	for _, v := range t.Column(column) {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
