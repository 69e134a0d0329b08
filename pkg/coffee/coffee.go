// Package coffee orders bulk upload batches of calculated items.
//
// An item's formula references other items by enclosing their names in
// square brackets:
//
//	name,formula,is_calculation
//	A,,false
//	B,[A] + 1,true
//	C,[B] * [A],true
//
// SortTable reorders such a CSV batch so that every item comes after the
// items its formula references:
//
//	err := coffee.SortTable(in, out, coffee.Options{})
//
// References to names outside the batch are ignored. A batch in which every
// item is referenced by another item is rejected with an error matching
// ErrNoRoot.
package coffee

import (
	"io"
	"log/slog"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/table"
)

// Errors returned by the ordering functions, matched with errors.Is.
var (
	ErrMissingColumn = calc.ErrMissingColumn
	ErrNoRoot        = calc.ErrNoRoot
	ErrCycle         = calc.ErrCycle
	ErrDuplicateName = calc.ErrDuplicateName
)

// Options configures batch ordering. Empty column names use the defaults
// formula, is_calculation and name.
type Options struct {
	FormulaColumn       string
	IsCalculationColumn string
	NameColumn          string

	// Reverse puts calculations before the items they reference.
	Reverse bool

	// Lenient orders batches with circular references instead of failing.
	Lenient bool

	// OrderTree makes SplitTable order the calculation tree rows by
	// dependency instead of keeping their input order.
	OrderTree bool

	// KeepReferences adds a formula_variables column listing each row's
	// references separated by "|".
	KeepReferences bool

	Logger *slog.Logger
}

func (o Options) sorter() *calc.Sorter {
	policy := calc.CycleStrict
	if o.Lenient {
		policy = calc.CycleLenient
	}
	return calc.NewSorter(calc.Options{
		Columns: calc.Columns{
			Formula:       o.FormulaColumn,
			IsCalculation: o.IsCalculationColumn,
			Name:          o.NameColumn,
		},
		Reverse:        o.Reverse,
		CyclePolicy:    policy,
		KeepReferences: o.KeepReferences,
		Logger:         o.Logger,
	})
}

// SortTable reads a CSV batch from r and writes it to w ordered by
// calculation dependency.
func SortTable(r io.Reader, w io.Writer, opts Options) error {
	t, err := table.ReadCSV(r)
	if err != nil {
		return err
	}
	sorted, err := opts.sorter().Sort(t)
	if err != nil {
		return err
	}
	return sorted.WriteCSV(w)
}

// SplitTable reads a CSV batch from r and writes the rows taking part in a
// calculation tree to tree and the remaining rows to independent. Both keep
// the input order unless opts.OrderTree is set.
func SplitTable(r io.Reader, tree, independent io.Writer, opts Options) error {
	t, err := table.ReadCSV(r)
	if err != nil {
		return err
	}
	split := opts.sorter().Split
	if opts.OrderTree {
		split = opts.sorter().SplitOrdered
	}
	inTree, indep, err := split(t)
	if err != nil {
		return err
	}
	if err := inTree.WriteCSV(tree); err != nil {
		return err
	}
	return indep.WriteCSV(independent)
}

// ExtractReferences returns the item names referenced by formula, left to
// right, repeats included.
func ExtractReferences(formula string) []string {
	return calc.ExtractReferences(formula)
}

// Order returns names ordered so that every name comes after the names it
// references. References to unknown names are ignored.
func Order(names []string, references map[string][]string, reverse bool) ([]string, error) {
	g, err := calc.FromReferences(names, references)
	if err != nil {
		return nil, err
	}
	return g.Order(reverse, calc.CycleStrict)
}
