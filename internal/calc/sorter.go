package calc

import (
	"log/slog"
	"sort"

	"github.com/coffee-platform/coffee-go/internal/logging"
	"github.com/coffee-platform/coffee-go/internal/table"
)

// Options configures a Sorter.
type Options struct {
	// Columns names the formula, is-calculation and name columns.
	// Empty names fall back to DefaultColumns.
	Columns Columns

	// Reverse puts dependencies last instead of first.
	Reverse bool

	// CyclePolicy decides whether circular references are rejected.
	CyclePolicy CyclePolicy

	// KeepReferences adds the Columns.References helper column to the output.
	KeepReferences bool

	Logger *slog.Logger
}

// Sorter orders the rows of a batch table by calculation dependency.
type Sorter struct {
	cols   Columns
	opts   Options
	logger *slog.Logger
}

// NewSorter creates a sorter with the given options.
func NewSorter(opts Options) *Sorter {
	return &Sorter{
		cols:   opts.Columns.withDefaults(),
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger),
	}
}

// Columns returns the effective column names.
func (s *Sorter) Columns() Columns {
	return s.cols
}

// Analysis is the graph view of one batch table.
type Analysis struct {
	Items []*Item
	Graph *Graph
}

// Analyze extracts the items of t and builds their dependency graph.
func (s *Sorter) Analyze(t *table.Table) (*Analysis, error) {
	if !t.HasColumn(s.cols.IsCalculation) {
		s.logger.Debug("deriving calculation flag from formula",
			"column", s.cols.IsCalculation, "formula_column", s.cols.Formula)
	}

	items, err := ExtractItems(t, s.cols)
	if err != nil {
		return nil, err
	}

	g, err := NewGraph(items)
	if err != nil {
		return nil, err
	}

	for name, refs := range g.Dangling() {
		s.logger.Debug("pruned reference to unknown item", "item", name, "references", refs)
	}

	return &Analysis{Items: items, Graph: g}, nil
}

// Order computes the processing order of the analysed batch.
func (s *Sorter) Order(a *Analysis) ([]string, error) {
	order, err := a.Graph.Order(s.opts.Reverse, s.opts.CyclePolicy)
	if err != nil {
		return nil, err
	}
	if s.opts.CyclePolicy == CycleLenient {
		if cycles := a.Graph.FindCycles(); len(cycles) > 0 {
			s.logger.Warn("ordering batch with circular references", "cycles", len(cycles))
		}
	}
	return order, nil
}

// Sort returns a copy of t with its rows reordered. Tables with at most one
// row are returned unchanged.
func (s *Sorter) Sort(t *table.Table) (*table.Table, error) {
	if t.Len() <= 1 {
		return t.Clone(), nil
	}

	a, err := s.Analyze(t)
	if err != nil {
		return nil, err
	}

	order, err := s.Order(a)
	if err != nil {
		return nil, err
	}

	rowOf := make(map[string]int, len(a.Items))
	for _, it := range a.Items {
		rowOf[it.Name] = it.Row
	}
	indices := make([]int, len(order))
	for i, name := range order {
		indices[i] = rowOf[name]
	}

	s.logger.Debug("ordered batch", "rows", t.Len(), "edges", a.Graph.EdgeCount())
	return s.subset(t, a, indices)
}

// Split partitions t into the rows of calculation trees and the independent
// rows. Both partitions keep their input order. The batch is still checked
// the way Sort checks it, so a batch Sort rejects is rejected here too.
// Tables with at most one row are returned unchanged as the tree partition.
func (s *Sorter) Split(t *table.Table) (inTree, independent *table.Table, err error) {
	return s.split(t, false)
}

// SplitOrdered is Split with the calculation rows ordered like Sort orders
// them, ready to be processed one after another.
func (s *Sorter) SplitOrdered(t *table.Table) (inTree, independent *table.Table, err error) {
	return s.split(t, true)
}

func (s *Sorter) split(t *table.Table, ordered bool) (inTree, independent *table.Table, err error) {
	if t.Len() <= 1 {
		return t.Clone(), table.New(t.Columns()...), nil
	}

	a, err := s.Analyze(t)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.Order(a)
	if err != nil {
		return nil, nil, err
	}

	treeItems, indepItems := Partition(a.Items, a.Graph)
	if ordered {
		pos := make(map[string]int, len(order))
		for i, name := range order {
			pos[name] = i
		}
		sort.SliceStable(treeItems, func(i, j int) bool {
			return pos[treeItems[i].Name] < pos[treeItems[j].Name]
		})
	}

	s.logger.Debug("split batch", "in_tree", len(treeItems), "independent", len(indepItems), "ordered", ordered)

	if inTree, err = s.subset(t, a, rowIndices(treeItems)); err != nil {
		return nil, nil, err
	}
	if independent, err = s.subset(t, a, rowIndices(indepItems)); err != nil {
		return nil, nil, err
	}
	return inTree, independent, nil
}

func (s *Sorter) subset(t *table.Table, a *Analysis, indices []int) (*table.Table, error) {
	out, err := t.Subset(indices)
	if err != nil {
		return nil, err
	}
	if s.opts.KeepReferences {
		out.AddColumn(s.cols.References, "")
		for i, idx := range indices {
			out.Row(i).Set(s.cols.References, a.Items[idx].ReferenceString())
		}
	}
	return out, nil
}

func rowIndices(items []*Item) []int {
	indices := make([]int, len(items))
	for i, it := range items {
		indices[i] = it.Row
	}
	return indices
}
