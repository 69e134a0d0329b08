package workflow

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/logging"
	"github.com/coffee-platform/coffee-go/internal/table"
)

// DefaultConcurrency is the number of rows processed at once by RunConcurrent.
const DefaultConcurrency = 4

// Operation processes one batch row. A returned error marks the row failed.
type Operation func(ctx context.Context, row *table.Row) error

// Failure records a row whose operation returned an error.
type Failure struct {
	// Row is the 0-based row index in the processed table.
	Row  int
	Name string
	Err  error
}

// Result summarizes a run.
type Result struct {
	Processed int
	Failures  []Failure
}

// Succeeded returns the number of rows processed without error.
func (r *Result) Succeeded() int {
	return r.Processed - len(r.Failures)
}

// sorted orders the failures by row.
func (r *Result) sorted() *Result {
	slices.SortFunc(r.Failures, func(a, b Failure) int { return cmp.Compare(a.Row, b.Row) })
	return r
}

// Runner applies an operation to every row of a prepared batch.
type Runner struct {
	// Operation is applied to every row.
	Operation Operation

	// Name is the operation name. It names the result columns.
	Name string

	// Concurrency bounds the rows processed at once. Values below 2 process
	// rows one at a time.
	Concurrency int

	// Sort decides which rows take part in a calculation tree.
	Sort calc.Options

	Logger *slog.Logger

	// Progress, when set, is called after every processed row. Calls are
	// serialized.
	Progress func(done, total int)

	mu sync.Mutex
}

func (r *Runner) name() string {
	if r.Name == "" {
		return DefaultOperation
	}
	return r.Name
}

func (r *Runner) concurrency() int {
	if r.Concurrency < 1 {
		return 1
	}
	return r.Concurrency
}

// RunSequential processes the rows of t in table order. Row errors are
// recorded in the result columns and never stop the run.
func (r *Runner) RunSequential(ctx context.Context, t *table.Table) (*Result, error) {
	res := &Result{}
	err := r.sequential(ctx, t, allRows(t), res, &atomic.Int64{}, t.Len())
	return res.sorted(), err
}

// RunConcurrent processes the rows of t with up to Concurrency rows in
// flight. Completion order is unspecified.
func (r *Runner) RunConcurrent(ctx context.Context, t *table.Table) (*Result, error) {
	res := &Result{}
	err := r.concurrent(ctx, t, allRows(t), res, &atomic.Int64{}, t.Len())
	return res.sorted(), err
}

// Run processes t. With a concurrency above one, the rows taking part in a
// calculation tree are processed first, one at a time in dependency order,
// and only the independent rows are dispatched concurrently.
func (r *Runner) Run(ctx context.Context, t *table.Table) (*Result, error) {
	if r.concurrency() < 2 {
		return r.RunSequential(ctx, t)
	}

	tree, independent, err := r.partition(t)
	if err != nil {
		return nil, err
	}

	logger := logging.OrDiscard(r.Logger)
	logger.Debug("dispatching batch", "operation", r.name(),
		"in_tree", len(tree), "independent", len(independent), "workers", r.concurrency())

	res := &Result{}
	done := &atomic.Int64{}
	if err := r.sequential(ctx, t, tree, res, done, t.Len()); err != nil {
		return res.sorted(), err
	}
	err = r.concurrent(ctx, t, independent, res, done, t.Len())
	return res.sorted(), err
}

// partition returns the row indices of the calculation tree, in dependency
// order, and of the independent rows, in table order.
func (r *Runner) partition(t *table.Table) (tree, independent []int, err error) {
	opts := r.Sort
	opts.Logger = r.Logger

	cols := opts.Columns
	if cols.References == "" {
		cols.References = calc.DefaultColumns().References
	}
	formulaCol, ok, err := FormulaColumn(t, cols)
	if err != nil {
		return nil, nil, err
	}
	if !ok || !hasFormula(t, formulaCol) {
		return nil, allRows(t), nil
	}
	opts.Columns.Formula = formulaCol

	sorter := calc.NewSorter(opts)
	a, err := sorter.Analyze(t)
	if err != nil {
		return nil, nil, err
	}

	treeItems, indepItems := calc.Partition(a.Items, a.Graph)
	for _, it := range indepItems {
		independent = append(independent, it.Row)
	}
	if len(treeItems) == 0 {
		return nil, independent, nil
	}

	order, err := sorter.Order(a)
	if err != nil {
		return nil, nil, err
	}
	inTree := make(map[string]int, len(treeItems))
	for _, it := range treeItems {
		inTree[it.Name] = it.Row
	}
	for _, name := range order {
		if row, ok := inTree[name]; ok {
			tree = append(tree, row)
		}
	}
	return tree, independent, nil
}

func (r *Runner) sequential(ctx context.Context, t *table.Table, rows []int, res *Result, done *atomic.Int64, total int) error {
	for _, i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.record(res, r.process(ctx, t, i))
		r.progress(done, total)
	}
	return nil
}

func (r *Runner) concurrent(ctx context.Context, t *table.Table, rows []int, res *Result, done *atomic.Int64, total int) error {
	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(r.concurrency()))

	var acquireErr error
	for _, i := range rows {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			r.record(res, r.process(ctx, t, i))
			r.progress(done, total)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return acquireErr
}

// process applies the operation to row i and writes its result columns.
// It returns a failure, or nil on success.
func (r *Runner) process(ctx context.Context, t *table.Table, i int) *Failure {
	op := r.name()
	row := t.Row(i)

	err := r.call(ctx, row)
	if err == nil {
		row.Set(op, table.FormatBool(true))
		return nil
	}

	row.Set(ErrorColumn(op), err.Error())
	logging.OrDiscard(r.Logger).Error("Error processing row", "row", i, "error", err)
	return &Failure{Row: i, Name: row.Get(r.nameColumn()), Err: err}
}

// call runs the operation, turning a panic into a row error.
func (r *Runner) call(ctx context.Context, row *table.Row) (err error) {
	if r.Operation == nil {
		return errors.New("no operation configured")
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("operation panicked: %v", p)
		}
	}()
	return r.Operation(ctx, row)
}

func (r *Runner) nameColumn() string {
	if r.Sort.Columns.Name != "" {
		return r.Sort.Columns.Name
	}
	return calc.DefaultColumns().Name
}

func (r *Runner) record(res *Result, f *Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.Processed++
	if f != nil {
		res.Failures = append(res.Failures, *f)
	}
}

func (r *Runner) progress(done *atomic.Int64, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := done.Add(1)
	if r.Progress != nil {
		r.Progress(int(n), total)
	}
}

func allRows(t *table.Table) []int {
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	return rows
}
