package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/table"
	"github.com/coffee-platform/coffee-go/internal/testutil"
)

const batchCSV = `name,formula,is_calculation,unit
C,[B] * [A],true,t
NOTES,,false,
B,[A] + 1,true,kg
OTHER,,false,
A,,false,kg
`

func TestFormulaColumn(t *testing.T) {
	cols := calc.DefaultColumns()

	name, ok, err := FormulaColumn(testutil.ParseTable(t, "name,name_formula\nA,\n"), cols)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "name_formula", name)

	_, ok, err = FormulaColumn(testutil.ParseTable(t, "name,value\nA,1\n"), cols)
	require.NoError(t, err)
	assert.False(t, ok)

	// The references helper column is not a formula column.
	name, ok, err = FormulaColumn(testutil.ParseTable(t, "name,formula,formula_variables\nA,,\n"), cols)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "formula", name)
}

func TestFormulaColumnConfigured(t *testing.T) {
	cols := calc.DefaultColumns()
	cols.Formula = "expr"

	name, ok, err := FormulaColumn(testutil.ParseTable(t, "name,expr\nB,[A]\nA,\n"), cols)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "expr", name)

	// The configured column wins over the name scan.
	name, ok, err = FormulaColumn(testutil.ParseTable(t, "name,formula,name_formula\nA,,\n"), calc.DefaultColumns())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "formula", name)

	// Absent configured column falls back to the scan.
	name, ok, err = FormulaColumn(testutil.ParseTable(t, "name,name_formula\nA,\n"), cols)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "name_formula", name)
}

func TestFormulaColumnMultiple(t *testing.T) {
	_, _, err := FormulaColumn(testutil.ParseTable(t, "name,calc_formula,name_formula\nA,,\n"), calc.DefaultColumns())

	var multi *MultipleFormulaColumnError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, []string{"calc_formula", "name_formula"}, multi.Columns)
}

func TestPrepareConfiguredFormulaColumn(t *testing.T) {
	tbl := testutil.ParseTable(t, "name,expr\nB,[A] + 1\nA,\n")

	prepared, err := Prepare(tbl, "op", calc.Options{Columns: calc.Columns{Formula: "expr"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, prepared.Column("name"))
}

func TestPrepare(t *testing.T) {
	tbl := testutil.ParseTable(t, batchCSV)

	prepared, err := Prepare(tbl, "uploaded", calc.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "formula", "is_calculation", "unit", "uploaded", "uploaded_error"}, prepared.Columns())
	assert.Equal(t, []string{"false", "false", "false", "false", "false"}, prepared.Column("uploaded"))
	assert.Equal(t, []string{"", "", "", "", ""}, prepared.Column("uploaded_error"))

	names := prepared.Column("name")
	assert.ElementsMatch(t, tbl.Column("name"), names)
	assert.Less(t, slices.Index(names, "A"), slices.Index(names, "B"))
	assert.Less(t, slices.Index(names, "B"), slices.Index(names, "C"))

	// Input is untouched
	assert.False(t, tbl.HasColumn("uploaded"))
}

func TestPrepareWithoutFormulas(t *testing.T) {
	tbl := testutil.ParseTable(t, "name,formula\nZ,\nY,\n")

	prepared, err := Prepare(tbl, "", calc.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Z", "Y"}, prepared.Column("name"))
	assert.True(t, prepared.HasColumn(DefaultOperation))
	assert.Equal(t, []string{"", ""}, prepared.Column("formula"))
}

func TestPrepareErrors(t *testing.T) {
	_, err := Prepare(testutil.ParseTable(t, "name,formula,name_formula\nA,,\n"), "op", calc.Options{})
	var multi *MultipleFormulaColumnError
	assert.ErrorAs(t, err, &multi)

	_, err = Prepare(testutil.ParseTable(t, "name,formula\nA,[B]\nB,[A]\n"), "op", calc.Options{})
	assert.ErrorIs(t, err, calc.ErrNoRoot)
}

func TestRunSequential(t *testing.T) {
	prepared, err := Prepare(testutil.ParseTable(t, batchCSV), "uploaded", calc.Options{})
	require.NoError(t, err)

	var seen []string
	var progress []int
	r := &Runner{
		Name: "uploaded",
		Operation: func(_ context.Context, row *table.Row) error {
			seen = append(seen, row.Get("name"))
			if row.Get("name") == "OTHER" {
				return errors.New("rejected by server")
			}
			return nil
		},
		Progress: func(done, total int) {
			assert.Equal(t, 5, total)
			progress = append(progress, done)
		},
	}

	res, err := r.RunSequential(context.Background(), prepared)
	require.NoError(t, err)

	assert.Equal(t, prepared.Column("name"), seen)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)
	assert.Equal(t, 5, res.Processed)
	assert.Equal(t, 4, res.Succeeded())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "OTHER", res.Failures[0].Name)

	for _, row := range prepared.Rows() {
		if row.Get("name") == "OTHER" {
			assert.Equal(t, "false", row.Get("uploaded"))
			assert.Equal(t, "rejected by server", row.Get("uploaded_error"))
		} else {
			assert.Equal(t, "true", row.Get("uploaded"))
			assert.Empty(t, row.Get("uploaded_error"))
		}
	}
}

func TestRunRecoversPanics(t *testing.T) {
	prepared, err := Prepare(testutil.ParseTable(t, "name,formula\nA,\n"), "op", calc.Options{})
	require.NoError(t, err)

	r := &Runner{Name: "op", Operation: func(context.Context, *table.Row) error { panic("boom") }}
	res, err := r.RunSequential(context.Background(), prepared)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, prepared.Row(0).Get("op_error"), "boom")
}

func TestRunConcurrentBoundsWorkers(t *testing.T) {
	var csv = "name,formula\n"
	for i := range 40 {
		csv += fmt.Sprintf("ITEM_%d,\n", i)
	}
	prepared, err := Prepare(testutil.ParseTable(t, csv), "op", calc.Options{})
	require.NoError(t, err)

	var inFlight, peak atomic.Int64
	var calls atomic.Int64
	r := &Runner{
		Name:        "op",
		Concurrency: 3,
		Operation: func(context.Context, *table.Row) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			calls.Add(1)
			return nil
		},
	}

	var mu sync.Mutex
	last := 0
	r.Progress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, last+1, done)
		last = done
	}

	res, err := r.RunConcurrent(context.Background(), prepared)
	require.NoError(t, err)

	assert.Equal(t, int64(40), calls.Load())
	assert.Equal(t, 40, res.Processed)
	assert.LessOrEqual(t, peak.Load(), int64(3))
	assert.Equal(t, 40, last)
	for _, v := range prepared.Column("op") {
		assert.Equal(t, "true", v)
	}
}

func TestRunProcessesTreeBeforeIndependentRows(t *testing.T) {
	prepared, err := Prepare(testutil.ParseTable(t, batchCSV), "op", calc.Options{})
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	r := &Runner{
		Name:        "op",
		Concurrency: 4,
		Operation: func(_ context.Context, row *table.Row) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, row.Get("name"))
			return nil
		},
	}

	res, err := r.Run(context.Background(), prepared)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Processed)

	require.Len(t, order, 5)
	assert.Equal(t, []string{"A", "B", "C"}, order[:3])
	assert.ElementsMatch(t, []string{"NOTES", "OTHER"}, order[3:])
}

func TestRunWithoutFormulaColumn(t *testing.T) {
	tbl := testutil.ParseTable(t, "name,value\nA,1\nB,2\n")
	tbl.AddColumn("op", "false")
	tbl.AddColumn("op_error", "")

	r := &Runner{Name: "op", Concurrency: 2, Operation: func(context.Context, *table.Row) error { return nil }}
	res, err := r.Run(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
}

func TestRunCancelled(t *testing.T) {
	prepared, err := Prepare(testutil.ParseTable(t, batchCSV), "op", calc.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Name: "op", Operation: func(context.Context, *table.Row) error { return nil }}
	_, err = r.RunSequential(ctx, prepared)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultPath(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC)

	assert.Equal(t, filepath.Join("batches", "upload_created_20260314_0915.csv"),
		ResultPath(filepath.Join("batches", "upload.csv"), "created", now))
	assert.Equal(t, "upload_processed_20260314_0915.csv", ResultPath("upload", "processed", now))
}

func TestSaveResults(t *testing.T) {
	input := testutil.WriteCSVFile(t, "batch.csv", batchCSV)
	tbl, err := table.Load(input)
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC)
	path, err := SaveResults(tbl, input, "checked", now, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "batch_checked_20260314_0915.csv"), path)

	saved, err := table.Load(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Column("name"), saved.Column("name"))
}

func TestReferenceCheck(t *testing.T) {
	tbl := testutil.ParseTable(t, `name,formula,is_calculation
A,,false
B,[A] + [MISSING],true
C,[B] * 2,true
`)
	op, err := ReferenceCheck(tbl, calc.DefaultColumns())
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, op(ctx, tbl.Row(0)))
	assert.EqualError(t, op(ctx, tbl.Row(1)), "formula references unknown items: MISSING")
	assert.NoError(t, op(ctx, tbl.Row(2)))

	_, err = ReferenceCheck(testutil.ParseTable(t, "name\nA\n"), calc.DefaultColumns())
	assert.ErrorIs(t, err, calc.ErrMissingColumn)
}
