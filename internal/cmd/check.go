package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffee-platform/coffee-go/internal/output"
	"github.com/coffee-platform/coffee-go/internal/table"
	"github.com/coffee-platform/coffee-go/internal/workflow"
)

var (
	checkConcurrent bool
	checkWorkers    int
)

var checkCmd = &cobra.Command{
	Use:   "check <batch.csv>",
	Short: "Check every formula reference of a batch",
	Long: `Run the reference check over every row of a batch.

The batch is ordered by calculation dependency first. A row fails when its
formula references an item that is not part of the batch. The results are
written next to the input as <batch>_checked_<YYYYMMDD_HHMM>.csv with the
columns "checked" and "checked_error" added.

With --concurrent, rows of calculation trees are still checked one at a time
in dependency order; only the independent rows are checked concurrently.

Exit codes:
  0  Every row passed
  1  At least one row failed`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkConcurrent, "concurrent", false, "check independent rows concurrently")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 0, "rows checked at once with --concurrent (default: concurrent_request_limit)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	t, err := loadBatch(path)
	if err != nil {
		return err
	}

	opts := cfg.SorterOptions(logger)
	prepared, err := workflow.Prepare(t, workflow.CheckOperation, opts)
	if err != nil {
		return err
	}

	op, err := checkOperation(prepared)
	if err != nil {
		return err
	}

	runner := &workflow.Runner{
		Operation:   op,
		Name:        workflow.CheckOperation,
		Concurrency: 1,
		Sort:        opts,
		Logger:      logger,
	}
	if checkConcurrent || cfg.Coffee.Workers.Concurrent {
		runner.Concurrency = cfg.Coffee.Workers.ConcurrentRequestLimit
		if checkWorkers > 0 {
			runner.Concurrency = checkWorkers
		}
	}
	if printer.Colored() {
		runner.Progress = func(done, total int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\r%s", printer.ProgressBar(done, total, 30))
			if done == total {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}

	res, err := runner.Run(cmd.Context(), prepared)
	if err != nil {
		return err
	}

	resultPath, err := workflow.SaveResults(prepared, path, workflow.CheckOperation, time.Now(), logger)
	if err != nil {
		return err
	}

	printer.Header("Reference Check")
	printer.Println()
	printer.Stats("RESULTS", []output.Stat{
		{Label: "Rows", Value: res.Processed},
		{Label: "Passed", Value: res.Succeeded()},
		{Label: "Failed", Value: len(res.Failures)},
		{Label: "Workers", Value: runner.Concurrency},
		{Label: "Results file", Value: resultPath},
	})

	if len(res.Failures) == 0 {
		return nil
	}

	failures := make([]output.RowFailure, len(res.Failures))
	for i, f := range res.Failures {
		// Data rows are numbered from 1.
		failures[i] = output.RowFailure{Row: f.Row + 1, Name: f.Name, Error: f.Err.Error()}
	}
	printer.Failures(failures)
	return NewExitError(1, "")
}

// checkOperation builds the reference check for the prepared batch. A batch
// without a formula column has nothing to check.
func checkOperation(prepared *table.Table) (workflow.Operation, error) {
	cols := cfg.Coffee.Columns
	formulaCol, ok, err := workflow.FormulaColumn(prepared, cols)
	if err != nil {
		return nil, err
	}
	if !ok {
		return func(context.Context, *table.Row) error { return nil }, nil
	}
	cols.Formula = formulaCol
	return workflow.ReferenceCheck(prepared, cols)
}
