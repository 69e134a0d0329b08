package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/table"
)

var (
	orderReverse        bool
	orderSplit          bool
	orderOut            string
	orderKeepReferences bool
	orderLenient        bool
	orderInputOrder     bool
)

var orderCmd = &cobra.Command{
	Use:   "order <batch.csv>",
	Short: "Order batch rows by calculation dependency",
	Long: `Reorder the rows of a batch so that every calculation comes after the
items its formula references. Columns and row contents are unchanged.

References to names that are not part of the batch are ignored. A batch in
which every item is referenced by another item has no starting point and is
rejected, as is a batch with circular references unless --lenient is given.

With --split, the rows are partitioned: rows taking part in a calculation
tree are written in dependency order, followed by a blank line and the
independent rows in input order. --input-order keeps the tree rows in input
order too. With --out, the independent rows go to <out>_independent.csv
instead.

Examples:
    coffee order batch.csv                  # Dependencies first
    coffee order batch.csv --reverse        # Calculations first
    coffee order batch.csv -o sorted.csv    # Write to a file`,
	Args: cobra.ExactArgs(1),
	RunE: runOrder,
}

func init() {
	orderCmd.Flags().BoolVarP(&orderReverse, "reverse", "r", false, "put calculations before the items they reference")
	orderCmd.Flags().BoolVar(&orderSplit, "split", false, "separate calculation tree rows from independent rows")
	orderCmd.Flags().StringVarP(&orderOut, "out", "o", "", "write the ordered batch to a file instead of stdout")
	orderCmd.Flags().BoolVar(&orderKeepReferences, "keep-references", false, "add the extracted references as a column")
	orderCmd.Flags().BoolVar(&orderLenient, "lenient", false, "order batches with circular references anyway")
	orderCmd.Flags().BoolVar(&orderInputOrder, "input-order", false, "with --split, keep calculation tree rows in input order")

	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	t, err := loadBatch(args[0])
	if err != nil {
		return err
	}

	opts := cfg.SorterOptions(logger)
	if cmd.Flags().Changed("reverse") {
		opts.Reverse = orderReverse
	}
	if orderLenient {
		opts.CyclePolicy = calc.CycleLenient
	}
	opts.KeepReferences = orderKeepReferences
	sorter := calc.NewSorter(opts)

	if !orderSplit {
		sorted, err := sorter.Sort(t)
		if err != nil {
			return err
		}
		return writeBatch(cmd, sorted, orderOut)
	}

	split := sorter.SplitOrdered
	if orderInputOrder {
		split = sorter.Split
	}
	inTree, independent, err := split(t)
	if err != nil {
		return err
	}
	logger.Info("split batch", "in_tree", inTree.Len(), "independent", independent.Len())

	if orderOut == "" {
		if err := writeBatch(cmd, inTree, ""); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return writeBatch(cmd, independent, "")
	}

	if err := writeBatch(cmd, inTree, orderOut); err != nil {
		return err
	}
	return writeBatch(cmd, independent, independentPath(orderOut))
}

// writeBatch writes t to path, or to the command output when path is empty.
func writeBatch(cmd *cobra.Command, t *table.Table, path string) error {
	if path == "" {
		return t.WriteCSV(cmd.OutOrStdout())
	}
	if err := t.Save(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("wrote batch", "path", path, "rows", t.Len())
	return nil
}

func independentPath(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".csv"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_independent" + ext
}
