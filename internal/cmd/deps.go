package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/output"
)

var (
	depsReverse bool
	depsAll     bool
	depsJSON    bool
)

var depsCmd = &cobra.Command{
	Use:   "deps <batch.csv> [name]",
	Short: "Show item dependencies",
	Long: `Display dependency information for the items of a batch.

Without a name, shows an overview of the dependency graph with every item
listed in processing order. With a name, shows the items that item's
formula references.

Flags:
  --reverse   Show the items referencing it instead
  --all       Show transitive dependencies (not just direct)
  --json      Output as JSON`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().BoolVarP(&depsReverse, "reverse", "r", false, "show dependents instead of dependencies")
	depsCmd.Flags().BoolVarP(&depsAll, "all", "a", false, "show transitive dependencies")
	depsCmd.Flags().BoolVar(&depsJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	_, a, err := analyzeBatch(args[0])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		return showItemDeps(cmd, a.Graph, args[1])
	}
	return showDepsOverview(cmd, a)
}

type itemDeps struct {
	Name       string   `json:"name"`
	Direction  string   `json:"direction"`
	Transitive bool     `json:"transitive"`
	Items      []string `json:"items"`
}

func showItemDeps(cmd *cobra.Command, g *calc.Graph, name string) error {
	if !g.Has(name) {
		return fmt.Errorf("item %q not found in batch", name)
	}

	result := itemDeps{Name: name, Direction: "dependencies", Transitive: depsAll}
	switch {
	case depsReverse && depsAll:
		result.Items = g.TransitiveDependents(name)
	case depsReverse:
		result.Items = g.Dependents(name)
	case depsAll:
		result.Items = g.TransitiveDependencies(name)
	default:
		result.Items = uniq(g.Dependencies(name))
	}
	if depsReverse {
		result.Direction = "dependents"
	}
	if result.Items == nil {
		result.Items = []string{}
	}

	if depsJSON {
		return printJSON(cmd, result)
	}

	label := "Dependencies"
	if depsReverse {
		label = "Dependents"
	}
	if depsAll {
		label = "Transitive " + strings.ToLower(label)
	}
	printer.Header(fmt.Sprintf("%s of %s", label, name))
	if len(result.Items) == 0 {
		printer.Println("  (none)")
		return nil
	}
	for _, it := range result.Items {
		printer.Print("  %s\n", it)
	}
	return nil
}

type depsOverview struct {
	Statistics calc.Statistics `json:"statistics"`
	Order      []string        `json:"order"`
	Cyclic     bool            `json:"cyclic"`
}

func showDepsOverview(cmd *cobra.Command, a *calc.Analysis) error {
	g := a.Graph
	stats := g.Statistics()

	// The overview is shown even for batches the sorter would reject.
	order, err := g.Order(false, calc.CycleLenient)
	if err != nil {
		order = g.Nodes()
		logger.Warn("batch cannot be ordered", "error", err)
	}
	cyclic := g.HasCycles()

	if depsJSON {
		return printJSON(cmd, depsOverview{Statistics: stats, Order: order, Cyclic: cyclic})
	}

	printer.Header("Dependency Graph")
	printer.Println()
	printer.Stats("SUMMARY", []output.Stat{
		{Label: "Items", Value: stats.Nodes},
		{Label: "References", Value: stats.Edges},
		{Label: "Roots", Value: stats.Roots},
		{Label: "Leaves", Value: stats.Leaves},
		{Label: "Unknown references", Value: stats.Dangling},
		{Label: "Avg references per item", Value: fmt.Sprintf("%.2f", stats.AvgDependencies)},
		{Label: "Acyclic", Value: printer.Checkmark(!cyclic)},
	})

	byName := make(map[string]*calc.Item, len(a.Items))
	for _, it := range a.Items {
		byName[it.Name] = it
	}
	dangling := g.Dangling()

	items := make([]output.ItemSummary, 0, len(order))
	for _, name := range order {
		it := byName[name]
		items = append(items, output.ItemSummary{
			Name:         name,
			Calculation:  it.IsCalculation,
			Formula:      it.Formula,
			Dependencies: uniq(g.Dependencies(name)),
			Dependents:   len(g.Dependents(name)),
			Dangling:     dangling[name],
		})
	}
	printer.Section("PROCESSING ORDER")
	printer.Items(items)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// uniq drops repeated names, keeping the first occurrence.
func uniq(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
