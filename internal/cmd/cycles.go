package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/output"
)

var cyclesJSON bool

var cyclesCmd = &cobra.Command{
	Use:   "cycles <batch.csv>",
	Short: "Detect circular references",
	Long: `Detect and display circular references between the formulas of a batch.

Items whose formulas reference each other in a loop can never be ordered:
each one waits for another to be processed first. A formula referencing its
own item is reported as a loop of one.

Uses Tarjan's Strongly Connected Components algorithm for detection.

Exit codes:
  0  No circular references found
  1  Circular references found`,
	Args: cobra.ExactArgs(1),
	RunE: runCycles,
}

func init() {
	cyclesCmd.Flags().BoolVar(&cyclesJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(cyclesCmd)
}

type cycleResult struct {
	Found  bool       `json:"found"`
	Count  int        `json:"count"`
	Cycles [][]string `json:"cycles"`
}

func runCycles(cmd *cobra.Command, args []string) error {
	_, a, err := analyzeBatch(args[0])
	if err != nil {
		return err
	}

	paths := cyclePaths(a.Graph)

	if cyclesJSON {
		if err := printJSON(cmd, cycleResult{Found: len(paths) > 0, Count: len(paths), Cycles: paths}); err != nil {
			return err
		}
	} else {
		printCycles(a.Graph, paths)
	}

	if len(paths) > 0 {
		return NewExitError(1, "")
	}
	return nil
}

// cyclePaths returns one closed path per circular reference group.
func cyclePaths(g *calc.Graph) [][]string {
	paths := make([][]string, 0)
	for _, members := range g.FindCycles() {
		path := g.FindCyclePath(members)
		if len(path) == 0 {
			path = append(slices.Clone(members), members[0])
		}
		paths = append(paths, path)
	}
	return paths
}

func printCycles(g *calc.Graph, paths [][]string) {
	stats := g.Statistics()

	printer.Header("Circular Reference Analysis")
	printer.Println()
	printer.Stats("BATCH", []output.Stat{
		{Label: "Items", Value: stats.Nodes},
		{Label: "References", Value: stats.Edges},
	})

	if len(paths) == 0 {
		printer.Print("%s No circular references found!\n", printer.Checkmark(true))
		return
	}

	involved := 0
	for _, p := range paths {
		involved += len(p) - 1
	}
	printer.Print("%s Found %d circular reference group(s) involving %d item(s)\n\n",
		printer.Checkmark(false), len(paths), involved)
	printer.Cycles(paths)
}
