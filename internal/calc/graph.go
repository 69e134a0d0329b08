package calc

import (
	"fmt"
)

// Graph is the dependency graph of one batch: item name -> referenced item names.
type Graph struct {
	// nodes preserves row order; root discovery and traversal follow it.
	nodes []string

	// Adjacency lists
	dependencies map[string][]string            // item -> what its formula references
	dependents   map[string][]string            // item -> what references it
	dependsOn    map[string]map[string]struct{} // set view of dependencies

	// dangling holds the pruned references per item.
	dangling map[string][]string
}

// NewGraph builds the dependency graph of items. References to names that are
// not items of the batch are pruned.
func NewGraph(items []*Item) (*Graph, error) {
	names := make([]string, 0, len(items))
	refs := make(map[string][]string, len(items))
	rows := make(map[string]int, len(items))

	for _, it := range items {
		if first, ok := rows[it.Name]; ok {
			return nil, &DuplicateNameError{Name: it.Name, Rows: [2]int{first + 1, it.Row + 1}}
		}
		rows[it.Name] = it.Row
		names = append(names, it.Name)
		refs[it.Name] = it.References
	}

	return FromReferences(names, refs)
}

// FromReferences builds a graph from node names and their raw references.
// Names missing from refs have no dependencies.
func FromReferences(names []string, refs map[string][]string) (*Graph, error) {
	g := &Graph{
		nodes:        make([]string, 0, len(names)),
		dependencies: make(map[string][]string, len(names)),
		dependents:   make(map[string][]string),
		dependsOn:    make(map[string]map[string]struct{}, len(names)),
		dangling:     make(map[string][]string),
	}

	for _, name := range names {
		if _, ok := g.dependencies[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		g.nodes = append(g.nodes, name)
		g.dependencies[name] = make([]string, 0)
		g.dependsOn[name] = make(map[string]struct{})
	}

	for _, name := range g.nodes {
		for _, ref := range refs[name] {
			// Only keep references to items of this batch
			if _, ok := g.dependsOn[ref]; !ok {
				g.dangling[name] = append(g.dangling[name], ref)
				continue
			}
			g.dependencies[name] = append(g.dependencies[name], ref)
			if _, seen := g.dependsOn[name][ref]; !seen {
				g.dependsOn[name][ref] = struct{}{}
				g.dependents[ref] = append(g.dependents[ref], name)
			}
		}
	}

	return g, nil
}

// Nodes returns the node names in row order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Has checks if name is a node of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.dependsOn[name]
	return ok
}

// EdgeCount returns the number of distinct dependency edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, deps := range g.dependsOn {
		count += len(deps)
	}
	return count
}

// Dependencies returns the pruned references of an item, in formula order.
func (g *Graph) Dependencies(name string) []string {
	return g.dependencies[name]
}

// Dependents returns the items whose formula references name.
func (g *Graph) Dependents(name string) []string {
	return g.dependents[name]
}

// DependsOn reports whether a's formula references b.
func (g *Graph) DependsOn(a, b string) bool {
	_, ok := g.dependsOn[a][b]
	return ok
}

// Dangling returns the references that were pruned because no item of the
// batch carries that name, keyed by the referencing item.
func (g *Graph) Dangling() map[string][]string {
	out := make(map[string][]string, len(g.dangling))
	for k, v := range g.dangling {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Targets returns the set of names referenced by at least one item.
func (g *Graph) Targets() map[string]bool {
	targets := make(map[string]bool)
	for _, deps := range g.dependencies {
		for _, dep := range deps {
			targets[dep] = true
		}
	}
	return targets
}

// TransitiveDependencies returns every item name references, directly or indirectly.
func (g *Graph) TransitiveDependencies(name string) []string {
	return g.walk(name, g.dependencies)
}

// TransitiveDependents returns every item that references name, directly or indirectly.
func (g *Graph) TransitiveDependents(name string) []string {
	return g.walk(name, g.dependents)
}

func (g *Graph) walk(start string, adj map[string][]string) []string {
	visited := map[string]bool{start: true}
	var result []string

	var dfs func(id string)
	dfs = func(id string) {
		for _, next := range adj[id] {
			if !visited[next] {
				visited[next] = true
				result = append(result, next)
				dfs(next)
			}
		}
	}

	dfs(start)
	return result
}

// Leaves returns items whose formula references no other item.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, name := range g.nodes {
		if len(g.dependencies[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	return leaves
}

// Statistics summarizes the graph.
type Statistics struct {
	Nodes           int     `json:"nodes"`
	Edges           int     `json:"edges"`
	Roots           int     `json:"roots"`
	Leaves          int     `json:"leaves"`
	Dangling        int     `json:"dangling"`
	AvgDependencies float64 `json:"avg_dependencies"`
}

// Statistics returns graph statistics.
func (g *Graph) Statistics() Statistics {
	stats := Statistics{
		Nodes:  g.Len(),
		Edges:  g.EdgeCount(),
		Roots:  len(g.roots()),
		Leaves: len(g.Leaves()),
	}
	for _, refs := range g.dangling {
		stats.Dangling += len(refs)
	}
	if stats.Nodes > 0 {
		stats.AvgDependencies = float64(stats.Edges) / float64(stats.Nodes)
	}
	return stats
}
