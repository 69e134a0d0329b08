package calc

import (
	"fmt"
	"slices"
	"strings"
)

// Roots returns the items no other item references, in row order. These are
// the outermost calculations and seed the traversal.
func (g *Graph) Roots() ([]string, error) {
	roots := g.roots()
	if len(roots) == 0 && g.Len() > 0 {
		return nil, &NoRootFoundError{Nodes: g.Len()}
	}
	return roots, nil
}

func (g *Graph) roots() []string {
	targets := g.Targets()
	roots := make([]string, 0)
	for _, name := range g.nodes {
		if !targets[name] {
			roots = append(roots, name)
		}
	}
	return roots
}

// IterativeSort walks g depth-first from starts without recursion and returns
// the nodes reached, each one ahead of everything it references.
//
// starts is used as a stack, so the last start is walked first. Cycles are not
// detected: on a cyclic graph the result is complete for the reachable nodes
// but does not respect every edge.
func IterativeSort(g *Graph, starts []string) []string {
	seen := make(map[string]bool, g.Len())
	stack := make([]string, 0) // open path
	order := make([]string, 0) // closed nodes, most recently closed last

	work := make([]string, len(starts))
	copy(work, starts)

	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[v] {
			continue
		}
		seen[v] = true
		work = append(work, g.dependencies[v]...)

		// Close every open node that v does not hang off.
		for len(stack) > 0 && !g.DependsOn(stack[len(stack)-1], v) {
			order = append(order, stack[len(stack)-1])
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, v)
	}

	result := make([]string, 0, len(stack)+len(order))
	result = append(result, stack...)
	for i := len(order) - 1; i >= 0; i-- {
		result = append(result, order[i])
	}
	return result
}

// CyclePolicy selects how ordering treats circular references.
type CyclePolicy int

const (
	// CycleStrict rejects cyclic graphs with a CycleError.
	CycleStrict CyclePolicy = iota
	// CycleLenient orders cyclic graphs anyway. The result lists every node
	// once but may place an item before something it references.
	CycleLenient
)

// String returns the config spelling of the policy.
func (p CyclePolicy) String() string {
	switch p {
	case CycleStrict:
		return "strict"
	case CycleLenient:
		return "lenient"
	default:
		return fmt.Sprintf("CyclePolicy(%d)", int(p))
	}
}

// ParseCyclePolicy converts "strict" or "lenient" to a CyclePolicy.
func ParseCyclePolicy(s string) (CyclePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return CycleStrict, nil
	case "lenient":
		return CycleLenient, nil
	default:
		return CycleStrict, fmt.Errorf("unknown cycle policy %q (want strict or lenient)", s)
	}
}

// Order returns every node in processing order.
//
// With reverse false, every item comes after the items its formula
// references (dependencies first). With reverse true the exact reverse
// permutation is returned.
func (g *Graph) Order(reverse bool, policy CyclePolicy) ([]string, error) {
	roots, err := g.Roots()
	if err != nil {
		return nil, err
	}

	if policy == CycleStrict {
		if cycles := g.FindCycles(); len(cycles) > 0 {
			paths := make([][]string, len(cycles))
			for i, c := range cycles {
				paths[i] = g.FindCyclePath(c)
			}
			return nil, &CycleError{Cycles: paths}
		}
	}

	// The walk lists dependents ahead of their dependencies.
	result := g.appendUnreached(IterativeSort(g, roots))
	if !reverse {
		slices.Reverse(result)
	}
	return result, nil
}

// appendUnreached appends, in row order, the nodes a walk could not reach.
// Only nodes on a cycle that no root leads into are ever unreached.
func (g *Graph) appendUnreached(walk []string) []string {
	if len(walk) == g.Len() {
		return walk
	}
	reached := make(map[string]bool, len(walk))
	for _, name := range walk {
		reached[name] = true
	}
	for _, name := range g.nodes {
		if !reached[name] {
			walk = append(walk, name)
		}
	}
	return walk
}

// Unreachable returns the nodes that no root leads to, in row order.
func (g *Graph) Unreachable() []string {
	walk := IterativeSort(g, g.roots())
	return g.appendUnreached(walk)[len(walk):]
}
