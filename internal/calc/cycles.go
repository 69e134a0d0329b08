package calc

// tarjanState holds the state for Tarjan's strongly connected components algorithm.
type tarjanState struct {
	graph   *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// FindCycles returns the groups of items whose formulas reference each other
// in a loop: every strongly connected component with more than one item, plus
// items that reference themselves.
func (g *Graph) FindCycles() [][]string {
	state := &tarjanState{
		graph:   g,
		stack:   make([]string, 0),
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
		sccs:    make([][]string, 0),
	}

	for _, name := range g.nodes {
		if _, visited := state.indices[name]; !visited {
			state.strongConnect(name)
		}
	}

	var cycles [][]string
	for _, scc := range state.sccs {
		if len(scc) > 1 || g.DependsOn(scc[0], scc[0]) {
			cycles = append(cycles, scc)
		}
	}

	return cycles
}

func (s *tarjanState) strongConnect(v string) {
	s.indices[v] = s.index
	s.lowlink[v] = s.index
	s.index++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, w := range s.graph.dependencies[v] {
		if _, visited := s.indices[w]; !visited {
			s.strongConnect(w)
			s.lowlink[v] = min(s.lowlink[v], s.lowlink[w])
		} else if s.onStack[w] {
			s.lowlink[v] = min(s.lowlink[v], s.indices[w])
		}
	}

	// v is the root of a component: pop it off the stack
	if s.lowlink[v] == s.indices[v] {
		var scc []string
		for {
			w := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		s.sccs = append(s.sccs, scc)
	}
}

// HasCycles returns true if any formulas reference each other in a loop.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// FindCyclePath returns a closed path through the given cycle members,
// starting and ending at the first member.
func (g *Graph) FindCyclePath(cycleMembers []string) []string {
	if len(cycleMembers) == 0 {
		return nil
	}

	start := cycleMembers[0]
	if g.DependsOn(start, start) && len(cycleMembers) == 1 {
		return []string{start, start}
	}

	memberSet := make(map[string]bool, len(cycleMembers))
	for _, m := range cycleMembers {
		memberSet[m] = true
	}

	visited := make(map[string]bool)
	var path []string

	var dfs func(current string) bool
	dfs = func(current string) bool {
		path = append(path, current)
		visited[current] = true

		for _, dep := range g.dependencies[current] {
			if !memberSet[dep] {
				continue
			}
			if dep == start && len(path) > 1 {
				path = append(path, start)
				return true
			}
			if !visited[dep] && dfs(dep) {
				return true
			}
		}

		path = path[:len(path)-1]
		return false
	}

	if dfs(start) {
		return path
	}
	return cycleMembers
}
