package graph

// FindCycle returns one cycle as a path whose first and last elements are
// the same node, or nil when the graph is acyclic. Edges to unknown nodes
// are skipped.
func (g *Graph[K]) FindCycle() []K {
	visited := make(map[K]bool, len(g.order))
	inPath := make(map[K]bool, len(g.order))
	var path []K

	var dfs func(id K) []K
	dfs = func(id K) []K {
		if inPath[id] {
			var cycle []K
			found := false
			for _, p := range path {
				if p == id {
					found = true
				}
				if found {
					cycle = append(cycle, p)
				}
			}
			return append(cycle, id)
		}
		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)
		inPath[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		return nil
	}

	for _, id := range g.order {
		if visited[id] {
			continue
		}
		if cycle := dfs(id); cycle != nil {
			return cycle
		}
	}
	return nil
}

// HasCycle reports whether any cycle exists.
func (g *Graph[K]) HasCycle() bool {
	return g.FindCycle() != nil
}
