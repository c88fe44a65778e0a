// Package graph holds the dependency-graph algorithms behind registry
// validation and the dispose sweep. Graphs are built once during registry
// construction and read-only afterwards.
package graph

// Graph is a directed graph keyed by K. Node and edge order follow
// insertion order, so walks are deterministic.
type Graph[K comparable] struct {
	order []K
	nodes map[K]struct{}
	edges map[K][]K
}

func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		nodes: make(map[K]struct{}),
		edges: make(map[K][]K),
	}
}

// AddNode records a node and its outgoing edges. Adding an existing node
// replaces its edges and keeps its original position.
func (g *Graph[K]) AddNode(id K, deps []K) {
	if _, exists := g.nodes[id]; !exists {
		g.order = append(g.order, id)
	}
	g.nodes[id] = struct{}{}

	owned := make([]K, len(deps))
	copy(owned, deps)
	g.edges[id] = owned
}

func (g *Graph[K]) HasNode(id K) bool {
	_, exists := g.nodes[id]
	return exists
}

// Nodes returns the node ids in insertion order.
func (g *Graph[K]) Nodes() []K {
	nodes := make([]K, len(g.order))
	copy(nodes, g.order)
	return nodes
}

func (g *Graph[K]) Size() int {
	return len(g.order)
}

// Dependencies returns the outgoing edges of id in declaration order.
func (g *Graph[K]) Dependencies(id K) []K {
	deps, exists := g.edges[id]
	if !exists {
		return nil
	}
	result := make([]K, len(deps))
	copy(result, deps)
	return result
}

// Dependents returns every node with an edge into id.
func (g *Graph[K]) Dependents(id K) []K {
	var dependents []K
	for _, nodeID := range g.order {
		for _, dep := range g.edges[nodeID] {
			if dep == id {
				dependents = append(dependents, nodeID)
				break
			}
		}
	}
	return dependents
}
