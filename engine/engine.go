// Package engine implements the pathfinding capability consumed by the
// routing core: a weighted directed multigraph answering shortest-path
// queries via Dijkstra and A*, with a parallel batch mode. Instances are
// append-only; queries are read-only and safe to run concurrently once
// mutation has stopped.
package engine

import (
	routing "github.com/IlliaMaluk/transport-routing-system"
)

type halfEdge struct {
	to     int64
	weight float64
}

// Graph is an adjacency-map digraph. Parallel edges between the same
// pair are kept as-is; the search algorithms simply consider each.
type Graph struct {
	adjacency map[int64][]halfEdge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{adjacency: make(map[int64][]halfEdge)}
}

// Factory adapts New to the capability factory the routing core expects.
func Factory() (routing.Engine, error) {
	return New(), nil
}

// AddEdge inserts a directed edge. Both endpoints become known nodes.
func (g *Graph) AddEdge(from, to int64, weight float64) {
	g.adjacency[from] = append(g.adjacency[from], halfEdge{to: to, weight: weight})
	if _, ok := g.adjacency[to]; !ok {
		g.adjacency[to] = nil
	}
}

// NodeCount reports how many nodes the graph knows about.
func (g *Graph) NodeCount() int {
	return len(g.adjacency)
}

func (g *Graph) hasNode(id int64) bool {
	_, ok := g.adjacency[id]
	return ok
}

var _ routing.Engine = (*Graph)(nil)
