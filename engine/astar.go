package engine

import (
	"container/heap"
	"math"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// heuristic estimates the remaining cost from node to target. Node
// coordinates are not modelled yet, so the estimate is always 0 and A*
// behaves exactly like Dijkstra while remaining admissible.
func (g *Graph) heuristic(node, target int64) float64 {
	return 0
}

// ShortestPathAStar runs A* from source to target. With the current zero
// heuristic its results match Dijkstra; the sentinel semantics are the
// same.
func (g *Graph) ShortestPathAStar(source, target int64) routing.PathResult {
	if !g.hasNode(source) || !g.hasNode(target) {
		return unreachable()
	}

	gScore := map[int64]float64{source: 0}
	prev := make(map[int64]int64)

	pq := &priorityQueue{{cost: g.heuristic(source, target), node: source}}
	heap.Init(pq)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(queueItem)
		if current.node == target {
			break
		}
		currentG, ok := gScore[current.node]
		if !ok {
			continue
		}
		for _, e := range g.adjacency[current.node] {
			tentative := currentG + e.weight
			if d, seen := gScore[e.to]; !seen || tentative < d {
				gScore[e.to] = tentative
				prev[e.to] = current.node
				heap.Push(pq, queueItem{cost: tentative + g.heuristic(e.to, target), node: e.to})
			}
		}
	}

	d, ok := gScore[target]
	if !ok || math.IsInf(d, 1) {
		return unreachable()
	}
	return routing.PathResult{Distance: d, Path: reconstructPath(prev, source, target)}
}
