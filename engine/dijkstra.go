package engine

import (
	"container/heap"
	"math"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

type queueItem struct {
	cost float64
	node int64
}

// priorityQueue is a min-heap over path cost.
type priorityQueue []queueItem

func (q priorityQueue) Len() int           { return len(q) }
func (q priorityQueue) Less(i, j int) bool { return q[i].cost < q[j].cost }
func (q priorityQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)        { *q = append(*q, x.(queueItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func unreachable() routing.PathResult {
	return routing.PathResult{Distance: math.Inf(1)}
}

// ShortestPathDijkstra runs classic heap-based Dijkstra from source to
// target. Unknown nodes and unreachable targets yield the +Inf sentinel.
func (g *Graph) ShortestPathDijkstra(source, target int64) routing.PathResult {
	if !g.hasNode(source) || !g.hasNode(target) {
		return unreachable()
	}

	dist := map[int64]float64{source: 0}
	prev := make(map[int64]int64)

	pq := &priorityQueue{{cost: 0, node: source}}
	heap.Init(pq)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(queueItem)
		if d, ok := dist[current.node]; ok && current.cost > d {
			continue
		}
		if current.node == target {
			break
		}
		for _, e := range g.adjacency[current.node] {
			next := current.cost + e.weight
			if d, ok := dist[e.to]; !ok || next < d {
				dist[e.to] = next
				prev[e.to] = current.node
				heap.Push(pq, queueItem{cost: next, node: e.to})
			}
		}
	}

	d, ok := dist[target]
	if !ok || math.IsInf(d, 1) {
		return unreachable()
	}
	return routing.PathResult{Distance: d, Path: reconstructPath(prev, source, target)}
}

func reconstructPath(prev map[int64]int64, source, target int64) []int64 {
	path := []int64{target}
	current := target
	for current != source {
		p, ok := prev[current]
		if !ok {
			break
		}
		current = p
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
