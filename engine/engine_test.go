package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

func buildDiamond() *Graph {
	// 1 → 2 → 4 costs 3, 1 → 3 → 4 costs 6, plus a direct 1 → 4 of 10.
	g := New()
	g.AddEdge(1, 2, 1)
	g.AddEdge(2, 4, 2)
	g.AddEdge(1, 3, 2)
	g.AddEdge(3, 4, 4)
	g.AddEdge(1, 4, 10)
	return g
}

func TestShortestPathDijkstra(t *testing.T) {
	t.Run("picks the cheapest path", func(t *testing.T) {
		g := buildDiamond()
		result := g.ShortestPathDijkstra(1, 4)

		assert.Equal(t, 3.0, result.Distance)
		assert.Equal(t, []int64{1, 2, 4}, result.Path)
	})

	t.Run("source equals target", func(t *testing.T) {
		g := buildDiamond()
		result := g.ShortestPathDijkstra(2, 2)

		assert.Zero(t, result.Distance)
		assert.Equal(t, []int64{2}, result.Path)
	})

	t.Run("unreachable target yields the sentinel", func(t *testing.T) {
		g := New()
		g.AddEdge(1, 2, 1)
		g.AddEdge(3, 4, 1)

		result := g.ShortestPathDijkstra(1, 4)
		assert.True(t, math.IsInf(result.Distance, 1))
		assert.Empty(t, result.Path)
	})

	t.Run("unknown node yields the sentinel", func(t *testing.T) {
		g := buildDiamond()

		result := g.ShortestPathDijkstra(1, 99)
		assert.True(t, math.IsInf(result.Distance, 1))
		assert.Empty(t, result.Path)

		result = g.ShortestPathDijkstra(99, 1)
		assert.True(t, math.IsInf(result.Distance, 1))
	})

	t.Run("edges are directed", func(t *testing.T) {
		g := New()
		g.AddEdge(1, 2, 1)

		result := g.ShortestPathDijkstra(2, 1)
		assert.True(t, math.IsInf(result.Distance, 1))
	})

	t.Run("parallel edges use the cheaper one", func(t *testing.T) {
		g := New()
		g.AddEdge(1, 2, 9)
		g.AddEdge(1, 2, 4)

		result := g.ShortestPathDijkstra(1, 2)
		assert.Equal(t, 4.0, result.Distance)
	})
}

func TestShortestPathAStar(t *testing.T) {
	t.Run("matches dijkstra with the zero heuristic", func(t *testing.T) {
		g := buildDiamond()

		d := g.ShortestPathDijkstra(1, 4)
		a := g.ShortestPathAStar(1, 4)
		assert.Equal(t, d.Distance, a.Distance)
		assert.Equal(t, d.Path, a.Path)
	})

	t.Run("unreachable sentinel", func(t *testing.T) {
		g := buildDiamond()
		result := g.ShortestPathAStar(4, 1)
		assert.True(t, math.IsInf(result.Distance, 1))
		assert.Empty(t, result.Path)
	})
}

func TestShortestPathsBatch(t *testing.T) {
	t.Run("results match input order", func(t *testing.T) {
		g := buildDiamond()

		results := g.ShortestPathsBatch([]routing.NodePair{
			{From: 1, To: 4},
			{From: 4, To: 1}, // unreachable
			{From: 1, To: 2},
		})
		require.Len(t, results, 3)

		assert.Equal(t, 3.0, results[0].Distance)
		assert.True(t, math.IsInf(results[1].Distance, 1))
		assert.Equal(t, 1.0, results[2].Distance)
	})

	t.Run("empty batch", func(t *testing.T) {
		g := buildDiamond()
		assert.Empty(t, g.ShortestPathsBatch(nil))
	})

	t.Run("large batch stays ordered", func(t *testing.T) {
		g := New()
		const n = 500
		for i := int64(0); i < n; i++ {
			g.AddEdge(i, i+1, 1)
		}

		queries := make([]routing.NodePair, n)
		for i := int64(0); i < n; i++ {
			queries[i] = routing.NodePair{From: 0, To: i + 1}
		}

		results := g.ShortestPathsBatch(queries)
		require.Len(t, results, n)
		for i := int64(0); i < n; i++ {
			assert.Equal(t, float64(i+1), results[i].Distance)
		}
	})
}
