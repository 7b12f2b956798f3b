package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// ShortestPathsBatch answers all queries with Dijkstra, running up to
// NumCPU computations in parallel. Results are written by input index,
// so the output order always matches the query order regardless of which
// computation finishes first.
func (g *Graph) ShortestPathsBatch(queries []routing.NodePair) []routing.PathResult {
	results := make([]routing.PathResult, len(queries))

	group, _ := errgroup.WithContext(context.Background())
	group.SetLimit(runtime.NumCPU())

	for i, q := range queries {
		i, q := i, q
		group.Go(func() error {
			results[i] = g.ShortestPathDijkstra(q.From, q.To)
			return nil
		})
	}
	// Workers never return errors; Wait only serves as the join point.
	_ = group.Wait()

	return results
}
