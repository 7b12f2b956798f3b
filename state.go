package routing

import (
	"fmt"
	"sync"
)

// GraphState owns the authoritative edge log and node sets of the shared
// network and mirrors every edge into an Engine instance. One mutex
// serializes all reads and writes so the log, the derived node set and
// the mirrored engine are always observed in a consistent state.
type GraphState struct {
	mu sync.Mutex

	newEngine EngineFactory
	engine    Engine

	edges         []Edge
	edgeNodes     map[int64]struct{}
	explicitNodes map[int64]struct{}
}

// NewGraphState provisions the mirrored engine immediately so that an
// unavailable capability surfaces here, as a typed error, rather than on
// first use.
func NewGraphState(factory EngineFactory) (*GraphState, error) {
	eng, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return &GraphState{
		newEngine:     factory,
		engine:        eng,
		edgeNodes:     make(map[int64]struct{}),
		explicitNodes: make(map[int64]struct{}),
	}, nil
}

// AddNode registers a standalone node. Idempotent.
func (s *GraphState) AddNode(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explicitNodes[id] = struct{}{}
}

// AddNodes registers many standalone nodes at once.
func (s *GraphState) AddNodes(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.explicitNodes[id] = struct{}{}
	}
}

// AddEdge appends one edge to the log and mirrors it into the engine.
func (s *GraphState) AddEdge(from, to int64, weight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendEdge(Edge{From: from, To: to, Weight: weight})
}

// AddEdges appends a batch of edges in order.
func (s *GraphState) AddEdges(edges []Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range edges {
		s.appendEdge(e)
	}
}

func (s *GraphState) appendEdge(e Edge) {
	s.engine.AddEdge(e.From, e.To, e.Weight)
	s.edges = append(s.edges, e)
	s.edgeNodes[e.From] = struct{}{}
	s.edgeNodes[e.To] = struct{}{}
}

// Edges returns an independent copy of the edge log.
func (s *GraphState) Edges() []Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Nodes returns an independent copy of the effective node set: every
// node touched by an edge plus the explicitly registered ones.
func (s *GraphState) Nodes() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.edgeNodes)+len(s.explicitNodes))
	for id := range s.edgeNodes {
		out = append(out, id)
	}
	for id := range s.explicitNodes {
		if _, ok := s.edgeNodes[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// RemoveEdges drops every edge whose (From, To) pair is in the given set,
// then rebuilds the mirrored engine by replaying the filtered log. The
// engine has no deletion primitive, so replay is the only correct way to
// shrink it; removal is rare (quality fixes), not a hot path. Returns the
// number of edges removed; an empty or non-matching set is a no-op.
func (s *GraphState) RemoveEdges(pairs map[NodePair]struct{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(pairs) == 0 {
		return 0, nil
	}

	kept := s.edges[:0:0]
	for _, e := range s.edges {
		if _, drop := pairs[NodePair{From: e.From, To: e.To}]; !drop {
			kept = append(kept, e)
		}
	}
	removed := len(s.edges) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	eng, err := s.newEngine()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	for _, e := range kept {
		eng.AddEdge(e.From, e.To, e.Weight)
	}

	s.edges = kept
	s.engine = eng
	s.edgeNodes = make(map[int64]struct{}, len(kept)*2)
	for _, e := range kept {
		s.edgeNodes[e.From] = struct{}{}
		s.edgeNodes[e.To] = struct{}{}
	}
	return removed, nil
}

// RemoveIsolatedNodes drops the given ids from the explicit node set.
// Edges are untouched. Returns the number actually removed.
func (s *GraphState) RemoveIsolatedNodes(ids []int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.explicitNodes)
	for _, id := range ids {
		delete(s.explicitNodes, id)
	}
	return before - len(s.explicitNodes)
}

// Stats returns the node and edge counts as one atomically observed pair.
func (s *GraphState) Stats() (nodeCount, edgeCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodeCount = len(s.edgeNodes)
	for id := range s.explicitNodes {
		if _, ok := s.edgeNodes[id]; !ok {
			nodeCount++
		}
	}
	return nodeCount, len(s.edges)
}

// ShortestPathDijkstra answers one query against the mirrored engine.
func (s *GraphState) ShortestPathDijkstra(source, target int64) PathResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ShortestPathDijkstra(source, target)
}

// ShortestPathAStar answers one query against the mirrored engine.
func (s *GraphState) ShortestPathAStar(source, target int64) PathResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ShortestPathAStar(source, target)
}

// ShortestPathsBatch answers many queries in input order.
func (s *GraphState) ShortestPathsBatch(queries []NodePair) []PathResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ShortestPathsBatch(queries)
}
