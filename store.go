package routing

import (
	"context"
	"errors"
)

var (
	ErrEngineUnavailable  = errors.New("routing: path engine unavailable")
	ErrScenarioNotFound   = errors.New("routing: scenario not found or inactive")
	ErrProfileNotFound    = errors.New("routing: optimization profile not found")
	ErrScenarioAndProfile = errors.New("routing: scenario and profile cannot be combined")
	ErrBatchOverlay       = errors.New("routing: scenario and profile overlays are not supported in batch queries")
	ErrJobNotFound        = errors.New("routing: job not found")
)

// PathResult is the outcome of one shortest-path computation. An
// unreachable or unknown target is signalled by the sentinel
// Distance = +Inf with an empty Path, never by an error.
type PathResult struct {
	Distance float64
	Path     []int64
}

// Engine is the pathfinding capability consumed by this package. It is
// fed edges and answers shortest-path queries; it exposes no deletion
// primitive, so callers that shrink the graph rebuild a fresh instance.
type Engine interface {
	AddEdge(from, to int64, weight float64)
	ShortestPathDijkstra(source, target int64) PathResult
	ShortestPathAStar(source, target int64) PathResult
	// ShortestPathsBatch computes all queries with internal parallelism
	// and returns results in input order.
	ShortestPathsBatch(queries []NodePair) []PathResult
}

// EngineFactory provisions a fresh, empty Engine. It is called once at
// GraphState construction and again on every rebuild; a factory error
// means the capability is unavailable.
type EngineFactory func() (Engine, error)

// ScenarioStore persists scenarios and their owned modifications.
type ScenarioStore interface {
	// CreateScenario stores a new scenario and fills in its ID.
	CreateScenario(ctx context.Context, s *Scenario) (int64, error)
	// GetScenario returns the scenario with its modifications.
	// Returns nil, nil if not found or not active.
	GetScenario(ctx context.Context, id int64) (*Scenario, error)
	ListScenarios(ctx context.Context) ([]Scenario, error)
	AddModifications(ctx context.Context, scenarioID int64, mods []ScenarioModification) error
	DeactivateScenario(ctx context.Context, id int64) error
}

// ProfileStore persists optimization profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *OptimizationProfile) (int64, error)
	// GetProfileByName returns nil, nil if not found.
	GetProfileByName(ctx context.Context, name string) (*OptimizationProfile, error)
	ListProfiles(ctx context.Context) ([]OptimizationProfile, error)
}

// MetadataStore persists per-pair edge attributes.
type MetadataStore interface {
	UpsertEdgeMetadata(ctx context.Context, m *EdgeMetadata) error
	ListEdgeMetadata(ctx context.Context) ([]EdgeMetadata, error)
}

// FixLogStore is the append-only audit log for automated graph repairs.
type FixLogStore interface {
	AppendFixRecord(ctx context.Context, rec *FixRecord) (int64, error)
}

// HistoryStore records one row per executed route query.
type HistoryStore interface {
	RecordQuery(ctx context.Context, rec *RouteQueryRecord) error
	ListQueries(ctx context.Context, limit int) ([]RouteQueryRecord, error)
	PerformanceStats(ctx context.Context) (*PerformanceStats, error)
}
