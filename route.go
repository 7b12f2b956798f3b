package routing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Router answers route queries against the shared graph, optionally
// through a scenario or profile overlay, and records every executed
// query into the history store when one is configured. All stores are
// optional; a query that needs a missing store fails with the matching
// sentinel error.
type Router struct {
	State     *GraphState
	Scenarios ScenarioStore
	Profiles  ProfileStore
	Metadata  MetadataStore
	History   HistoryStore
	NewEngine EngineFactory
}

// FindRoute computes one route. Validation failures (scenario and
// profile combined, unknown scenario or profile) are returned as sentinel
// errors and recorded as failed history rows; an unreachable target is
// not an error and yields the +Inf sentinel response.
func (r *Router) FindRoute(ctx context.Context, req RouteRequest) (RouteResponse, error) {
	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = AlgorithmDijkstra
	}
	label := algorithm

	start := time.Now()
	var result PathResult
	var err error

	switch {
	case req.ScenarioID != 0 && req.Profile != "":
		err = ErrScenarioAndProfile
	case req.ScenarioID != 0:
		label = algorithm + "_scenario"
		result, err = r.computeWithOverlay(ctx, req, algorithm, func() (Engine, error) {
			return BuildScenarioOverlay(ctx, r.State, r.Scenarios, req.ScenarioID, r.NewEngine)
		})
	case req.Profile != "":
		label = algorithm + "_profile"
		result, err = r.computeWithOverlay(ctx, req, algorithm, func() (Engine, error) {
			return BuildProfileOverlay(ctx, r.State, r.Profiles, r.Metadata, req.Profile, r.NewEngine)
		})
	default:
		if algorithm == AlgorithmAStar {
			result = r.State.ShortestPathAStar(req.Source, req.Target)
		} else {
			result = r.State.ShortestPathDijkstra(req.Source, req.Target)
		}
	}

	execMS := float64(time.Since(start)) / float64(time.Millisecond)

	if err != nil {
		r.recordQuery(ctx, req, label, math.Inf(1), execMS, false, err.Error(), false, "")
		return RouteResponse{}, err
	}

	r.recordQuery(ctx, req, label, result.Distance, execMS, true, "", false, "")
	return buildResponse(result, label, execMS), nil
}

func (r *Router) computeWithOverlay(ctx context.Context, req RouteRequest, algorithm string, build func() (Engine, error)) (PathResult, error) {
	eng, err := build()
	if err != nil {
		return PathResult{}, err
	}
	if algorithm == AlgorithmAStar {
		return eng.ShortestPathAStar(req.Source, req.Target), nil
	}
	return eng.ShortestPathDijkstra(req.Source, req.Target), nil
}

// FindRoutesBatch computes many routes in one engine call. Scenarios and
// profiles are not supported inside batches; per-query unreachability is
// reported through the sentinel item, never by failing the batch. Items
// are returned in request order.
func (r *Router) FindRoutesBatch(ctx context.Context, batch RouteBatchRequest) ([]RouteBatchItem, error) {
	for i, q := range batch.Queries {
		if q.ScenarioID != 0 || q.Profile != "" {
			return nil, fmt.Errorf("%w (query %d)", ErrBatchOverlay, i)
		}
	}

	queries := make([]NodePair, len(batch.Queries))
	for i, q := range batch.Queries {
		queries[i] = NodePair{From: q.Source, To: q.Target}
	}

	start := time.Now()
	results := r.State.ShortestPathsBatch(queries)
	totalMS := float64(time.Since(start)) / float64(time.Millisecond)

	batchGroup := ""
	if r.History != nil {
		batchGroup = uuid.NewString()
	}

	items := make([]RouteBatchItem, 0, len(batch.Queries))
	for i, q := range batch.Queries {
		r.recordQuery(ctx, q, "dijkstra_parallel_batch", results[i].Distance, totalMS, true, "", true, batchGroup)
		items = append(items, RouteBatchItem{
			Request:  q,
			Response: buildResponse(results[i], "dijkstra_parallel_batch", totalMS),
		})
	}
	return items, nil
}

func (r *Router) recordQuery(ctx context.Context, req RouteRequest, label string, distance, execMS float64, success bool, errMsg string, isBatch bool, batchGroup string) {
	if r.History == nil {
		return
	}
	rec := &RouteQueryRecord{
		Source:       req.Source,
		Target:       req.Target,
		Algorithm:    label,
		Criteria:     req.Criteria,
		Profile:      req.Profile,
		Success:      success,
		ErrorMessage: errMsg,
		IsBatch:      isBatch,
		BatchGroup:   batchGroup,
		ScenarioID:   req.ScenarioID,
	}
	if success {
		rec.TotalWeight = &distance
		rec.ExecutionTimeMS = &execMS
	}
	// History is best-effort; a failed insert must not fail the route.
	_ = r.History.RecordQuery(ctx, rec)
}

func buildResponse(result PathResult, label string, execMS float64) RouteResponse {
	segments := make([]RouteSegment, 0)
	for i := 0; i+1 < len(result.Path); i++ {
		segments = append(segments, RouteSegment{From: result.Path[i], To: result.Path[i+1]})
	}
	nodes := result.Path
	if nodes == nil {
		nodes = []int64{}
	}
	return RouteResponse{
		TotalWeight:     result.Distance,
		Nodes:           nodes,
		Segments:        segments,
		Algorithm:       label,
		ExecutionTimeMS: execMS,
	}
}
