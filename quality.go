package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// QualityOptions bound the zero-cycle search. Zero values select the
// defaults (50 cycles, depth 10, epsilon 1e-9).
type QualityOptions struct {
	MaxCycles int
	MaxDepth  int
	Epsilon   float64
}

func (o QualityOptions) withDefaults() QualityOptions {
	if o.MaxCycles <= 0 {
		o.MaxCycles = 50
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 10
	}
	if o.Epsilon <= 0 {
		o.Epsilon = 1e-9
	}
	return o
}

// QualityReport lists the structurally degenerate regions found in one
// snapshot of the graph. It is produced fresh per analysis call.
type QualityReport struct {
	IsolatedNodes    []int64   `json:"isolated_nodes"`
	ZeroWeightCycles [][]int64 `json:"zero_weight_cycles"`
	LimitReached     bool      `json:"limit_reached"`
}

// FixResult summarizes one automated repair.
type FixResult struct {
	RemovedEdges         int   `json:"removed_zero_weight_edges"`
	RemovedIsolatedNodes int   `json:"removed_isolated_nodes"`
	LogID                int64 `json:"log_id"`
}

// AnalyzeQuality inspects a snapshot of edges and nodes for isolated
// nodes and zero-weight cycles. Isolated nodes are effective nodes not
// touched by any edge. Cycles are searched on the subgraph of edges with
// |weight| <= epsilon using a depth-first walk bounded by MaxDepth per
// branch; each cycle is deduplicated by rotating its node sequence to
// start at its minimum node. LimitReached is set once MaxCycles distinct
// cycles have been found; longer cycles beyond MaxDepth can be missed.
func AnalyzeQuality(edges []Edge, nodes []int64, opts QualityOptions) QualityReport {
	opts = opts.withDefaults()

	touched := make(map[int64]struct{}, len(edges)*2)
	for _, e := range edges {
		touched[e.From] = struct{}{}
		touched[e.To] = struct{}{}
	}

	isolated := make([]int64, 0)
	for _, n := range nodes {
		if _, ok := touched[n]; !ok {
			isolated = append(isolated, n)
		}
	}
	sort.Slice(isolated, func(i, j int) bool { return isolated[i] < isolated[j] })

	adj := make(map[int64][]int64)
	for _, e := range edges {
		if math.Abs(e.Weight) <= opts.Epsilon {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}

	starts := make([]int64, 0, len(adj))
	for n := range adj {
		starts = append(starts, n)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	cycles := make([][]int64, 0)
	seen := make(map[string]struct{})
	limitReached := false

	// Explicit stack; each frame carries its own copy of the open path,
	// so cycle growth never aliases a sibling branch.
	type frame struct {
		current int64
		path    []int64
		depth   int
	}

walk:
	for _, start := range starts {
		stack := []frame{{current: start, path: []int64{start}, depth: 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.depth >= opts.MaxDepth {
				continue
			}
			for _, next := range adj[f.current] {
				if next == start {
					key := canonicalCycleKey(f.path)
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					cycle := make([]int64, len(f.path))
					copy(cycle, f.path)
					cycles = append(cycles, cycle)
					if len(cycles) >= opts.MaxCycles {
						limitReached = true
						break walk
					}
					continue
				}
				if containsNode(f.path, next) {
					continue
				}
				path := make([]int64, len(f.path)+1)
				copy(path, f.path)
				path[len(f.path)] = next
				stack = append(stack, frame{current: next, path: path, depth: f.depth + 1})
			}
		}
	}

	return QualityReport{
		IsolatedNodes:    isolated,
		ZeroWeightCycles: cycles,
		LimitReached:     limitReached,
	}
}

// canonicalCycleKey rotates the cycle to start at its minimum node so
// that the same cycle discovered from different start nodes maps to one
// key.
func canonicalCycleKey(cycle []int64) string {
	minIdx := 0
	for i, n := range cycle {
		if n < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]int64, 0, len(cycle))
	rotated = append(rotated, cycle[minIdx:]...)
	rotated = append(rotated, cycle[:minIdx]...)
	return fmt.Sprint(rotated)
}

func containsNode(path []int64, n int64) bool {
	for _, p := range path {
		if p == n {
			return true
		}
	}
	return false
}

// FixQuality removes every edge that forms part of a reported zero-weight
// cycle (consecutive nodes, wrapping) and every reported isolated node,
// then appends one immutable audit record to the fix log. The returned
// LogID identifies that record.
func FixQuality(ctx context.Context, state *GraphState, fixLog FixLogStore, report QualityReport) (FixResult, error) {
	pairs := make(map[NodePair]struct{})
	for _, cycle := range report.ZeroWeightCycles {
		for i := range cycle {
			pairs[NodePair{From: cycle[i], To: cycle[(i+1)%len(cycle)]}] = struct{}{}
		}
	}

	removedEdges := 0
	if len(pairs) > 0 {
		n, err := state.RemoveEdges(pairs)
		if err != nil {
			return FixResult{}, err
		}
		removedEdges = n
	}

	removedNodes := 0
	if len(report.IsolatedNodes) > 0 {
		removedNodes = state.RemoveIsolatedNodes(report.IsolatedNodes)
	}

	sortedPairs := make([]NodePair, 0, len(pairs))
	for p := range pairs {
		sortedPairs = append(sortedPairs, p)
	}
	sort.Slice(sortedPairs, func(i, j int) bool {
		if sortedPairs[i].From != sortedPairs[j].From {
			return sortedPairs[i].From < sortedPairs[j].From
		}
		return sortedPairs[i].To < sortedPairs[j].To
	})

	details, err := json.Marshal(map[string]any{
		"removed_zero_weight_edges": sortedPairs,
		"isolated_nodes_removed":    report.IsolatedNodes,
	})
	if err != nil {
		return FixResult{}, fmt.Errorf("routing: marshal fix details: %w", err)
	}

	var logID int64
	if fixLog != nil {
		logID, err = fixLog.AppendFixRecord(ctx, &FixRecord{
			FixType:     "graph_quality_auto_fix",
			Description: "automatic removal of zero-weight cycles and isolated nodes",
			Details:     string(details),
		})
		if err != nil {
			return FixResult{}, fmt.Errorf("routing: append fix record: %w", err)
		}
	}

	return FixResult{
		RemovedEdges:         removedEdges,
		RemovedIsolatedNodes: removedNodes,
		LogID:                logID,
	}, nil
}
