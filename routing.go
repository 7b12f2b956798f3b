package routing

import "time"

// Edge is one directed, weighted edge of the transport network.
// The graph is a multigraph: several edges may connect the same
// (From, To) pair and they are never merged or deduplicated.
type Edge struct {
	From   int64   `json:"from_node"`
	To     int64   `json:"to_node"`
	Weight float64 `json:"weight"`
}

// NodePair identifies all parallel edges between two nodes.
type NodePair struct {
	From int64 `json:"from_node"`
	To   int64 `json:"to_node"`
}

// Algorithm names accepted by RouteRequest.
const (
	AlgorithmDijkstra = "dijkstra"
	AlgorithmAStar    = "a_star"
)

// RouteRequest asks for one shortest path. Scenario and Profile are
// mutually exclusive; requesting both is a validation error.
type RouteRequest struct {
	Source     int64    `json:"source"`
	Target     int64    `json:"target"`
	Criteria   []string `json:"criteria,omitempty"`
	Profile    string   `json:"profile,omitempty"`
	Algorithm  string   `json:"algorithm,omitempty"`
	ScenarioID int64    `json:"scenario_id,omitempty"`
}

// RouteSegment is one hop of a computed route.
type RouteSegment struct {
	From   int64   `json:"from_node"`
	To     int64   `json:"to_node"`
	Weight float64 `json:"weight"`
}

// RouteResponse is the outcome of one route computation. An unreachable
// target carries TotalWeight = +Inf and an empty node list.
type RouteResponse struct {
	TotalWeight     float64        `json:"total_weight"`
	Nodes           []int64        `json:"nodes"`
	Segments        []RouteSegment `json:"segments"`
	Algorithm       string         `json:"algorithm"`
	ExecutionTimeMS float64        `json:"execution_time_ms"`
}

// RouteBatchRequest bundles many route queries into one computation.
type RouteBatchRequest struct {
	Queries []RouteRequest `json:"queries"`
}

// RouteBatchItem pairs a batch query with its response, in request order.
type RouteBatchItem struct {
	Request  RouteRequest  `json:"request"`
	Response RouteResponse `json:"response"`
}

// Scenario is a named set of per-edge overrides simulating network changes.
type Scenario struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	IsActive      bool                   `json:"is_active"`
	CreatedAt     time.Time              `json:"created_at"`
	Modifications []ScenarioModification `json:"modifications,omitempty"`
}

// ScenarioModification overrides the edges of one (From, To) pair inside
// its owning scenario. NewWeight, when set, replaces the base weight
// before the multiplier is applied. A nil WeightMultiplier means 1.0; an
// explicit 0 multiplies the weight away.
type ScenarioModification struct {
	ID               int64    `json:"id,omitempty"`
	From             int64    `json:"from_node"`
	To               int64    `json:"to_node"`
	Disable          bool     `json:"disable"`
	WeightMultiplier *float64 `json:"weight_multiplier,omitempty"`
	NewWeight        *float64 `json:"new_weight,omitempty"`
}

// OptimizationProfile combines time, distance and cost into one edge
// weight. TransferPenalty is stored but not yet used by the overlay.
type OptimizationProfile struct {
	ID              int64     `json:"id,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	WeightTime      float64   `json:"weight_time"`
	WeightDistance  float64   `json:"weight_distance"`
	WeightCost      float64   `json:"weight_cost"`
	TransferPenalty float64   `json:"transfer_penalty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// EdgeMetadata carries optional per-pair attributes used by profile
// overlays. Nil fields mean "not known for this pair".
type EdgeMetadata struct {
	ID         int64    `json:"id,omitempty"`
	From       int64    `json:"from_node"`
	To         int64    `json:"to_node"`
	EdgeType   string   `json:"edge_type,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
	TravelTime *float64 `json:"travel_time,omitempty"`
	Cost       *float64 `json:"cost,omitempty"`
	Capacity   *float64 `json:"capacity,omitempty"`
	IsOneWay   bool     `json:"is_one_way"`
}

// FixRecord is one immutable audit entry describing an automated graph
// repair. Details holds a machine-readable JSON document.
type FixRecord struct {
	ID          int64     `json:"id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	FixType     string    `json:"fix_type"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
}

// RouteQueryRecord is one row of the route query history.
type RouteQueryRecord struct {
	ID              int64     `json:"id,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	Source          int64     `json:"source"`
	Target          int64     `json:"target"`
	Algorithm       string    `json:"algorithm"`
	Criteria        []string  `json:"criteria"`
	Profile         string    `json:"profile,omitempty"`
	TotalWeight     *float64  `json:"total_weight,omitempty"`
	ExecutionTimeMS *float64  `json:"execution_time_ms,omitempty"`
	Success         bool      `json:"success"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	IsBatch         bool      `json:"is_batch"`
	BatchGroup      string    `json:"batch_group,omitempty"`
	ScenarioID      int64     `json:"scenario_id,omitempty"`
}

// AlgorithmStats aggregates history rows for one algorithm label.
type AlgorithmStats struct {
	Algorithm      string   `json:"algorithm"`
	QueryCount     int64    `json:"query_count"`
	AvgExecutionMS *float64 `json:"avg_execution_ms,omitempty"`
	MaxExecutionMS *float64 `json:"max_execution_ms,omitempty"`
}

// PerformanceStats summarizes the whole query history.
type PerformanceStats struct {
	TotalQueries      int64            `json:"total_queries"`
	SuccessfulQueries int64            `json:"successful_queries"`
	FailedQueries     int64            `json:"failed_queries"`
	AvgExecutionMS    *float64         `json:"avg_execution_ms,omitempty"`
	MaxExecutionMS    *float64         `json:"max_execution_ms,omitempty"`
	PerAlgorithm      []AlgorithmStats `json:"per_algorithm"`
}
