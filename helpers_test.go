package routing

import (
	"context"
	"math"
	"sync"
)

// fakeEngine stands in for the external pathfinding capability. It
// records mirrored edges and serves canned results keyed by query pair;
// unknown pairs yield the +Inf sentinel like the real engine.
type fakeEngine struct {
	mu      sync.Mutex
	edges   []Edge
	results map[NodePair]PathResult
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{results: make(map[NodePair]PathResult)}
}

func (f *fakeEngine) setResult(from, to int64, distance float64, path ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[NodePair{From: from, To: to}] = PathResult{Distance: distance, Path: path}
}

func (f *fakeEngine) AddEdge(from, to int64, weight float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges = append(f.edges, Edge{From: from, To: to, Weight: weight})
}

func (f *fakeEngine) edgeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edges)
}

func (f *fakeEngine) lookup(source, target int64) PathResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.results[NodePair{From: source, To: target}]; ok {
		return r
	}
	return PathResult{Distance: math.Inf(1)}
}

func (f *fakeEngine) ShortestPathDijkstra(source, target int64) PathResult {
	return f.lookup(source, target)
}

func (f *fakeEngine) ShortestPathAStar(source, target int64) PathResult {
	return f.lookup(source, target)
}

func (f *fakeEngine) ShortestPathsBatch(queries []NodePair) []PathResult {
	results := make([]PathResult, len(queries))
	for i, q := range queries {
		results[i] = f.lookup(q.From, q.To)
	}
	return results
}

// fakeEngineFactory hands out engines in order, remembering each one.
type fakeEngineFactory struct {
	mu      sync.Mutex
	engines []*fakeEngine
	err     error
}

func (f *fakeEngineFactory) factory() (Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	eng := newFakeEngine()
	f.engines = append(f.engines, eng)
	return eng, nil
}

func (f *fakeEngineFactory) latest() *fakeEngine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engines[len(f.engines)-1]
}

type fakeScenarioStore struct {
	scenarios map[int64]*Scenario
}

func (f *fakeScenarioStore) CreateScenario(ctx context.Context, s *Scenario) (int64, error) {
	return s.ID, nil
}

func (f *fakeScenarioStore) GetScenario(ctx context.Context, id int64) (*Scenario, error) {
	return f.scenarios[id], nil
}

func (f *fakeScenarioStore) ListScenarios(ctx context.Context) ([]Scenario, error) {
	return nil, nil
}

func (f *fakeScenarioStore) AddModifications(ctx context.Context, scenarioID int64, mods []ScenarioModification) error {
	return nil
}

func (f *fakeScenarioStore) DeactivateScenario(ctx context.Context, id int64) error {
	return nil
}

type fakeProfileStore struct {
	profiles map[string]*OptimizationProfile
}

func (f *fakeProfileStore) CreateProfile(ctx context.Context, p *OptimizationProfile) (int64, error) {
	return p.ID, nil
}

func (f *fakeProfileStore) GetProfileByName(ctx context.Context, name string) (*OptimizationProfile, error) {
	return f.profiles[name], nil
}

func (f *fakeProfileStore) ListProfiles(ctx context.Context) ([]OptimizationProfile, error) {
	return nil, nil
}

type fakeMetadataStore struct {
	rows []EdgeMetadata
}

func (f *fakeMetadataStore) UpsertEdgeMetadata(ctx context.Context, m *EdgeMetadata) error {
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMetadataStore) ListEdgeMetadata(ctx context.Context) ([]EdgeMetadata, error) {
	return f.rows, nil
}

type fakeFixLog struct {
	mu      sync.Mutex
	records []FixRecord
}

func (f *fakeFixLog) AppendFixRecord(ctx context.Context, rec *FixRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = int64(len(f.records) + 1)
	f.records = append(f.records, *rec)
	return rec.ID, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	records []RouteQueryRecord
}

func (f *fakeHistory) RecordQuery(ctx context.Context, rec *RouteQueryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeHistory) ListQueries(ctx context.Context, limit int) ([]RouteQueryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RouteQueryRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeHistory) PerformanceStats(ctx context.Context) (*PerformanceStats, error) {
	return &PerformanceStats{}, nil
}

func float64Ptr(v float64) *float64 { return &v }
