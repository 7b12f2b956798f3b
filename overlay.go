package routing

import (
	"context"
	"fmt"
)

// BuildScenarioOverlay derives a throwaway engine from the current edge
// log with the scenario's modifications applied. Shared state is never
// mutated, so overlays run safely alongside concurrent queries.
func BuildScenarioOverlay(ctx context.Context, state *GraphState, scenarios ScenarioStore, scenarioID int64, factory EngineFactory) (Engine, error) {
	if scenarios == nil {
		return nil, fmt.Errorf("%w: no scenario store configured", ErrScenarioNotFound)
	}
	scenario, err := scenarios.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("routing: load scenario %d: %w", scenarioID, err)
	}
	if scenario == nil {
		return nil, fmt.Errorf("%w: id %d", ErrScenarioNotFound, scenarioID)
	}

	mods := make(map[NodePair]*ScenarioModification, len(scenario.Modifications))
	for i := range scenario.Modifications {
		m := &scenario.Modifications[i]
		mods[NodePair{From: m.From, To: m.To}] = m
	}

	eng, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	for _, e := range state.Edges() {
		mod, ok := mods[NodePair{From: e.From, To: e.To}]
		if !ok {
			eng.AddEdge(e.From, e.To, e.Weight)
			continue
		}
		if mod.Disable {
			continue
		}
		weight := e.Weight
		if mod.NewWeight != nil {
			weight = *mod.NewWeight
		}
		if mod.WeightMultiplier != nil {
			weight *= *mod.WeightMultiplier
		}
		eng.AddEdge(e.From, e.To, weight)
	}

	return eng, nil
}

// BuildProfileOverlay derives a throwaway engine whose edge weights
// combine travel time, distance and cost according to the named profile:
//
//	w = WeightTime*time + WeightDistance*distance + WeightCost*cost
//
// Time falls back to the base edge weight when metadata is absent;
// distance and cost fall back to 0. A non-positive result falls back to
// the base weight, then to 1.0 — the engine's algorithms require
// strictly positive weights.
func BuildProfileOverlay(ctx context.Context, state *GraphState, profiles ProfileStore, metadata MetadataStore, name string, factory EngineFactory) (Engine, error) {
	if profiles == nil {
		return nil, fmt.Errorf("%w: no profile store configured", ErrProfileNotFound)
	}
	profile, err := profiles.GetProfileByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("routing: load profile %q: %w", name, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	meta := make(map[NodePair]*EdgeMetadata)
	if metadata != nil {
		rows, err := metadata.ListEdgeMetadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("routing: load edge metadata: %w", err)
		}
		for i := range rows {
			m := &rows[i]
			meta[NodePair{From: m.From, To: m.To}] = m
		}
	}

	eng, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	for _, e := range state.Edges() {
		timeVal := e.Weight
		distVal := 0.0
		costVal := 0.0
		if m, ok := meta[NodePair{From: e.From, To: e.To}]; ok {
			if m.TravelTime != nil {
				timeVal = *m.TravelTime
			}
			if m.Distance != nil {
				distVal = *m.Distance
			}
			if m.Cost != nil {
				costVal = *m.Cost
			}
		}

		weight := profile.WeightTime*timeVal + profile.WeightDistance*distVal + profile.WeightCost*costVal
		if !(weight > 0) {
			weight = e.Weight
			if !(weight > 0) {
				weight = 1.0
			}
		}
		eng.AddEdge(e.From, e.To, weight)
	}

	return eng, nil
}
