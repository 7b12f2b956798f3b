package postgres

import (
	"context"
	"fmt"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// CreateScenario saves a scenario and its modifications in one
// transaction. Returns the generated scenario ID.
func (s *PGStore) CreateScenario(ctx context.Context, sc *routing.Scenario) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("routing: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO scenarios (name, description, is_active) VALUES ($1, $2, TRUE) RETURNING id`,
		sc.Name, sc.Description,
	).Scan(&sc.ID)
	if err != nil {
		return 0, fmt.Errorf("routing: insert scenario: %w", err)
	}

	for i := range sc.Modifications {
		m := &sc.Modifications[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO scenario_modifications (scenario_id, from_node, to_node, disable, weight_multiplier, new_weight)
			 VALUES ($1, $2, $3, $4, COALESCE($5, 1.0), $6) RETURNING id`,
			sc.ID, m.From, m.To, m.Disable, m.WeightMultiplier, m.NewWeight,
		).Scan(&m.ID)
		if err != nil {
			return 0, fmt.Errorf("routing: insert scenario modification: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("routing: commit: %w", err)
	}
	sc.IsActive = true
	return sc.ID, nil
}

// GetScenario fetches an active scenario with its modifications.
// Returns nil, nil if the scenario doesn't exist or is inactive.
func (s *PGStore) GetScenario(ctx context.Context, id int64) (*routing.Scenario, error) {
	var sc routing.Scenario
	err := s.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), is_active, created_at
		 FROM scenarios WHERE id = $1 AND is_active`, id,
	).Scan(&sc.ID, &sc.Name, &sc.Description, &sc.IsActive, &sc.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("routing: get scenario: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, from_node, to_node, disable, weight_multiplier, new_weight
		 FROM scenario_modifications WHERE scenario_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("routing: query scenario modifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m routing.ScenarioModification
		if err := rows.Scan(&m.ID, &m.From, &m.To, &m.Disable, &m.WeightMultiplier, &m.NewWeight); err != nil {
			return nil, fmt.Errorf("routing: scan scenario modification: %w", err)
		}
		sc.Modifications = append(sc.Modifications, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("routing: rows scenario modifications: %w", err)
	}

	return &sc, nil
}

// ListScenarios returns all scenarios without their modifications,
// newest first. Returns an empty slice (not nil) if none exist.
func (s *PGStore) ListScenarios(ctx context.Context) ([]routing.Scenario, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), is_active, created_at
		 FROM scenarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("routing: list scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := []routing.Scenario{}
	for rows.Next() {
		var sc routing.Scenario
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.IsActive, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("routing: scan scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("routing: rows scenarios: %w", err)
	}

	return scenarios, nil
}

// AddModifications appends modifications to an existing scenario.
func (s *PGStore) AddModifications(ctx context.Context, scenarioID int64, mods []routing.ScenarioModification) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("routing: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range mods {
		if _, err := tx.Exec(ctx,
			`INSERT INTO scenario_modifications (scenario_id, from_node, to_node, disable, weight_multiplier, new_weight)
			 VALUES ($1, $2, $3, $4, COALESCE($5, 1.0), $6)`,
			scenarioID, m.From, m.To, m.Disable, m.WeightMultiplier, m.NewWeight,
		); err != nil {
			return fmt.Errorf("routing: insert scenario modification: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// DeactivateScenario marks a scenario inactive. No error if it doesn't
// exist.
func (s *PGStore) DeactivateScenario(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `UPDATE scenarios SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("routing: deactivate scenario: %w", err)
	}
	return nil
}
