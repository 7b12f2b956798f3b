package postgres

import (
	"context"
	"fmt"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// CreateProfile saves an optimization profile. Returns the generated ID.
func (s *PGStore) CreateProfile(ctx context.Context, p *routing.OptimizationProfile) (int64, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO optimization_profiles (name, description, weight_time, weight_distance, weight_cost, transfer_penalty)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.Description, p.WeightTime, p.WeightDistance, p.WeightCost, p.TransferPenalty,
	).Scan(&p.ID)
	if err != nil {
		return 0, fmt.Errorf("routing: insert profile: %w", err)
	}
	return p.ID, nil
}

// GetProfileByName fetches a profile by its unique name.
// Returns nil, nil if not found.
func (s *PGStore) GetProfileByName(ctx context.Context, name string) (*routing.OptimizationProfile, error) {
	var p routing.OptimizationProfile
	err := s.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), weight_time, weight_distance, weight_cost, transfer_penalty, created_at
		 FROM optimization_profiles WHERE name = $1`, name,
	).Scan(&p.ID, &p.Name, &p.Description, &p.WeightTime, &p.WeightDistance, &p.WeightCost, &p.TransferPenalty, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("routing: get profile: %w", err)
	}
	return &p, nil
}

// ListProfiles returns all profiles ordered by name.
// Returns an empty slice (not nil) if none exist.
func (s *PGStore) ListProfiles(ctx context.Context) ([]routing.OptimizationProfile, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), weight_time, weight_distance, weight_cost, transfer_penalty, created_at
		 FROM optimization_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("routing: list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []routing.OptimizationProfile{}
	for rows.Next() {
		var p routing.OptimizationProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.WeightTime, &p.WeightDistance, &p.WeightCost, &p.TransferPenalty, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("routing: scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("routing: rows profiles: %w", err)
	}

	return profiles, nil
}
