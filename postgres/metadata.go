package postgres

import (
	"context"
	"fmt"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// UpsertEdgeMetadata inserts or replaces the metadata row for one
// (from_node, to_node) pair.
func (s *PGStore) UpsertEdgeMetadata(ctx context.Context, m *routing.EdgeMetadata) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO edge_metadata (from_node, to_node, edge_type, distance, travel_time, cost, capacity, is_one_way)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
		 ON CONFLICT (from_node, to_node) DO UPDATE SET
		   edge_type = EXCLUDED.edge_type,
		   distance = EXCLUDED.distance,
		   travel_time = EXCLUDED.travel_time,
		   cost = EXCLUDED.cost,
		   capacity = EXCLUDED.capacity,
		   is_one_way = EXCLUDED.is_one_way
		 RETURNING id`,
		m.From, m.To, m.EdgeType, m.Distance, m.TravelTime, m.Cost, m.Capacity, m.IsOneWay,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("routing: upsert edge metadata: %w", err)
	}
	return nil
}

// ListEdgeMetadata returns every metadata row.
// Returns an empty slice (not nil) if none exist.
func (s *PGStore) ListEdgeMetadata(ctx context.Context) ([]routing.EdgeMetadata, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, from_node, to_node, COALESCE(edge_type, ''), distance, travel_time, cost, capacity, is_one_way
		 FROM edge_metadata ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("routing: list edge metadata: %w", err)
	}
	defer rows.Close()

	meta := []routing.EdgeMetadata{}
	for rows.Next() {
		var m routing.EdgeMetadata
		if err := rows.Scan(&m.ID, &m.From, &m.To, &m.EdgeType, &m.Distance, &m.TravelTime, &m.Cost, &m.Capacity, &m.IsOneWay); err != nil {
			return nil, fmt.Errorf("routing: scan edge metadata: %w", err)
		}
		meta = append(meta, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("routing: rows edge metadata: %w", err)
	}

	return meta, nil
}
