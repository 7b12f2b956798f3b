package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// RecordQuery appends one route query record. Criteria are stored as a
// JSON array, matching the wire shape.
func (s *PGStore) RecordQuery(ctx context.Context, rec *routing.RouteQueryRecord) error {
	criteria := rec.Criteria
	if criteria == nil {
		criteria = []string{}
	}
	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("routing: marshal criteria: %w", err)
	}

	var scenarioID *int64
	if rec.ScenarioID != 0 {
		scenarioID = &rec.ScenarioID
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO route_queries
		   (source_node, target_node, algorithm, criteria, profile, total_weight,
		    execution_time_ms, success, error_message, is_batch, batch_group, scenario_id)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''), $10, NULLIF($11, ''), $12)
		 RETURNING id, created_at`,
		rec.Source, rec.Target, rec.Algorithm, string(criteriaJSON), rec.Profile,
		rec.TotalWeight, rec.ExecutionTimeMS, rec.Success, rec.ErrorMessage,
		rec.IsBatch, rec.BatchGroup, scenarioID,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("routing: insert route query: %w", err)
	}
	return nil
}

// ListQueries returns the most recent query records, newest first.
// Returns an empty slice (not nil) if none exist.
func (s *PGStore) ListQueries(ctx context.Context, limit int) ([]routing.RouteQueryRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, created_at, source_node, target_node, algorithm, criteria,
		        COALESCE(profile, ''), total_weight, execution_time_ms, success,
		        COALESCE(error_message, ''), is_batch, COALESCE(batch_group, ''),
		        COALESCE(scenario_id, 0)
		 FROM route_queries ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("routing: list route queries: %w", err)
	}
	defer rows.Close()

	records := []routing.RouteQueryRecord{}
	for rows.Next() {
		var rec routing.RouteQueryRecord
		var criteriaJSON string
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.Source, &rec.Target, &rec.Algorithm,
			&criteriaJSON, &rec.Profile, &rec.TotalWeight, &rec.ExecutionTimeMS,
			&rec.Success, &rec.ErrorMessage, &rec.IsBatch, &rec.BatchGroup,
			&rec.ScenarioID,
		); err != nil {
			return nil, fmt.Errorf("routing: scan route query: %w", err)
		}
		if err := json.Unmarshal([]byte(criteriaJSON), &rec.Criteria); err != nil {
			rec.Criteria = []string{}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("routing: rows route queries: %w", err)
	}

	return records, nil
}

// PerformanceStats aggregates the whole query history: totals, success
// split, average and maximum execution time, and a per-algorithm
// breakdown.
func (s *PGStore) PerformanceStats(ctx context.Context) (*routing.PerformanceStats, error) {
	stats := &routing.PerformanceStats{PerAlgorithm: []routing.AlgorithmStats{}}

	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE success),
		        COUNT(*) FILTER (WHERE NOT success),
		        AVG(execution_time_ms) FILTER (WHERE success),
		        MAX(execution_time_ms) FILTER (WHERE success)
		 FROM route_queries`,
	).Scan(&stats.TotalQueries, &stats.SuccessfulQueries, &stats.FailedQueries,
		&stats.AvgExecutionMS, &stats.MaxExecutionMS)
	if err != nil {
		return nil, fmt.Errorf("routing: query performance stats: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT algorithm, COUNT(*),
		        AVG(execution_time_ms) FILTER (WHERE success),
		        MAX(execution_time_ms) FILTER (WHERE success)
		 FROM route_queries GROUP BY algorithm ORDER BY algorithm`)
	if err != nil {
		return nil, fmt.Errorf("routing: query algorithm stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a routing.AlgorithmStats
		if err := rows.Scan(&a.Algorithm, &a.QueryCount, &a.AvgExecutionMS, &a.MaxExecutionMS); err != nil {
			return nil, fmt.Errorf("routing: scan algorithm stats: %w", err)
		}
		stats.PerAlgorithm = append(stats.PerAlgorithm, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("routing: rows algorithm stats: %w", err)
	}

	return stats, nil
}
