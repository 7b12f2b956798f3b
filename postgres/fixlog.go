package postgres

import (
	"context"
	"fmt"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// AppendFixRecord inserts one immutable audit record into the fix log
// and returns its generated ID. Records are never updated or deleted.
func (s *PGStore) AppendFixRecord(ctx context.Context, rec *routing.FixRecord) (int64, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO graph_fix_log (fix_type, description, details)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		rec.FixType, rec.Description, rec.Details,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("routing: append fix record: %w", err)
	}
	return rec.ID, nil
}
