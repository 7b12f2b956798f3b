// Package postgres implements the routing persistence collaborators
// (scenarios, profiles, edge metadata, fix log, query history) on
// PostgreSQL via pgx.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	routing "github.com/IlliaMaluk/transport-routing-system"
)

// PGStore implements the routing store interfaces using PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

var (
	_ routing.ScenarioStore = (*PGStore)(nil)
	_ routing.ProfileStore  = (*PGStore)(nil)
	_ routing.MetadataStore = (*PGStore)(nil)
	_ routing.FixLogStore   = (*PGStore)(nil)
	_ routing.HistoryStore  = (*PGStore)(nil)
)

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return err != nil && err.Error() == "no rows in result set"
}
