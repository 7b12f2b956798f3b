package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    id          BIGSERIAL PRIMARY KEY,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    is_active   BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS scenario_modifications (
    id                BIGSERIAL PRIMARY KEY,
    scenario_id       BIGINT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
    from_node         BIGINT NOT NULL,
    to_node           BIGINT NOT NULL,
    disable           BOOLEAN NOT NULL DEFAULT FALSE,
    weight_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    new_weight        DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS optimization_profiles (
    id               BIGSERIAL PRIMARY KEY,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    name             TEXT NOT NULL UNIQUE,
    description      TEXT,
    weight_time      DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    weight_distance  DOUBLE PRECISION NOT NULL DEFAULT 0.0,
    weight_cost      DOUBLE PRECISION NOT NULL DEFAULT 0.0,
    transfer_penalty DOUBLE PRECISION NOT NULL DEFAULT 0.0
);

CREATE TABLE IF NOT EXISTS edge_metadata (
    id          BIGSERIAL PRIMARY KEY,
    from_node   BIGINT NOT NULL,
    to_node     BIGINT NOT NULL,
    edge_type   TEXT,
    distance    DOUBLE PRECISION,
    travel_time DOUBLE PRECISION,
    cost        DOUBLE PRECISION,
    capacity    DOUBLE PRECISION,
    is_one_way  BOOLEAN NOT NULL DEFAULT TRUE,
    UNIQUE (from_node, to_node)
);

CREATE TABLE IF NOT EXISTS graph_fix_log (
    id          BIGSERIAL PRIMARY KEY,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    fix_type    TEXT NOT NULL,
    description TEXT,
    details     TEXT
);

CREATE TABLE IF NOT EXISTS route_queries (
    id                BIGSERIAL PRIMARY KEY,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    source_node       BIGINT NOT NULL,
    target_node       BIGINT NOT NULL,
    algorithm         TEXT NOT NULL,
    criteria          TEXT NOT NULL,
    profile           TEXT,
    total_weight      DOUBLE PRECISION,
    execution_time_ms DOUBLE PRECISION,
    success           BOOLEAN NOT NULL DEFAULT TRUE,
    error_message     TEXT,
    is_batch          BOOLEAN NOT NULL DEFAULT FALSE,
    batch_group       TEXT,
    scenario_id       BIGINT REFERENCES scenarios(id)
);

CREATE INDEX IF NOT EXISTS idx_scenario_mods_scenario ON scenario_modifications(scenario_id);
CREATE INDEX IF NOT EXISTS idx_edge_metadata_pair     ON edge_metadata(from_node, to_node);
CREATE INDEX IF NOT EXISTS idx_route_queries_created  ON route_queries(created_at);
CREATE INDEX IF NOT EXISTS idx_route_queries_scenario ON route_queries(scenario_id);
`

// CreateSchema creates all routing tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops all routing tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS route_queries, graph_fix_log, edge_metadata, optimization_profiles, scenario_modifications, scenarios CASCADE;`)
	return err
}
