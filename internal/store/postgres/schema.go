package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// Runs as one implicit transaction.
	ddl := `
CREATE TABLE IF NOT EXISTS projects (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT
);

CREATE TABLE IF NOT EXISTS performances (
    id          TEXT PRIMARY KEY,
    project_id  TEXT NOT NULL REFERENCES projects(id),
    name        TEXT NOT NULL,
    parent_id   TEXT,
    level       INTEGER DEFAULT 0,
    is_leaf     BOOLEAN DEFAULT TRUE,
    unit        TEXT,
    description TEXT,
    position    BIGINT GENERATED ALWAYS AS IDENTITY
);

CREATE TABLE IF NOT EXISTS design_cases (
    id                        TEXT PRIMARY KEY,
    project_id                TEXT NOT NULL REFERENCES projects(id),
    name                      TEXT NOT NULL,
    description               TEXT,
    created_at                TIMESTAMPTZ DEFAULT now(),
    network_json              JSONB NOT NULL,
    performance_snapshot_json JSONB NOT NULL DEFAULT '[]',
    weight_mode               TEXT DEFAULT 'discrete_7'
);

CREATE INDEX IF NOT EXISTS idx_performances_project ON performances (project_id);
CREATE INDEX IF NOT EXISTS idx_design_cases_project ON design_cases (project_id);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
