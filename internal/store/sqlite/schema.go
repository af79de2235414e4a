package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// EnsureSchema creates the tables read by the client when they are missing.
// The layout matches the design application's local database so an existing
// file can be opened directly.
func (c *Client) EnsureSchema(ctx context.Context) error {
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
		is_leaf     INTEGER DEFAULT 1,
		unit        TEXT,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS design_cases (
		id                        TEXT PRIMARY KEY,
		project_id                TEXT NOT NULL REFERENCES projects(id),
		name                      TEXT NOT NULL,
		description               TEXT,
		created_at                TEXT DEFAULT (datetime('now')),
		network_json              TEXT NOT NULL,
		performance_snapshot_json TEXT NOT NULL DEFAULT '[]',
		weight_mode               TEXT DEFAULT 'discrete_7'
	);

	-- project scoped lookups
	CREATE INDEX IF NOT EXISTS idx_performances_project ON performances (project_id);
	CREATE INDEX IF NOT EXISTS idx_design_cases_project ON design_cases (project_id);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
