package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"pavecraft/internal/network"
	"pavecraft/internal/store"
)

// ListPerformances returns the catalog of a project in insertion order.
func (c *Client) ListPerformances(ctx context.Context, projectID string) ([]network.Performance, error) {
	query := `
	SELECT id, name, parent_id, level, is_leaf, unit, description
	FROM performances
	WHERE project_id = ?
	ORDER BY rowid
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing performances: %w", err)
	}
	defer rows.Close()

	performances := make([]network.Performance, 0)
	for rows.Next() {
		var p network.Performance
		var parentID, unit, description sql.NullString
		var level sql.NullInt64
		var isLeaf sql.NullBool
		if err := rows.Scan(&p.ID, &p.Name, &parentID, &level, &isLeaf, &unit, &description); err != nil {
			return nil, fmt.Errorf("scanning performance: %w", err)
		}
		p.ParentID = parentID.String
		p.Level = int(level.Int64)
		p.IsLeaf = !isLeaf.Valid || isLeaf.Bool
		p.Unit = unit.String
		p.Description = description.String
		performances = append(performances, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating performance rows: %w", err)
	}
	return performances, nil
}

func (c *Client) ListDesignCases(ctx context.Context, projectID string) ([]store.DesignCase, error) {
	query := `
	SELECT id, project_id, name, network_json, performance_snapshot_json, weight_mode
	FROM design_cases
	WHERE project_id = ?
	ORDER BY created_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing design cases: %w", err)
	}
	defer rows.Close()

	cases := make([]store.DesignCase, 0)
	for rows.Next() {
		var dc store.DesignCase
		var networkJSON, snapshotJSON, weightMode sql.NullString
		if err := rows.Scan(&dc.ID, &dc.ProjectID, &dc.Name, &networkJSON, &snapshotJSON, &weightMode); err != nil {
			return nil, fmt.Errorf("scanning design case: %w", err)
		}
		if err := store.DecodeDesignCase(&dc, []byte(networkJSON.String), []byte(snapshotJSON.String), weightMode.String); err != nil {
			return nil, err
		}
		cases = append(cases, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating design case rows: %w", err)
	}
	return cases, nil
}
