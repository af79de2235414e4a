package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pavecraft/internal/network"
	"pavecraft/internal/store"
)

func (c *Client) ListPerformances(ctx context.Context, projectID string) ([]network.Performance, error) {
	query := `
SELECT id, name, COALESCE(parent_id, ''), COALESCE(level, 0), COALESCE(is_leaf, TRUE),
       COALESCE(unit, ''), COALESCE(description, '')
FROM performances
WHERE project_id = $1
ORDER BY position
`

	rows, err := c.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing performances: %w", err)
	}

	performances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (network.Performance, error) {
		var p network.Performance
		err := row.Scan(&p.ID, &p.Name, &p.ParentID, &p.Level, &p.IsLeaf, &p.Unit, &p.Description)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning performances: %w", err)
	}
	return performances, nil
}

func (c *Client) ListDesignCases(ctx context.Context, projectID string) ([]store.DesignCase, error) {
	query := `
SELECT id, project_id, name, network_json::text, performance_snapshot_json::text, COALESCE(weight_mode, '')
FROM design_cases
WHERE project_id = $1
ORDER BY created_at, id
`

	rows, err := c.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing design cases: %w", err)
	}
	defer rows.Close()

	cases := make([]store.DesignCase, 0)
	for rows.Next() {
		var dc store.DesignCase
		var networkJSON, snapshotJSON, weightMode string
		if err := rows.Scan(&dc.ID, &dc.ProjectID, &dc.Name, &networkJSON, &snapshotJSON, &weightMode); err != nil {
			return nil, fmt.Errorf("scanning design case: %w", err)
		}
		if err := store.DecodeDesignCase(&dc, []byte(networkJSON), []byte(snapshotJSON), weightMode); err != nil {
			return nil, err
		}
		cases = append(cases, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating design case rows: %w", err)
	}
	return cases, nil
}
