package store

import (
	"context"

	"pavecraft/internal/network"
)

// Store reads the performance catalog and the saved design cases of a
// project. Nothing is written back through it.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	ListPerformances(ctx context.Context, projectID string) ([]network.Performance, error)
	ListDesignCases(ctx context.Context, projectID string) ([]DesignCase, error)
}
