package validate

import (
	"context"

	"pavecraft/internal/network"
	"pavecraft/internal/store"
)

type Source interface {
	ListPerformances(ctx context.Context, projectID string) ([]network.Performance, error)
	ListDesignCases(ctx context.Context, projectID string) ([]store.DesignCase, error)
}
