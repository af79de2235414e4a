package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pavecraft/internal/ingest"
	"pavecraft/internal/network"
)

// CatalogSource yields the current performance catalog.
type CatalogSource func(ctx context.Context) ([]network.Performance, error)

type Server struct {
	catalog CatalogSource
	opts    ingest.Options
	logger  *slog.Logger
	mcp     *sdk.Server
}

func NewServer(catalog CatalogSource, opts ingest.Options, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		catalog: catalog,
		opts:    opts,
		logger:  logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "pavecraft",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
