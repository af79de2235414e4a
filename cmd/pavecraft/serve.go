package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"pavecraft/internal/ingest"
	"pavecraft/internal/mcp"
	"pavecraft/internal/metrics"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

func runServe(ctx context.Context, metricsAddr string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.Close()

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		p.logger.Info("serving metrics", "addr", metricsAddr)
	}

	opts := ingest.Options{
		WeightMode: p.cfg.WeightMode(ingest.DefaultWeightMode),
		Matcher:    p.cfg.MatchConfig(),
		Recorder:   collector,
	}
	server := mcp.NewServer(p.catalogSource(""), opts, p.logger, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
