// Package metrics exports import pipeline outcomes to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pavecraft/internal/diag"
	"pavecraft/internal/ingest"
)

var _ ingest.Recorder = (*Collector)(nil)

type Collector struct {
	ImportsTotal     *prometheus.CounterVec
	DiagnosticsTotal *prometheus.CounterVec
	MatchesTotal     *prometheus.CounterVec
	ImportNodes      prometheus.Histogram
}

// New registers the import collectors on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		ImportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pavecraft_imports_total",
				Help: "Total number of network import previews",
			},
			[]string{"valid"},
		),
		DiagnosticsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pavecraft_diagnostics_total",
				Help: "Diagnostics reported by import previews",
			},
			[]string{"severity"},
		),
		MatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pavecraft_matches_total",
				Help: "Performance label matches by deciding strategy",
			},
			[]string{"strategy"},
		),
		ImportNodes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pavecraft_import_nodes",
				Help:    "Number of nodes per imported network",
				Buckets: []float64{5, 10, 25, 50, 100, 250, 500},
			},
		),
	}
}

func (c *Collector) RecordPreview(p *ingest.Preview) {
	c.ImportsTotal.WithLabelValues(strconv.FormatBool(p.Valid)).Inc()
	c.DiagnosticsTotal.WithLabelValues(string(diag.SeverityError)).Add(float64(len(p.Errors)))
	c.DiagnosticsTotal.WithLabelValues(string(diag.SeverityWarn)).Add(float64(len(p.Warnings)))
	c.DiagnosticsTotal.WithLabelValues(string(diag.SeverityInfo)).Add(float64(len(p.Infos)))
	for _, m := range p.PerformanceMatches {
		c.MatchesTotal.WithLabelValues(string(m.Strategy)).Inc()
	}
	c.ImportNodes.Observe(float64(len(p.ConvertedNetwork.Nodes)))
}
