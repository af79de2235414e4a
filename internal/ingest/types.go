package ingest

import (
	"time"

	"pavecraft/internal/diag"
	"pavecraft/internal/match"
	"pavecraft/internal/network"
)

type Options struct {
	// WeightMode is the mode in effect when the input does not name one.
	WeightMode network.WeightMode
	Matcher    match.Config
	// Now stamps synthetic node and edge ids. Defaults to time.Now.
	Now      func() time.Time
	Recorder Recorder
}

// Recorder observes finished previews.
type Recorder interface {
	RecordPreview(p *Preview)
}

type LayerCounts struct {
	P int `json:"P"`
	A int `json:"A"`
	V int `json:"V"`
	E int `json:"E"`
}

func (c *LayerCounts) add(layer network.Layer) {
	switch layer {
	case network.LayerPerformance:
		c.P++
	case network.LayerAttribute:
		c.A++
	case network.LayerVariable:
		c.V++
	case network.LayerEntity:
		c.E++
	}
}

type Stats struct {
	NodesByLayer LayerCounts `json:"nodesByLayer"`
	EdgeCount    int         `json:"edgeCount"`
}

// Preview is the result of the first import phase. Callers keep it and
// hand it back to Commit together with their choices for ambiguous
// performance labels.
type Preview struct {
	ImportID           string            `json:"importId"`
	Valid              bool              `json:"valid"`
	Errors             []diag.Diagnostic `json:"errors"`
	Warnings           []diag.Diagnostic `json:"warnings"`
	Infos              []diag.Diagnostic `json:"infos"`
	PerformanceMatches []match.Result    `json:"performanceMatches"`
	ConvertedNetwork   network.Network   `json:"convertedNetwork"`
	// WeightMode is the mode named by the input, nil when it named none.
	WeightMode *network.WeightMode `json:"weightMode"`
	Stats      Stats               `json:"stats"`
}

// Ambiguous returns the matches waiting for a caller decision.
func (p *Preview) Ambiguous() []match.Result {
	var out []match.Result
	for _, m := range p.PerformanceMatches {
		if m.Ambiguous() {
			out = append(out, m)
		}
	}
	return out
}

// Unresolved lists ambiguous labels that selections does not settle with
// one of the offered candidates.
func (p *Preview) Unresolved(selections map[string]string) []string {
	var labels []string
	for _, m := range p.Ambiguous() {
		chosen, ok := selections[m.InputLabel]
		if !ok || !isCandidate(m, chosen) {
			labels = append(labels, m.InputLabel)
		}
	}
	return labels
}

func isCandidate(m match.Result, performanceID string) bool {
	for _, c := range m.Candidates {
		if c.ID == performanceID {
			return true
		}
	}
	return false
}
