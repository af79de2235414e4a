package ingest

import (
	"errors"
	"fmt"
	"strings"

	"pavecraft/internal/match"
	"pavecraft/internal/network"
)

// Commit is the second import phase. It settles performance nodes that the
// preview could not match using selections (input label to performance id)
// and rewrites edge endpoints whose node ids changed. Labels matched during
// the preview keep their match; selections for them are ignored.
func Commit(preview *Preview, selections map[string]string) network.Network {
	matches := make(map[string]match.Result, len(preview.PerformanceMatches))
	for _, m := range preview.PerformanceMatches {
		if _, exists := matches[m.InputLabel]; !exists {
			matches[m.InputLabel] = m
		}
	}

	src := preview.ConvertedNetwork
	nodes := make([]network.Node, len(src.Nodes))
	renamed := make(map[string]string)
	for i, node := range src.Nodes {
		out := node.Clone()
		if node.Layer() == network.LayerPerformance {
			if m, ok := matches[node.Label]; ok {
				performanceID := selections[m.InputLabel]
				if m.Matched != nil {
					performanceID = m.Matched.ID
				}
				if performanceID != "" {
					out.ID = network.NodeIDForPerformance(performanceID)
					out.Kind = network.PerformanceKind{PerformanceID: performanceID}
				}
			}
		}
		if out.ID != node.ID {
			renamed[node.ID] = out.ID
		}
		nodes[i] = out
	}

	edges := make([]network.Edge, len(src.Edges))
	for i, edge := range src.Edges {
		out := edge.Clone()
		if id, ok := renamed[edge.SourceID]; ok {
			out.SourceID = id
		}
		if id, ok := renamed[edge.TargetID]; ok {
			out.TargetID = id
		}
		edges[i] = out
	}

	return network.Network{Nodes: nodes, Edges: edges, WeightMode: src.WeightMode}
}

var (
	ErrPreviewInvalid = errors.New("preview has errors")
	ErrUnresolved     = errors.New("ambiguous performance labels left unresolved")
	ErrDuplicateNode  = errors.New("performance linked by more than one node")
)

// Finalize commits preview after checking that it has no errors and that
// selections settle every ambiguous label with one of its candidates. A
// performance may back only one node of the committed network.
func Finalize(preview *Preview, selections map[string]string) (network.Network, error) {
	if len(preview.Errors) > 0 {
		return network.Network{}, fmt.Errorf("%w: %d error(s)", ErrPreviewInvalid, len(preview.Errors))
	}
	if labels := preview.Unresolved(selections); len(labels) > 0 {
		return network.Network{}, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(labels, ", "))
	}
	final := Commit(preview, selections)
	holders := make(map[string]string)
	for _, node := range final.Nodes {
		id := node.PerformanceID()
		if id == "" {
			continue
		}
		if other, taken := holders[id]; taken {
			return network.Network{}, fmt.Errorf("%w: %s is linked by %q and %q", ErrDuplicateNode, id, other, node.Label)
		}
		holders[id] = node.Label
	}
	return final, nil
}
