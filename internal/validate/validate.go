package validate

import (
	"context"
	"fmt"
	"strconv"

	"pavecraft/internal/network"
	"pavecraft/internal/pave"
	"pavecraft/internal/perftree"
	"pavecraft/internal/store"
	"pavecraft/internal/weights"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
	SeverityInfo  Severity = "info"
)

const (
	codeDuplicateNodeID     = "duplicate_node_id"
	codeDanglingEndpoint    = "dangling_endpoint"
	codeSelfLoop            = "self_loop"
	codeDuplicateEdge       = "duplicate_edge"
	codePaveViolation       = "pave_violation"
	codeUndirectedWeight    = "undirected_weight"
	codeWeightOutOfDomain   = "weight_out_of_domain"
	codeLegacyWeights       = "legacy_weights"
	codeUnknownPerformance  = "unknown_performance"
	codePerformanceUnlinked = "performance_unlinked"
	codeTreeChanged         = "performance_tree_changed"
	codeRemapPending        = "remap_pending"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Case     string
	Edge     string
	Node     string
}

// CaseSummary records whether a stored design case can still be edited
// under the current catalog.
type CaseSummary struct {
	ID       string
	Name     string
	Editable bool
	// Mismatch explains a locked case; empty when Editable.
	Mismatch string
	// Migrated counts edge weights moved off the legacy 7-level scale.
	Migrated int
}

type Report struct {
	Issues []Issue
	Cases  []CaseSummary
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Network re-checks a stored network against the PAVE grammar and its
// weight domain. Networks without a weight mode are checked as 7-level.
func Network(net network.Network) *Report {
	issues := make([]Issue, 0)

	nodes := make(map[string]network.Node, len(net.Nodes))
	for _, node := range net.Nodes {
		if _, dup := nodes[node.ID]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeDuplicateNodeID,
				Message:  fmt.Sprintf("node id %s is used more than once", node.ID),
				Node:     node.Label,
			})
			continue
		}
		nodes[node.ID] = node
		if node.Layer() == network.LayerPerformance && node.PerformanceID() == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codePerformanceUnlinked,
				Message:  fmt.Sprintf("performance node %q is not linked to a catalog entry", node.Label),
				Node:     node.Label,
			})
		}
	}

	mode := net.WeightMode
	if mode == "" {
		mode = network.WeightDiscrete7
	}

	seen := make(map[string]struct{}, len(net.Edges))
	for _, edge := range net.Edges {
		from, okFrom := nodes[edge.SourceID]
		to, okTo := nodes[edge.TargetID]
		if !okFrom || !okTo {
			missing := edge.SourceID
			if okFrom {
				missing = edge.TargetID
			}
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeDanglingEndpoint,
				Message:  fmt.Sprintf("edge %s references missing node %s", edge.ID, missing),
				Edge:     edge.ID,
			})
			continue
		}
		label := from.Label + " → " + to.Label

		if edge.SourceID == edge.TargetID {
			issues = append(issues, edgeIssue(SeverityError, codeSelfLoop, "self loops are not allowed", label))
			continue
		}

		key := edge.SourceID + "->" + edge.TargetID
		if _, dup := seen[key]; dup {
			issues = append(issues, edgeIssue(SeverityWarn, codeDuplicateEdge, "duplicate edge", label))
			continue
		}
		seen[key] = struct{}{}

		if violation, bad := pave.CheckEdge(from.Layer(), to.Layer()); bad {
			issues = append(issues, edgeIssue(SeverityError, codePaveViolation, violation.Message, label))
			continue
		}

		if edge.Weight == nil {
			continue
		}
		w := *edge.Weight
		if pave.IsUndirected(from.Layer(), to.Layer()) {
			if w != 0 {
				issues = append(issues, edgeIssue(SeverityInfo, codeUndirectedWeight, "weight on an undirected V-E or E-E edge is ignored", label))
			}
			continue
		}
		if !weights.Conforms(w, mode) {
			issues = append(issues, edgeIssue(SeverityWarn, codeWeightOutOfDomain,
				fmt.Sprintf("weight %s is not a %s value", strconv.FormatFloat(w, 'f', -1, 64), mode), label))
		}
	}

	return &Report{Issues: issues, Cases: []CaseSummary{}}
}

// Run validates every stored design case of a project. Legacy weights are
// migrated in memory before checking, and each case is compared with the
// current catalog to decide whether it is still editable.
func Run(ctx context.Context, src Source, projectID string) (*Report, error) {
	if src == nil {
		return nil, fmt.Errorf("store is required")
	}

	catalog, err := src.ListPerformances(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list performances: %w", err)
	}
	cases, err := src.ListDesignCases(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list design cases: %w", err)
	}

	leaves := make(map[string]struct{})
	for _, p := range network.Leaves(catalog) {
		leaves[p.ID] = struct{}{}
	}

	report := &Report{Issues: make([]Issue, 0), Cases: make([]CaseSummary, 0, len(cases))}
	for _, dc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary, issues := validateCase(dc, catalog, leaves)
		report.Cases = append(report.Cases, summary)
		report.Issues = append(report.Issues, issues...)
	}
	return report, nil
}

func validateCase(dc store.DesignCase, catalog []network.Performance, leaves map[string]struct{}) (CaseSummary, []Issue) {
	summary := CaseSummary{ID: dc.ID, Name: dc.Name, Editable: true}
	var issues []Issue

	// The mode column defaults to discrete_7, which is also what legacy rows
	// carry; only a mode saved inside the network marks a migrated case.
	net := dc.Network
	legacy := net.WeightMode == "" && (dc.WeightMode == "" || dc.WeightMode == network.WeightDiscrete7)
	if net.WeightMode == "" {
		net.WeightMode = dc.WeightMode
	}
	if legacy && weights.NeedsMigration(net.Edges) {
		net.Edges, summary.Migrated = weights.MigrateEdges(net.Edges, false)
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Code:     codeLegacyWeights,
			Message:  fmt.Sprintf("%d edge weight(s) read from the legacy 7-level scale", summary.Migrated),
		})
	}

	issues = append(issues, Network(net).Issues...)

	if len(dc.Snapshot) > 0 && !perftree.Editable(catalog, dc.Snapshot) {
		summary.Editable = false
		summary.Mismatch = perftree.MismatchMessage(catalog, dc.Snapshot)
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeTreeChanged,
			Message:  "performance tree changed since the case was saved; the case is read-only",
		})
	}

	if summary.Editable {
		var mapping perftree.Mapping
		if len(dc.Snapshot) > 0 {
			// Shapes match here, so the mapping cannot fail.
			mapping, _ = perftree.CreateIDMapping(dc.Snapshot, catalog)
		}
		for _, node := range net.Nodes {
			id := node.PerformanceID()
			if id == "" {
				continue
			}
			if _, ok := leaves[id]; ok {
				continue
			}
			if current, ok := mapping.Lookup(id, perftree.Forward); ok {
				issues = append(issues, Issue{
					Severity: SeverityInfo,
					Code:     codeRemapPending,
					Message:  fmt.Sprintf("performance %s is now %s; remap the case to follow the catalog", id, current),
					Node:     node.Label,
				})
			} else {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeUnknownPerformance,
					Message:  fmt.Sprintf("performance %s is not a leaf of the current catalog", id),
					Node:     node.Label,
				})
			}
		}
	}

	for i := range issues {
		issues[i].Case = dc.Name
	}
	return summary, issues
}

func edgeIssue(severity Severity, code, message, edge string) Issue {
	return Issue{Severity: severity, Code: code, Message: message, Edge: edge}
}
