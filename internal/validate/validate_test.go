package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pavecraft/internal/network"
	"pavecraft/internal/store"
)

type mockStore struct {
	performances []network.Performance
	cases        []store.DesignCase
	err          error
}

func (m *mockStore) ListPerformances(ctx context.Context, projectID string) ([]network.Performance, error) {
	return m.performances, m.err
}

func (m *mockStore) ListDesignCases(ctx context.Context, projectID string) ([]store.DesignCase, error) {
	return m.cases, nil
}

func node(id, label string, kind network.Kind) network.Node {
	return network.Node{ID: id, Label: label, Kind: kind}
}

func edge(id, from, to string, weight *float64) network.Edge {
	return network.Edge{ID: id, SourceID: from, TargetID: to, Type: network.DefaultCausalType, Weight: weight}
}

func sampleNodes() []network.Node {
	return []network.Node{
		node("perf-x1", "Top Speed", network.PerformanceKind{PerformanceID: "x1"}),
		node("a", "Drag", network.AttributeKind{}),
		node("v", "Body Shape", network.VariableKind{}),
		node("e", "Wind", network.EntityKind{Subtype: network.SubtypeEnvironment}),
		node("o", "Chassis", network.EntityKind{Subtype: network.SubtypeObject}),
	}
}

func TestNetwork_Clean(t *testing.T) {
	net := network.Network{
		Nodes: sampleNodes(),
		Edges: []network.Edge{
			edge("e1", "a", "perf-x1", network.Float(-3)),
			edge("e2", "v", "a", network.Float(5)),
			edge("e3", "e", "v", nil),
			edge("e4", "o", "e", network.Float(0)),
		},
		WeightMode: network.WeightDiscrete7,
	}

	report := Network(net)
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
}

func TestNetwork_Issues(t *testing.T) {
	tests := []struct {
		name     string
		edges    []network.Edge
		mode     network.WeightMode
		code     string
		severity Severity
	}{
		{
			name:     "dangling endpoint",
			edges:    []network.Edge{edge("e1", "a", "gone", nil)},
			code:     codeDanglingEndpoint,
			severity: SeverityWarn,
		},
		{
			name:     "self loop",
			edges:    []network.Edge{edge("e1", "a", "a", nil)},
			code:     codeSelfLoop,
			severity: SeverityError,
		},
		{
			name:     "duplicate",
			edges:    []network.Edge{edge("e1", "a", "perf-x1", nil), edge("e2", "a", "perf-x1", nil)},
			code:     codeDuplicateEdge,
			severity: SeverityWarn,
		},
		{
			name:     "performance as source",
			edges:    []network.Edge{edge("e1", "perf-x1", "a", nil)},
			code:     codePaveViolation,
			severity: SeverityError,
		},
		{
			name:     "attribute to variable",
			edges:    []network.Edge{edge("e1", "a", "v", nil)},
			code:     codePaveViolation,
			severity: SeverityError,
		},
		{
			name:     "weight on undirected pair",
			edges:    []network.Edge{edge("e1", "v", "e", network.Float(1))},
			code:     codeUndirectedWeight,
			severity: SeverityInfo,
		},
		{
			name:     "weight outside discrete domain",
			edges:    []network.Edge{edge("e1", "a", "perf-x1", network.Float(2))},
			mode:     network.WeightDiscrete5,
			code:     codeWeightOutOfDomain,
			severity: SeverityWarn,
		},
		{
			name:     "weight outside continuous range",
			edges:    []network.Edge{edge("e1", "a", "perf-x1", network.Float(1.5))},
			mode:     network.WeightContinuous,
			code:     codeWeightOutOfDomain,
			severity: SeverityWarn,
		},
		{
			name:     "missing mode checks against 7-level",
			edges:    []network.Edge{edge("e1", "a", "perf-x1", network.Float(4))},
			code:     codeWeightOutOfDomain,
			severity: SeverityWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Network(network.Network{Nodes: sampleNodes(), Edges: tt.edges, WeightMode: tt.mode})
			issue, ok := findIssue(report.Issues, tt.code)
			if !ok {
				t.Fatalf("expected %s issue, got %+v", tt.code, report.Issues)
			}
			if issue.Severity != tt.severity {
				t.Fatalf("severity = %s, want %s", issue.Severity, tt.severity)
			}
		})
	}
}

func TestNetwork_DuplicateNodeAndUnlinkedPerformance(t *testing.T) {
	net := network.Network{
		Nodes: []network.Node{
			node("n1", "Speed", network.PerformanceKind{}),
			node("n1", "Drag", network.AttributeKind{}),
		},
	}

	report := Network(net)
	if !report.HasErrors() {
		t.Fatalf("expected duplicate node id to be an error")
	}
	if _, ok := findIssue(report.Issues, codePerformanceUnlinked); !ok {
		t.Fatalf("expected unlinked performance warning, got %+v", report.Issues)
	}
}

func catalog(ids ...string) []network.Performance {
	out := []network.Performance{{ID: ids[0], Name: "Vehicle", Level: 0}}
	names := []string{"P1 - Top Speed", "P2 - Range"}
	for i, id := range ids[1:] {
		out = append(out, network.Performance{ID: id, Name: names[i], ParentID: ids[0], Level: 1, IsLeaf: true})
	}
	return out
}

func TestRun_EditableCase(t *testing.T) {
	current := catalog("root", "x1", "x2")
	src := &mockStore{
		performances: current,
		cases: []store.DesignCase{{
			ID:       "dc-1",
			Name:     "Baseline",
			Network:  network.Network{Nodes: sampleNodes(), Edges: []network.Edge{edge("e1", "a", "perf-x1", network.Float(3))}, WeightMode: network.WeightDiscrete7},
			Snapshot: current,
		}},
	}

	report, err := Run(context.Background(), src, "p-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Cases) != 1 || !report.Cases[0].Editable {
		t.Fatalf("expected one editable case, got %+v", report.Cases)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
}

func TestRun_LockedCase(t *testing.T) {
	snapshot := catalog("root", "x1", "x2")
	current := append(catalog("root", "x1", "x2"), network.Performance{ID: "x3", Name: "P3 - Cost", ParentID: "root", Level: 1, IsLeaf: true})
	src := &mockStore{
		performances: current,
		cases: []store.DesignCase{{
			ID:       "dc-1",
			Name:     "Baseline",
			Network:  network.Network{Nodes: sampleNodes(), WeightMode: network.WeightDiscrete7},
			Snapshot: snapshot,
		}},
	}

	report, err := Run(context.Background(), src, "p-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	summary := report.Cases[0]
	if summary.Editable {
		t.Fatalf("expected case to be locked")
	}
	if summary.Mismatch == "" {
		t.Fatalf("expected a mismatch explanation")
	}
	issue, ok := findIssue(report.Issues, codeTreeChanged)
	if !ok {
		t.Fatalf("expected tree changed issue, got %+v", report.Issues)
	}
	if issue.Case != "Baseline" {
		t.Fatalf("issue case = %q, want Baseline", issue.Case)
	}
}

func TestRun_RenamedCatalogSuggestsRemap(t *testing.T) {
	snapshot := catalog("root", "x1", "x2")
	current := catalog("root-2", "y1", "y2")
	src := &mockStore{
		performances: current,
		cases: []store.DesignCase{{
			ID:       "dc-1",
			Name:     "Baseline",
			Network:  network.Network{Nodes: sampleNodes(), WeightMode: network.WeightDiscrete7},
			Snapshot: snapshot,
		}},
	}

	report, err := Run(context.Background(), src, "p-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.Cases[0].Editable {
		t.Fatalf("renamed ids with the same shape should stay editable")
	}
	if _, ok := findIssue(report.Issues, codeRemapPending); !ok {
		t.Fatalf("expected remap suggestion, got %+v", report.Issues)
	}
	if _, ok := findIssue(report.Issues, codeUnknownPerformance); ok {
		t.Fatalf("mapped performance should not be reported unknown")
	}
}

func TestRun_UnknownPerformanceWithoutSnapshot(t *testing.T) {
	src := &mockStore{
		performances: catalog("root", "z1", "z2"),
		cases: []store.DesignCase{{
			ID:      "dc-1",
			Name:    "Old",
			Network: network.Network{Nodes: sampleNodes(), WeightMode: network.WeightDiscrete7},
		}},
	}

	report, err := Run(context.Background(), src, "p-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.Cases[0].Editable {
		t.Fatalf("cases without a snapshot are editable")
	}
	if _, ok := findIssue(report.Issues, codeUnknownPerformance); !ok {
		t.Fatalf("expected unknown performance warning, got %+v", report.Issues)
	}
}

func TestRun_LegacyWeightsMigrated(t *testing.T) {
	current := catalog("root", "x1", "x2")
	src := &mockStore{
		performances: current,
		cases: []store.DesignCase{{
			ID:   "dc-1",
			Name: "Legacy",
			Network: network.Network{
				Nodes: sampleNodes(),
				Edges: []network.Edge{
					edge("e1", "a", "perf-x1", network.Float(1.0/3)),
					edge("e2", "v", "a", network.Float(-3)),
				},
			},
		}},
	}

	report, err := Run(context.Background(), src, "p-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := report.Cases[0].Migrated; got != 2 {
		t.Fatalf("migrated = %d, want 2", got)
	}
	if _, ok := findIssue(report.Issues, codeLegacyWeights); !ok {
		t.Fatalf("expected legacy weights info")
	}
	if _, ok := findIssue(report.Issues, codeWeightOutOfDomain); ok {
		t.Fatalf("migrated weights should conform, got %+v", report.Issues)
	}
}

func TestRun_ModeColumn(t *testing.T) {
	current := catalog("root", "x1", "x2")
	legacyEdges := []network.Edge{edge("e1", "a", "perf-x1", network.Float(-0.33))}

	t.Run("default column is still legacy", func(t *testing.T) {
		src := &mockStore{
			performances: current,
			cases: []store.DesignCase{{
				ID:         "dc-1",
				Name:       "Legacy",
				Network:    network.Network{Nodes: sampleNodes(), Edges: legacyEdges},
				WeightMode: network.WeightDiscrete7,
			}},
		}
		report, err := Run(context.Background(), src, "p-1")
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if got := report.Cases[0].Migrated; got != 1 {
			t.Fatalf("migrated = %d, want 1", got)
		}
	})

	t.Run("explicit column is checked without migration", func(t *testing.T) {
		src := &mockStore{
			performances: current,
			cases: []store.DesignCase{{
				ID:         "dc-1",
				Name:       "Five",
				Network:    network.Network{Nodes: sampleNodes(), Edges: legacyEdges},
				WeightMode: network.WeightDiscrete5,
			}},
		}
		report, err := Run(context.Background(), src, "p-1")
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if got := report.Cases[0].Migrated; got != 0 {
			t.Fatalf("migrated = %d, want 0", got)
		}
		issue, ok := findIssue(report.Issues, codeWeightOutOfDomain)
		if !ok {
			t.Fatalf("expected out of domain weight, got %+v", report.Issues)
		}
		if !strings.Contains(issue.Message, "discrete_5") {
			t.Fatalf("message = %q, want the column mode", issue.Message)
		}
	})
}

func TestRun_StoreError(t *testing.T) {
	src := &mockStore{err: errors.New("boom")}

	if _, err := Run(context.Background(), src, "p-1"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := Run(context.Background(), nil, "p-1"); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func findIssue(issues []Issue, code string) (Issue, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue, true
		}
	}
	return Issue{}, false
}
