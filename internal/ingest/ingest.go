package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pavecraft/internal/diag"
	"pavecraft/internal/match"
	"pavecraft/internal/network"
	"pavecraft/internal/parser"
	"pavecraft/internal/pave"
	"pavecraft/internal/weights"
)

// DefaultWeightMode applies when neither the input nor the caller names one.
const DefaultWeightMode = network.WeightDiscrete7

// Run is the preview phase: it parses input, resolves performance labels
// against catalog and builds a provisional network. Problems are reported
// as diagnostics on the returned preview; Run itself never fails.
func Run(input string, catalog []network.Performance, opts Options) *Preview {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	current := opts.WeightMode
	if current == "" {
		current = DefaultWeightMode
	}

	diags := &diag.List{}
	preview := &Preview{
		ImportID:           uuid.NewString(),
		PerformanceMatches: []match.Result{},
		ConvertedNetwork:   network.Network{Nodes: []network.Node{}, Edges: []network.Edge{}},
	}

	doc, err := parser.Parse(input, diags)
	if err != nil {
		diags.Add(fatalDiagnostic(err))
		return finish(preview, diags, opts.Recorder)
	}

	effective := current
	if doc.HasWeightMode {
		if mode, ok := weights.ParseMode(doc.WeightMode); ok {
			preview.WeightMode = &mode
			effective = mode
		} else {
			diags.Add(diag.Warnf(diag.CodeWeightModeUnknown, "unknown weight_mode %q ignored; using %s", doc.WeightMode, current))
		}
	}

	b := &builder{
		stamp:   now().UnixMilli(),
		matcher: match.New(catalog, opts.Matcher),
		mode:    effective,
		diags:   diags,
		byLabel: make(map[string]int, len(doc.Nodes)),
		seen:    make(map[string]struct{}, len(doc.Edges)),
		preview: preview,
	}
	for _, raw := range doc.Nodes {
		b.addNode(raw)
	}
	for _, raw := range doc.Edges {
		b.addEdge(raw)
	}

	preview.ConvertedNetwork.WeightMode = effective
	return finish(preview, diags, opts.Recorder)
}

func finish(preview *Preview, diags *diag.List, recorder Recorder) *Preview {
	preview.Errors = diags.Errors()
	preview.Warnings = diags.Warnings()
	preview.Infos = diags.Infos()
	preview.Valid = !diags.HasErrors() && len(preview.Ambiguous()) == 0
	if recorder != nil {
		recorder.RecordPreview(preview)
	}
	return preview
}

func fatalDiagnostic(err error) diag.Diagnostic {
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.Is(err, parser.ErrEmptyInput):
		return diag.Errorf(diag.CodeInputEmpty, "input is empty; provide a network JSON document")
	case errors.As(err, &syntaxErr):
		return diag.Errorf(diag.CodeParseFailed, "JSON syntax error: %v", syntaxErr.Err)
	case errors.Is(err, parser.ErrNotObject):
		return diag.Errorf(diag.CodeNotObject, "JSON must be an object ({...})")
	case errors.Is(err, parser.ErrMissingNodes):
		return diag.Errorf(diag.CodeNodesMissing, "a `nodes` array is required")
	default:
		return diag.Errorf(diag.CodeParseFailed, "%v", err)
	}
}

type builder struct {
	stamp     int64
	nodeCount int
	edgeCount int
	matcher   *match.Matcher
	mode      network.WeightMode
	diags     *diag.List
	byLabel   map[string]int
	seen      map[string]struct{}
	preview   *Preview
}

func (b *builder) addNode(raw parser.RawNode) {
	normalized, ok := pave.NormalizeLayer(raw.Layer, raw.Subtype)
	if !ok {
		b.diags.Add(diag.Errorf(diag.CodeLayerUnknown, "node %q: unknown layer %q (use P/A/V/E)", raw.Label, raw.Layer).WithNode(raw.Label))
		return
	}
	if _, exists := b.byLabel[raw.Label]; exists {
		b.diags.Add(diag.Warnf(diag.CodeLabelDuplicate, "node %q: duplicate label skipped", raw.Label).WithNode(raw.Label))
		return
	}

	kind := normalized.Kind()
	id := ""
	if normalized.Layer == network.LayerPerformance {
		result := b.matcher.Match(raw.Label)
		b.preview.PerformanceMatches = append(b.preview.PerformanceMatches, result)
		switch {
		case result.Resolved():
			kind = network.PerformanceKind{PerformanceID: result.Matched.ID}
			id = network.NodeIDForPerformance(result.Matched.ID)
		case len(result.Candidates) == 0:
			b.diags.Add(diag.Errorf(diag.CodePerformanceNotFound, "performance node %q: no matching performance found", raw.Label).WithNode(raw.Label))
		}
	}
	if id == "" {
		id = b.syntheticNodeID()
	}

	net := &b.preview.ConvertedNetwork
	net.Nodes = append(net.Nodes, network.Node{ID: id, Label: raw.Label, Kind: kind})
	b.byLabel[raw.Label] = len(net.Nodes) - 1
	b.preview.Stats.NodesByLayer.add(normalized.Layer)
}

func (b *builder) addEdge(raw parser.RawEdge) {
	net := &b.preview.ConvertedNetwork
	fromIdx, ok := b.byLabel[raw.From]
	if !ok {
		b.diags.Add(diag.Errorf(diag.CodeEdgeNodeUnknown, "edge #%d: node %q not found", raw.Index+1, raw.From).WithEdge(raw.From, raw.To))
		return
	}
	toIdx, ok := b.byLabel[raw.To]
	if !ok {
		b.diags.Add(diag.Errorf(diag.CodeEdgeNodeUnknown, "edge #%d: node %q not found", raw.Index+1, raw.To).WithEdge(raw.From, raw.To))
		return
	}
	from, to := net.Nodes[fromIdx], net.Nodes[toIdx]

	if from.ID == to.ID {
		b.diags.Add(diag.Errorf(diag.CodeEdgeSelfLoop, "self loops are not allowed").WithEdge(raw.From, raw.To))
		return
	}

	key := from.ID + "->" + to.ID
	if _, dup := b.seen[key]; dup {
		b.diags.Add(diag.Warnf(diag.CodeEdgeDuplicate, "duplicate edge skipped").WithEdge(raw.From, raw.To))
		return
	}
	b.seen[key] = struct{}{}

	if violation, bad := pave.CheckEdge(from.Layer(), to.Layer()); bad {
		b.diags.Add(diag.Errorf(diag.CodePaveViolation, "%s", violation.Message).WithEdge(raw.From, raw.To))
		return
	}

	result := weights.Normalize(weights.Input{
		Raw:       raw.Weight,
		Present:   raw.HasWeight,
		FromLayer: from.Layer(),
		ToLayer:   to.Layer(),
	}, b.mode)
	if d, ok := result.Diagnostic(raw.From, raw.To); ok {
		b.diags.Add(d)
	}

	net.Edges = append(net.Edges, network.Edge{
		ID:       fmt.Sprintf("edge-%d-%d", b.stamp, b.edgeCount),
		SourceID: from.ID,
		TargetID: to.ID,
		Type:     network.DefaultCausalType,
		Weight:   result.Weight,
	})
	b.edgeCount++
	b.preview.Stats.EdgeCount++
}

func (b *builder) syntheticNodeID() string {
	id := fmt.Sprintf("node-%d-%d", b.stamp, b.nodeCount)
	b.nodeCount++
	return id
}
