package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pavecraft/internal/ingest"
	"pavecraft/internal/network"
	"pavecraft/internal/perftree"
	"pavecraft/internal/weights"
)

type PreviewNetworkInput struct {
	Network    string `json:"network" jsonschema:"network JSON text with nodes and edges"`
	WeightMode string `json:"weight_mode,omitempty" jsonschema:"current weight mode: discrete_3, discrete_5, discrete_7 or continuous"`
}

type CommitNetworkInput struct {
	Network    string            `json:"network" jsonschema:"network JSON text with nodes and edges"`
	Selections map[string]string `json:"selections,omitempty" jsonschema:"performance id chosen for each ambiguous node label"`
	WeightMode string            `json:"weight_mode,omitempty" jsonschema:"current weight mode"`
}

type CompareTreesInput struct {
	Snapshot []network.Performance `json:"snapshot" jsonschema:"performance catalog saved with the design"`
	Current  []network.Performance `json:"current,omitempty" jsonschema:"current catalog; defaults to the project catalog"`
}

type RemapNetworkInput struct {
	Network  string                `json:"network" jsonschema:"stored network JSON text"`
	Snapshot []network.Performance `json:"snapshot" jsonschema:"performance catalog the network was saved against"`
	Current  []network.Performance `json:"current,omitempty" jsonschema:"current catalog; defaults to the project catalog"`
	Reverse  bool                  `json:"reverse,omitempty" jsonschema:"translate current ids back to snapshot ids"`
}

type CompareTreesOutput struct {
	perftree.Result
	Editable bool              `json:"editable"`
	Mapping  *perftree.Mapping `json:"mapping,omitempty"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "preview_network",
		Description: "Parse and validate a PAVE causal network and match performance labels against the catalog",
	}, s.handlePreviewNetwork)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "commit_network",
		Description: "Build the final network, resolving ambiguous performance labels with the given selections",
	}, s.handleCommitNetwork)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "compare_performance_trees",
		Description: "Compare two performance catalogs by structure and report whether saved designs stay editable",
	}, s.handleCompareTrees)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "remap_network",
		Description: "Rewrite performance references of a stored network between a snapshot catalog and the current one",
	}, s.handleRemapNetwork)
}

func (s *Server) handlePreviewNetwork(ctx context.Context, req *sdk.CallToolRequest, input PreviewNetworkInput) (*sdk.CallToolResult, any, error) {
	preview, err := s.preview(ctx, input.Network, input.WeightMode)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(preview)
}

func (s *Server) handleCommitNetwork(ctx context.Context, req *sdk.CallToolRequest, input CommitNetworkInput) (*sdk.CallToolResult, any, error) {
	preview, err := s.preview(ctx, input.Network, input.WeightMode)
	if err != nil {
		return nil, nil, err
	}
	final, err := ingest.Finalize(preview, input.Selections)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("network committed", "import_id", preview.ImportID, "nodes", len(final.Nodes), "edges", len(final.Edges))
	return jsonResult(final)
}

func (s *Server) handleCompareTrees(ctx context.Context, req *sdk.CallToolRequest, input CompareTreesInput) (*sdk.CallToolResult, any, error) {
	current, err := s.currentCatalog(ctx, input.Current)
	if err != nil {
		return nil, nil, err
	}
	result := perftree.Compare(current, input.Snapshot)
	out := CompareTreesOutput{Result: result, Editable: result.Match}
	if result.Match {
		mapping, err := perftree.CreateIDMapping(input.Snapshot, current)
		if err != nil {
			return nil, nil, err
		}
		out.Mapping = &mapping
	}
	return jsonResult(out)
}

func (s *Server) handleRemapNetwork(ctx context.Context, req *sdk.CallToolRequest, input RemapNetworkInput) (*sdk.CallToolResult, any, error) {
	if input.Network == "" {
		return nil, nil, fmt.Errorf("network is required")
	}
	var net network.Network
	if err := json.Unmarshal([]byte(input.Network), &net); err != nil {
		return nil, nil, fmt.Errorf("decoding network: %w", err)
	}
	current, err := s.currentCatalog(ctx, input.Current)
	if err != nil {
		return nil, nil, err
	}
	dir := perftree.Forward
	if input.Reverse {
		dir = perftree.Reverse
	}
	reconciled, err := perftree.Reconcile(net, input.Snapshot, current, dir)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(reconciled)
}

func (s *Server) preview(ctx context.Context, text, weightMode string) (*ingest.Preview, error) {
	if text == "" {
		return nil, fmt.Errorf("network is required")
	}
	catalog, err := s.currentCatalog(ctx, nil)
	if err != nil {
		return nil, err
	}
	opts := s.opts
	if weightMode != "" {
		mode, ok := weights.ParseMode(weightMode)
		if !ok {
			return nil, fmt.Errorf("unknown weight mode: %s", weightMode)
		}
		opts.WeightMode = mode
	}
	preview := ingest.Run(text, catalog, opts)
	s.logger.Info("network previewed",
		"import_id", preview.ImportID,
		"valid", preview.Valid,
		"errors", len(preview.Errors),
		"warnings", len(preview.Warnings),
		"ambiguous", len(preview.Ambiguous()),
	)
	return preview, nil
}

func (s *Server) currentCatalog(ctx context.Context, override []network.Performance) ([]network.Performance, error) {
	if len(override) > 0 {
		return override, nil
	}
	if s.catalog == nil {
		return nil, fmt.Errorf("no performance catalog configured")
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog, nil
}

func jsonResult(v any) (*sdk.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(data)}},
	}, nil, nil
}
