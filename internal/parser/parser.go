package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pavecraft/internal/diag"
)

// Document is the decoded import text with field aliases resolved. Entries
// that could not be decoded are reported and left out.
type Document struct {
	WeightMode    string
	HasWeightMode bool
	Wrapped       bool
	Nodes         []RawNode
	Edges         []RawEdge
}

type RawNode struct {
	Index   int
	Label   string
	Layer   string
	Subtype string
}

type RawEdge struct {
	Index     int
	From      string
	To        string
	Weight    any
	HasWeight bool
}

var (
	ErrEmptyInput   = errors.New("input is empty")
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrNotObject    = errors.New("top level value must be an object")
	ErrMissingNodes = errors.New("nodes array is required")
)

// SyntaxError carries the decoder message of a document that is not valid
// JSON. It matches ErrInvalidJSON with errors.Is.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidJSON, e.Err)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{ErrInvalidJSON, e.Err}
}

// Parse sanitizes and decodes input. A non-nil error is fatal for the whole
// import; per-entry problems are added to diags and decoding continues.
func Parse(input string, diags *diag.List) (*Document, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	var parsed any
	if err := json.Unmarshal([]byte(Sanitize(input)), &parsed); err != nil {
		return nil, &SyntaxError{Err: err}
	}

	root, ok := parsed.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	if inner, ok := root["network"].(map[string]any); ok && !truthy(root["nodes"]) {
		diags.Add(diag.Infof(diag.CodeWrapperDetected, `wrapper object detected; using the contents of "network"`))
		promoted := make(map[string]any, len(inner)+1)
		for key, value := range inner {
			promoted[key] = value
		}
		if !truthy(inner["weight_mode"]) && truthy(root["weight_mode"]) {
			promoted["weight_mode"] = root["weight_mode"]
		}
		doc, err := decode(promoted, diags)
		if doc != nil {
			doc.Wrapped = true
		}
		return doc, err
	}

	return decode(root, diags)
}

func decode(root map[string]any, diags *diag.List) (*Document, error) {
	doc := &Document{}
	if value := root["weight_mode"]; truthy(value) {
		doc.WeightMode = stringify(value)
		doc.HasWeightMode = true
	}

	rawNodes, ok := root["nodes"].([]any)
	if !ok {
		return nil, ErrMissingNodes
	}
	doc.Nodes = make([]RawNode, 0, len(rawNodes))
	for i, item := range rawNodes {
		if node, ok := decodeNode(i, item, diags); ok {
			doc.Nodes = append(doc.Nodes, node)
		}
	}

	rawEdges, present := root["edges"]
	edges, isArray := rawEdges.([]any)
	switch {
	case present && !isArray:
		diags.Add(diag.Errorf(diag.CodeEdgesNotArray, "`edges` must be an array"))
	case len(edges) == 0:
		diags.Add(diag.Infof(diag.CodeEdgesEmpty, "no edges defined; importing nodes only"))
	default:
		doc.Edges = make([]RawEdge, 0, len(edges))
		for i, item := range edges {
			if edge, ok := decodeEdge(i, item, diags); ok {
				doc.Edges = append(doc.Edges, edge)
			}
		}
	}

	return doc, nil
}

func decodeNode(index int, item any, diags *diag.List) (RawNode, bool) {
	entry, ok := item.(map[string]any)
	if !ok {
		diags.Add(diag.Errorf(diag.CodeNodeNotObject, "node #%d: must be an object", index+1))
		return RawNode{}, false
	}

	label := strings.TrimSpace(firstTruthy(entry["label"], entry["name"]))
	if label == "" {
		diags.Add(diag.Errorf(diag.CodeLabelMissing, `node #%d: "label" is required`, index+1))
		return RawNode{}, false
	}

	layer, ok := entry["layer"]
	if !ok || layer == nil {
		layer = entry["type"]
	}
	if layer == nil {
		diags.Add(diag.Errorf(diag.CodeLayerMissing, `node %q: "layer" is required (use P/A/V/E)`, label).WithNode(label))
		return RawNode{}, false
	}

	node := RawNode{Index: index, Label: label, Layer: stringify(layer)}
	if subtype := entry["subtype"]; truthy(subtype) {
		node.Subtype = stringify(subtype)
	}
	return node, true
}

func decodeEdge(index int, item any, diags *diag.List) (RawEdge, bool) {
	entry, ok := item.(map[string]any)
	if !ok {
		diags.Add(diag.Errorf(diag.CodeEdgeNotObject, "edge #%d: must be an object", index+1))
		return RawEdge{}, false
	}

	from := strings.TrimSpace(firstTruthy(entry["from"], entry["source"]))
	to := strings.TrimSpace(firstTruthy(entry["to"], entry["target"]))
	if from == "" || to == "" {
		diags.Add(diag.Errorf(diag.CodeEdgeEndpointMissing, `edge #%d: "from" and "to" are required`, index+1))
		return RawEdge{}, false
	}

	weight, ok := entry["weight"]
	return RawEdge{
		Index:     index,
		From:      from,
		To:        to,
		Weight:    weight,
		HasWeight: ok && weight != nil,
	}, true
}

// truthy follows the loose truthiness of the documents' authoring tools:
// null, false, 0 and "" count as absent.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

func firstTruthy(values ...any) string {
	for _, value := range values {
		if truthy(value) {
			return stringify(value)
		}
	}
	return ""
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
