package network

import (
	"encoding/json"
	"fmt"
)

// Kind is the layer-specific payload of a node. Only PerformanceKind can
// carry a catalog reference and only EntityKind carries a subtype, so a
// node cannot hold a field its layer does not allow.
type Kind interface {
	Layer() Layer
	Type() NodeType
	isKind()
}

type PerformanceKind struct {
	// PerformanceID is empty until the node is matched to the catalog.
	PerformanceID string
}

type AttributeKind struct{}

type VariableKind struct{}

type EntitySubtype string

const (
	SubtypeObject      EntitySubtype = "object"
	SubtypeEnvironment EntitySubtype = "environment"
)

type EntityKind struct {
	Subtype EntitySubtype
}

func (PerformanceKind) Layer() Layer { return LayerPerformance }
func (PerformanceKind) Type() NodeType { return TypePerformance }
func (PerformanceKind) isKind() {}
func (AttributeKind) Layer() Layer { return LayerAttribute }
func (AttributeKind) Type() NodeType { return TypeAttribute }
func (AttributeKind) isKind() {}
func (VariableKind) Layer() Layer { return LayerVariable }
func (VariableKind) Type() NodeType { return TypeVariable }
func (VariableKind) isKind() {}
func (EntityKind) Layer() Layer { return LayerEntity }
func (k EntityKind) Type() NodeType {
	if k.Subtype == SubtypeEnvironment {
		return TypeEnvironment
	}
	return TypeObject
}
func (EntityKind) isKind() {}

// KindFor builds the payload for a layer and type tag pair.
func KindFor(layer Layer, t NodeType) (Kind, error) {
	if !layer.Valid() {
		return nil, fmt.Errorf("unknown layer: %d", int(layer))
	}
	switch layer {
	case LayerPerformance:
		return PerformanceKind{}, nil
	case LayerAttribute:
		return AttributeKind{}, nil
	case LayerVariable:
		return VariableKind{}, nil
	}
	if t == TypeEnvironment {
		return EntityKind{Subtype: SubtypeEnvironment}, nil
	}
	return EntityKind{Subtype: SubtypeObject}, nil
}

type Node struct {
	ID    string
	Label string
	Kind  Kind
	X     float64
	Y     float64
	X3D   *float64
	Y3D   *float64
}

func (n Node) Layer() Layer {
	if n.Kind == nil {
		return 0
	}
	return n.Kind.Layer()
}

func (n Node) Type() NodeType {
	if n.Kind == nil {
		return ""
	}
	return n.Kind.Type()
}

// PerformanceID returns the catalog reference of a matched performance node.
func (n Node) PerformanceID() string {
	if k, ok := n.Kind.(PerformanceKind); ok {
		return k.PerformanceID
	}
	return ""
}

func (n Node) Clone() Node {
	out := n
	if n.X3D != nil {
		v := *n.X3D
		out.X3D = &v
	}
	if n.Y3D != nil {
		v := *n.Y3D
		out.Y3D = &v
	}
	return out
}

type wireNode struct {
	ID            string   `json:"id"`
	Layer         Layer    `json:"layer"`
	Type          NodeType `json:"type"`
	Label         string   `json:"label"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	PerformanceID string   `json:"performance_id,omitempty"`
	X3D           *float64 `json:"x3d,omitempty"`
	Y3D           *float64 `json:"y3d,omitempty"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.Kind == nil {
		return nil, fmt.Errorf("node %q has no kind", n.ID)
	}
	return json.Marshal(wireNode{
		ID:            n.ID,
		Layer:         n.Kind.Layer(),
		Type:          n.Kind.Type(),
		Label:         n.Label,
		X:             n.X,
		Y:             n.Y,
		PerformanceID: n.PerformanceID(),
		X3D:           n.X3D,
		Y3D:           n.Y3D,
	})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var raw wireNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := KindFor(raw.Layer, normalizeNodeType(string(raw.Type)))
	if err != nil {
		return fmt.Errorf("node %q: %w", raw.ID, err)
	}
	if raw.Layer == LayerPerformance {
		kind = PerformanceKind{PerformanceID: raw.PerformanceID}
	}
	*n = Node{
		ID:    raw.ID,
		Label: raw.Label,
		Kind:  kind,
		X:     raw.X,
		Y:     raw.Y,
		X3D:   raw.X3D,
		Y3D:   raw.Y3D,
	}
	return nil
}
