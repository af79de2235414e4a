package network

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Layer int

const (
	LayerPerformance Layer = 1
	LayerAttribute   Layer = 2
	LayerVariable    Layer = 3
	LayerEntity      Layer = 4
)

// Layers lists the four PAVE layers in order.
var Layers = []Layer{LayerPerformance, LayerAttribute, LayerVariable, LayerEntity}

func (l Layer) Valid() bool {
	return l >= LayerPerformance && l <= LayerEntity
}

// Key returns the single-letter PAVE key (P, A, V or E).
func (l Layer) Key() string {
	switch l {
	case LayerPerformance:
		return "P"
	case LayerAttribute:
		return "A"
	case LayerVariable:
		return "V"
	case LayerEntity:
		return "E"
	default:
		return "?"
	}
}

func (l Layer) String() string {
	switch l {
	case LayerPerformance:
		return "performance"
	case LayerAttribute:
		return "attribute"
	case LayerVariable:
		return "variable"
	case LayerEntity:
		return "entity"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

type NodeType string

const (
	TypePerformance NodeType = "performance"
	TypeAttribute   NodeType = "attribute"
	TypeVariable    NodeType = "variable"
	TypeObject      NodeType = "object"
	TypeEnvironment NodeType = "environment"

	// typeLegacyProperty is the pre-PAVE spelling of attribute.
	typeLegacyProperty NodeType = "property"
)

type CausalType string

const DefaultCausalType CausalType = "type1"

type WeightMode string

const (
	WeightDiscrete3  WeightMode = "discrete_3"
	WeightDiscrete5  WeightMode = "discrete_5"
	WeightDiscrete7  WeightMode = "discrete_7"
	WeightContinuous WeightMode = "continuous"
)

// Network is the canonical causal graph handed to the rest of the application.
type Network struct {
	Nodes      []Node     `json:"nodes"`
	Edges      []Edge     `json:"edges"`
	WeightMode WeightMode `json:"weight_mode,omitempty"`
}

type Edge struct {
	ID       string     `json:"id"`
	SourceID string     `json:"source_id"`
	TargetID string     `json:"target_id"`
	Type     CausalType `json:"type"`
	Weight   *float64   `json:"weight,omitempty"`
}

// Clone returns a deep copy of the network.
func (n Network) Clone() Network {
	out := Network{
		Nodes:      make([]Node, len(n.Nodes)),
		Edges:      make([]Edge, len(n.Edges)),
		WeightMode: n.WeightMode,
	}
	for i, node := range n.Nodes {
		out.Nodes[i] = node.Clone()
	}
	for i, edge := range n.Edges {
		out.Edges[i] = edge.Clone()
	}
	return out
}

func (e Edge) Clone() Edge {
	out := e
	if e.Weight != nil {
		w := *e.Weight
		out.Weight = &w
	}
	return out
}

// NodeIndex maps node ids to their position in Nodes.
func (n Network) NodeIndex() map[string]int {
	index := make(map[string]int, len(n.Nodes))
	for i, node := range n.Nodes {
		index[node.ID] = i
	}
	return index
}

// Float returns a pointer to v, for optional weights.
func Float(v float64) *float64 {
	return &v
}

func normalizeNodeType(value string) NodeType {
	t := NodeType(strings.ToLower(strings.TrimSpace(value)))
	if t == typeLegacyProperty {
		return TypeAttribute
	}
	return t
}

var _ json.Marshaler = Node{}
