package pave

import "pavecraft/internal/network"

// Violation describes a forbidden source to target layer direction.
type Violation struct {
	From    network.Layer
	To      network.Layer
	Message string
}

// anyLayer as a rule target matches every layer.
const anyLayer network.Layer = 0

var forbidden = []Violation{
	{network.LayerPerformance, anyLayer, "performance nodes cannot be the source of an edge; they only receive effects"},
	{network.LayerVariable, network.LayerPerformance, "variables cannot connect directly to a performance; go through an attribute (V → A → P)"},
	{network.LayerEntity, network.LayerPerformance, "objects and environments cannot connect directly to a performance (E → V → A → P)"},
	{network.LayerEntity, network.LayerAttribute, "objects and environments cannot connect directly to an attribute; go through a variable (E → V → A)"},
	{network.LayerVariable, network.LayerVariable, "variables cannot connect to each other; variables are independent design parameters"},
	{network.LayerAttribute, network.LayerVariable, "attributes cannot connect to variables; the causal flow is V → A → P"},
}

// CheckEdge reports the rule broken by an edge from a node on layer from to
// a node on layer to, if any.
func CheckEdge(from, to network.Layer) (Violation, bool) {
	for _, rule := range forbidden {
		if rule.From != from {
			continue
		}
		if rule.To == anyLayer || rule.To == to {
			return Violation{From: from, To: to, Message: rule.Message}, true
		}
	}
	return Violation{}, false
}

func Allowed(from, to network.Layer) bool {
	_, violated := CheckEdge(from, to)
	return !violated
}

// IsUndirected reports whether edges between the two layers are
// structural links that carry no causal weight (V-E and E-E).
func IsUndirected(a, b network.Layer) bool {
	switch {
	case a == network.LayerVariable && b == network.LayerEntity:
		return true
	case a == network.LayerEntity && b == network.LayerVariable:
		return true
	case a == network.LayerEntity && b == network.LayerEntity:
		return true
	default:
		return false
	}
}
