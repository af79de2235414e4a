package pave

import (
	"strings"

	"pavecraft/internal/network"
)

type Normalized struct {
	Layer network.Layer
	Type  network.NodeType
}

var layerTokens = map[string]Normalized{
	"p":           {network.LayerPerformance, network.TypePerformance},
	"performance": {network.LayerPerformance, network.TypePerformance},
	"性能":          {network.LayerPerformance, network.TypePerformance},
	"1":           {network.LayerPerformance, network.TypePerformance},

	"a":         {network.LayerAttribute, network.TypeAttribute},
	"attribute": {network.LayerAttribute, network.TypeAttribute},
	"attr":      {network.LayerAttribute, network.TypeAttribute},
	"property":  {network.LayerAttribute, network.TypeAttribute},
	"属性":        {network.LayerAttribute, network.TypeAttribute},
	"2":         {network.LayerAttribute, network.TypeAttribute},

	"v":        {network.LayerVariable, network.TypeVariable},
	"variable": {network.LayerVariable, network.TypeVariable},
	"var":      {network.LayerVariable, network.TypeVariable},
	"変数":       {network.LayerVariable, network.TypeVariable},
	"3":        {network.LayerVariable, network.TypeVariable},

	"e":           {network.LayerEntity, network.TypeObject},
	"entity":      {network.LayerEntity, network.TypeObject},
	"object":      {network.LayerEntity, network.TypeObject},
	"environment": {network.LayerEntity, network.TypeEnvironment},
	"モノ":          {network.LayerEntity, network.TypeObject},
	"環境":          {network.LayerEntity, network.TypeEnvironment},
	"4":           {network.LayerEntity, network.TypeObject},
}

// NormalizeLayer maps a layer token and optional subtype to a canonical
// layer. Tokens are case-insensitive. On the entity layer an environment
// subtype turns the node into an environment entity; other subtypes leave
// the token's type alone.
func NormalizeLayer(token, subtype string) (Normalized, bool) {
	result, ok := layerTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return Normalized{}, false
	}
	if result.Layer == network.LayerEntity && subtype != "" {
		switch strings.ToLower(strings.TrimSpace(subtype)) {
		case "environment", "環境":
			result.Type = network.TypeEnvironment
		}
	}
	return result, true
}

// Kind returns the node payload for the normalized layer.
func (n Normalized) Kind() network.Kind {
	kind, err := network.KindFor(n.Layer, n.Type)
	if err != nil {
		return nil
	}
	return kind
}
