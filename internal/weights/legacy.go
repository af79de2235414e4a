package weights

import (
	"math"

	"pavecraft/internal/network"
)

const (
	legacyTolerance = 1e-6
	// Legacy ±1/3 weights were often stored rounded, as ±0.33.
	legacyFractionalTolerance = 0.02
)

// legacySeven maps the retired 7-level scale {-3,-1,-1/3,0,1/3,1,3} onto
// the current {-5,-3,-1,0,1,3,5}.
var legacySeven = []struct {
	old       float64
	new       float64
	tolerance float64
}{
	{-3, -5, legacyTolerance},
	{-1, -3, legacyTolerance},
	{-1.0 / 3, -1, legacyFractionalTolerance},
	{0, 0, legacyTolerance},
	{1.0 / 3, 1, legacyFractionalTolerance},
	{1, 3, legacyTolerance},
	{3, 5, legacyTolerance},
}

func IsLegacyWeight(w float64) bool {
	_, ok := migrateLegacy(w)
	return ok
}

func migrateLegacy(w float64) (float64, bool) {
	for _, m := range legacySeven {
		if math.Abs(w-m.old) < m.tolerance {
			return m.new, true
		}
	}
	return w, false
}

// NeedsMigration reports whether edges still use the fractional ±1/3 steps
// only the legacy scale had.
func NeedsMigration(edges []network.Edge) bool {
	for _, edge := range edges {
		if edge.Weight == nil {
			continue
		}
		w := *edge.Weight
		if math.Abs(w-1.0/3) < legacyFractionalTolerance || math.Abs(w+1.0/3) < legacyFractionalTolerance {
			return true
		}
	}
	return false
}

// MigrateEdges rewrites legacy weights onto the current 7-level scale.
// Networks that already declare a weight mode are returned unchanged.
func MigrateEdges(edges []network.Edge, hasWeightMode bool) ([]network.Edge, int) {
	out := make([]network.Edge, len(edges))
	migrated := 0
	for i, edge := range edges {
		out[i] = edge.Clone()
		if hasWeightMode || edge.Weight == nil {
			continue
		}
		if w, ok := migrateLegacy(*edge.Weight); ok {
			if w != *edge.Weight {
				migrated++
			}
			out[i].Weight = network.Float(w)
		}
	}
	return out, migrated
}
