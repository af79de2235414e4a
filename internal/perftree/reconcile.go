package perftree

import (
	"pavecraft/internal/network"
	"pavecraft/internal/weights"
)

type Reconciled struct {
	Network network.Network `json:"network"`
	Mapping Mapping         `json:"mapping"`
	// Remapped counts performance nodes whose reference changed.
	Remapped int `json:"remapped"`
	// Migrated counts edge weights moved off the legacy 7-level scale.
	Migrated int `json:"migrated"`
}

// Reconcile brings a stored network in line with the current catalog:
// legacy weights are migrated when the network names no weight mode, then
// performance references are translated between snapshot and current in
// the given direction.
func Reconcile(net network.Network, snapshot, current []network.Performance, dir Direction) (Reconciled, error) {
	mapping, err := CreateIDMapping(snapshot, current)
	if err != nil {
		return Reconciled{}, err
	}

	out := Reconciled{Mapping: mapping}
	if net.WeightMode == "" && weights.NeedsMigration(net.Edges) {
		net.Edges, out.Migrated = weights.MigrateEdges(net.Edges, false)
	}
	out.Network, out.Remapped = RemapNetwork(net, mapping, dir)
	return out, nil
}
