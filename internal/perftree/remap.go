package perftree

import (
	"errors"
	"fmt"

	"pavecraft/internal/network"
)

var ErrShapeMismatch = errors.New("performance trees differ in shape")

type Direction int

const (
	// Forward translates snapshot ids to current ids.
	Forward Direction = iota
	// Reverse translates current ids back to snapshot ids.
	Reverse
)

// Mapping pairs leaf performance ids of two structurally equal trees.
type Mapping struct {
	Forward map[string]string `json:"forward"`
	Reverse map[string]string `json:"reverse"`
}

func (m Mapping) Lookup(id string, dir Direction) (string, bool) {
	table := m.Forward
	if dir == Reverse {
		table = m.Reverse
	}
	mapped, ok := table[id]
	return mapped, ok
}

// CreateIDMapping maps every snapshot leaf to the current leaf with the same
// signature. Non-leaf entries carry no values and are left out. Leaves with
// identical signatures are paired in catalog order.
func CreateIDMapping(snapshot, current []network.Performance) (Mapping, error) {
	if result := Compare(current, snapshot); !result.Match {
		return Mapping{}, fmt.Errorf("%w: %d difference(s)", ErrShapeMismatch, len(result.Differences))
	}

	queue := make(map[string][]string)
	for i, sig := range Signatures(current) {
		if current[i].IsLeaf {
			queue[sig.Key()] = append(queue[sig.Key()], current[i].ID)
		}
	}

	m := Mapping{Forward: make(map[string]string), Reverse: make(map[string]string)}
	for i, sig := range Signatures(snapshot) {
		if !snapshot[i].IsLeaf {
			continue
		}
		ids := queue[sig.Key()]
		if len(ids) == 0 {
			return Mapping{}, fmt.Errorf("%w: no current leaf for %s", ErrShapeMismatch, sig)
		}
		queue[sig.Key()] = ids[1:]
		m.Forward[snapshot[i].ID] = ids[0]
		m.Reverse[ids[0]] = snapshot[i].ID
	}
	return m, nil
}

// RemapNetwork rewrites the performance references of net through mapping.
// Nodes whose id was derived from their performance id are renamed and the
// edges that point at them follow. It returns a copy and the number of
// remapped nodes.
func RemapNetwork(net network.Network, mapping Mapping, dir Direction) (network.Network, int) {
	out := net.Clone()
	renamed := make(map[string]string)
	count := 0
	for i, node := range out.Nodes {
		oldID := node.PerformanceID()
		if oldID == "" {
			continue
		}
		newID, ok := mapping.Lookup(oldID, dir)
		if !ok {
			continue
		}
		out.Nodes[i].Kind = network.PerformanceKind{PerformanceID: newID}
		if node.ID == network.NodeIDForPerformance(oldID) {
			out.Nodes[i].ID = network.NodeIDForPerformance(newID)
			renamed[node.ID] = out.Nodes[i].ID
		}
		count++
	}
	for i, edge := range out.Edges {
		if id, ok := renamed[edge.SourceID]; ok {
			out.Edges[i].SourceID = id
		}
		if id, ok := renamed[edge.TargetID]; ok {
			out.Edges[i].TargetID = id
		}
	}
	return out, count
}
