package store

import (
	"encoding/json"
	"fmt"

	"pavecraft/internal/network"
)

// DesignCase is a saved network together with the catalog it was built
// against.
type DesignCase struct {
	ID        string
	ProjectID string
	Name      string
	Network   network.Network
	// Snapshot is the catalog as it was when the case was saved. Empty when
	// the case predates snapshots.
	Snapshot []network.Performance
	// WeightMode is the mode column of the row, empty when unset.
	WeightMode network.WeightMode
}

// DecodeDesignCase fills the JSON columns of a design case row. The mode
// column keeps its schema default for rows saved before weight modes, so
// only the network's own weight_mode marks a case as non-legacy.
func DecodeDesignCase(dc *DesignCase, networkJSON, snapshotJSON []byte, weightMode string) error {
	if len(networkJSON) > 0 {
		if err := json.Unmarshal(networkJSON, &dc.Network); err != nil {
			return fmt.Errorf("decoding network of design case %s: %w", dc.ID, err)
		}
	}
	if len(snapshotJSON) > 0 {
		if err := json.Unmarshal(snapshotJSON, &dc.Snapshot); err != nil {
			return fmt.Errorf("decoding performance snapshot of design case %s: %w", dc.ID, err)
		}
	}
	if weightMode != "" {
		dc.WeightMode = network.WeightMode(weightMode)
	}
	if dc.Network.Nodes == nil {
		dc.Network.Nodes = []network.Node{}
	}
	if dc.Network.Edges == nil {
		dc.Network.Edges = []network.Edge{}
	}
	return nil
}
