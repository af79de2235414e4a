package network

import (
	"fmt"
	"regexp"
	"strings"
)

// Performance is a catalog entry. Catalog entries form a tree through
// ParentID; only leaves can be referenced by nodes.
type Performance struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	ParentID    string `json:"parent_id,omitempty" yaml:"parent_id"`
	Level       int    `json:"level" yaml:"level" validate:"gte=0"`
	IsLeaf      bool   `json:"is_leaf" yaml:"is_leaf"`
	Unit        string `json:"unit,omitempty" yaml:"unit"`
	Description string `json:"description,omitempty" yaml:"description"`
}

var performancePrefix = regexp.MustCompile(`^P\d+\s*[-–—]\s*(.+)$`)

// ShortName strips a leading "P<n> - " prefix from the name.
func (p Performance) ShortName() string {
	if m := performancePrefix.FindStringSubmatch(p.Name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(p.Name)
}

// Leaves returns the leaf entries of catalog in their original order.
func Leaves(catalog []Performance) []Performance {
	leaves := make([]Performance, 0, len(catalog))
	for _, p := range catalog {
		if p.IsLeaf {
			leaves = append(leaves, p)
		}
	}
	return leaves
}

// NodeIDForPerformance is the node id given to a matched performance node.
func NodeIDForPerformance(performanceID string) string {
	return "perf-" + performanceID
}

// CheckTree verifies ids are unique and every parent reference resolves.
func CheckTree(catalog []Performance) error {
	ids := make(map[string]struct{}, len(catalog))
	for _, p := range catalog {
		if _, exists := ids[p.ID]; exists {
			return fmt.Errorf("duplicate performance id: %s", p.ID)
		}
		ids[p.ID] = struct{}{}
	}
	for _, p := range catalog {
		if p.ParentID == "" {
			continue
		}
		if _, ok := ids[p.ParentID]; !ok {
			return fmt.Errorf("performance %s references unknown parent: %s", p.ID, p.ParentID)
		}
		if p.ParentID == p.ID {
			return fmt.Errorf("performance %s is its own parent", p.ID)
		}
	}
	return nil
}
