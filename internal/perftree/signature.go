// Package perftree compares performance catalogs by shape instead of by
// identifier, and translates performance ids between two catalogs that have
// the same shape.
package perftree

import (
	"fmt"
	"strconv"
	"strings"

	"pavecraft/internal/network"
)

// noUnit stands in for an absent unit in signatures.
const noUnit = "-"

// Signature identifies a performance by where it sits in its tree and what
// it looks like, independent of its id.
type Signature struct {
	Path  []string
	Name  string
	Level int
	Unit  string
	Leaf  bool
}

// Key is a collision-safe encoding of the signature for map lookups.
func (s Signature) Key() string {
	return strings.Join(s.Path, "\x1f") + "\x1e" + s.Name + "\x1e" + strconv.Itoa(s.Level) + "\x1e" + s.unit() + "\x1e" + strconv.FormatBool(s.Leaf)
}

// place identifies the node by ancestry and name only, ignoring shape.
func (s Signature) place() string {
	return strings.Join(append(append([]string{}, s.Path...), s.Name), "\x1f")
}

func (s Signature) String() string {
	full := append(append([]string{}, s.Path...), s.Name)
	return fmt.Sprintf("%s (level %d, unit %s, leaf %t)", strings.Join(full, " > "), s.Level, s.unit(), s.Leaf)
}

func (s Signature) unit() string {
	if s.Unit == "" {
		return noUnit
	}
	return s.Unit
}

// Signatures computes the signature of every entry of tree, in order.
// Parent references that do not resolve end the ancestor path.
func Signatures(tree []network.Performance) []Signature {
	byID := make(map[string]network.Performance, len(tree))
	for _, p := range tree {
		byID[p.ID] = p
	}

	out := make([]Signature, len(tree))
	for i, p := range tree {
		out[i] = Signature{
			Path:  ancestors(p, byID),
			Name:  p.Name,
			Level: p.Level,
			Unit:  p.Unit,
			Leaf:  p.IsLeaf,
		}
	}
	return out
}

func ancestors(p network.Performance, byID map[string]network.Performance) []string {
	var path []string
	visited := map[string]struct{}{p.ID: {}}
	for parentID := p.ParentID; parentID != ""; {
		if _, loop := visited[parentID]; loop {
			break
		}
		parent, ok := byID[parentID]
		if !ok {
			break
		}
		visited[parentID] = struct{}{}
		path = append(path, parent.Name)
		parentID = parent.ParentID
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
