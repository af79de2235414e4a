package perftree

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pavecraft/internal/network"
)

// tree builds a two level catalog whose ids carry prefix.
func tree(prefix string) []network.Performance {
	return []network.Performance{
		{ID: prefix + "root", Name: "Vehicle", Level: 0},
		{ID: prefix + "dyn", Name: "Dynamics", ParentID: prefix + "root", Level: 1},
		{ID: prefix + "speed", Name: "Top Speed", ParentID: prefix + "dyn", Level: 2, Unit: "km/h", IsLeaf: true},
		{ID: prefix + "accel", Name: "Acceleration", ParentID: prefix + "dyn", Level: 2, Unit: "s", IsLeaf: true},
		{ID: prefix + "cost", Name: "Cost", ParentID: prefix + "root", Level: 1, IsLeaf: true},
	}
}

func TestSignatures(t *testing.T) {
	sigs := Signatures(tree("a-"))

	require.Len(t, sigs, 5)
	require.Empty(t, sigs[0].Path)
	require.Equal(t, []string{"Vehicle", "Dynamics"}, sigs[2].Path)
	require.Equal(t, "Vehicle > Dynamics > Top Speed (level 2, unit km/h, leaf true)", sigs[2].String())
	require.Equal(t, "Vehicle > Cost (level 1, unit -, leaf true)", sigs[4].String())
	require.NotEqual(t, sigs[2].Key(), sigs[3].Key())
}

func TestSignatures_BrokenParents(t *testing.T) {
	sigs := Signatures([]network.Performance{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "c", Name: "C", ParentID: "gone"},
	})

	require.Equal(t, []string{"B"}, sigs[0].Path, "cycles stop at the first repeat")
	require.Equal(t, []string{"A"}, sigs[1].Path)
	require.Empty(t, sigs[2].Path, "unknown parents end the path")
}

func TestSignatureKey_NoCollisions(t *testing.T) {
	a := Signature{Path: []string{"A B"}, Name: "C"}
	b := Signature{Path: []string{"A", "B"}, Name: "C"}
	require.NotEqual(t, a.Key(), b.Key())

	noUnitSig := Signature{Name: "X"}
	dashUnit := Signature{Name: "X", Unit: "-"}
	require.Equal(t, noUnitSig.Key(), dashUnit.Key(), "an absent unit and the sentinel are the same")
}

func TestCompare_IdsOnlyDiffer(t *testing.T) {
	result := Compare(tree("new-"), tree("old-"))
	require.True(t, result.Match)
	require.Empty(t, result.Differences)
	require.True(t, Editable(tree("new-"), tree("old-")))
	require.Empty(t, MismatchMessage(tree("new-"), tree("old-")))
}

func TestCompare_OrderDoesNotMatter(t *testing.T) {
	shuffled := tree("b-")
	shuffled[2], shuffled[4] = shuffled[4], shuffled[2]
	require.True(t, Compare(shuffled, tree("a-")).Match)
}

func TestCompare_Differences(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		current := append(tree(""), network.Performance{ID: "range", Name: "Range", ParentID: "root", Level: 1, IsLeaf: true})
		result := Compare(current, tree(""))
		require.False(t, result.Match)
		require.Equal(t, []DiffKind{DiffCount, DiffAdded}, kinds(result))
		require.Equal(t, "Vehicle > Range (level 1, unit -, leaf true)", result.Differences[1].Signature)
	})

	t.Run("removed", func(t *testing.T) {
		current := tree("")[:4]
		result := Compare(current, tree(""))
		require.Equal(t, []DiffKind{DiffCount, DiffRemoved}, kinds(result))
		require.Contains(t, result.Differences[1].Detail, "no longer present")
	})

	t.Run("changed unit and leaf", func(t *testing.T) {
		current := tree("")
		current[4].Unit = "EUR"
		current[4].IsLeaf = false
		result := Compare(current, tree(""))
		require.Equal(t, []DiffKind{DiffChanged}, kinds(result))
		require.Equal(t, "performance Vehicle > Cost changed: unit - → EUR, leaf true → false", result.Differences[0].Detail)
	})

	t.Run("renamed parent", func(t *testing.T) {
		current := tree("")
		current[1].Name = "Motion"
		result := Compare(current, tree(""))
		require.False(t, result.Match)
		require.NotContains(t, kinds(result), DiffCount)
		require.Len(t, result.Differences, 6, "the parent and both children move")
	})

	t.Run("same size, different multiset", func(t *testing.T) {
		current := tree("")
		current[3] = network.Performance{ID: "accel", Name: "Top Speed", ParentID: "dyn", Level: 2, Unit: "km/h", IsLeaf: true}
		result := Compare(current, tree(""))
		require.False(t, result.Match)
		require.Equal(t, []DiffKind{DiffRemoved, DiffAdded}, kinds(result))
	})
}

func TestMismatchMessage(t *testing.T) {
	current := append(tree(""), network.Performance{ID: "range", Name: "Range", ParentID: "root", Level: 1, IsLeaf: true})
	msg := MismatchMessage(current, tree(""))

	require.True(t, strings.HasPrefix(msg, "The performance tree changed after this design was created"))
	require.Contains(t, msg, "\n\nChanges:\n• performance count differs (current: 6, snapshot: 5)\n• performance added: Vehicle > Range")
	require.False(t, strings.HasSuffix(msg, "\n"))
}

func TestCreateIDMapping(t *testing.T) {
	mapping, err := CreateIDMapping(tree("old-"), tree("new-"))
	require.NoError(t, err)

	require.Equal(t, map[string]string{
		"old-speed": "new-speed",
		"old-accel": "new-accel",
		"old-cost":  "new-cost",
	}, mapping.Forward, "every leaf and only leaves")
	require.Equal(t, map[string]string{
		"new-speed": "old-speed",
		"new-accel": "old-accel",
		"new-cost":  "old-cost",
	}, mapping.Reverse)

	id, ok := mapping.Lookup("old-cost", Forward)
	require.True(t, ok)
	require.Equal(t, "new-cost", id)
	id, ok = mapping.Lookup("new-cost", Reverse)
	require.True(t, ok)
	require.Equal(t, "old-cost", id)
	_, ok = mapping.Lookup("old-root", Forward)
	require.False(t, ok)
}

func TestCreateIDMapping_IdenticalSignaturesPairInOrder(t *testing.T) {
	twin := func(a, b string) []network.Performance {
		return []network.Performance{
			{ID: a, Name: "Sensor", Level: 0, IsLeaf: true},
			{ID: b, Name: "Sensor", Level: 0, IsLeaf: true},
		}
	}
	mapping, err := CreateIDMapping(twin("s1", "s2"), twin("c1", "c2"))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"s1": "c1", "s2": "c2"}, mapping.Forward)
}

func TestCreateIDMapping_ShapeMismatch(t *testing.T) {
	_, err := CreateIDMapping(tree("old-"), tree("new-")[:4])
	require.True(t, errors.Is(err, ErrShapeMismatch))
}

func storedNetwork() network.Network {
	return network.Network{
		Nodes: []network.Node{
			{ID: "perf-old-speed", Label: "Top Speed", Kind: network.PerformanceKind{PerformanceID: "old-speed"}},
			{ID: "custom", Label: "Cost", Kind: network.PerformanceKind{PerformanceID: "old-cost"}},
			{ID: "n1", Label: "Drag", Kind: network.AttributeKind{}},
			{ID: "perf-gone", Label: "Gone", Kind: network.PerformanceKind{PerformanceID: "gone"}},
		},
		Edges: []network.Edge{
			{ID: "e1", SourceID: "n1", TargetID: "perf-old-speed", Type: network.DefaultCausalType, Weight: network.Float(3)},
			{ID: "e2", SourceID: "n1", TargetID: "custom", Type: network.DefaultCausalType, Weight: network.Float(1.0 / 3)},
		},
	}
}

func TestRemapNetwork(t *testing.T) {
	mapping, err := CreateIDMapping(tree("old-"), tree("new-"))
	require.NoError(t, err)

	net := storedNetwork()
	out, n := RemapNetwork(net, mapping, Forward)

	require.Equal(t, 2, n)
	require.Equal(t, "perf-new-speed", out.Nodes[0].ID)
	require.Equal(t, "new-speed", out.Nodes[0].PerformanceID())
	require.Equal(t, "custom", out.Nodes[1].ID, "ids not derived from the performance are kept")
	require.Equal(t, "new-cost", out.Nodes[1].PerformanceID())
	require.Equal(t, "perf-gone", out.Nodes[3].ID, "unmapped references are left alone")
	require.Equal(t, "perf-new-speed", out.Edges[0].TargetID)
	require.Equal(t, "custom", out.Edges[1].TargetID)

	require.Equal(t, "perf-old-speed", net.Nodes[0].ID, "input is not modified")

	back, n := RemapNetwork(out, mapping, Reverse)
	require.Equal(t, 2, n)
	require.Equal(t, net.Nodes, back.Nodes)
	require.Equal(t, net.Edges, back.Edges)
}

func TestReconcile(t *testing.T) {
	got, err := Reconcile(storedNetwork(), tree("old-"), tree("new-"), Forward)
	require.NoError(t, err)

	require.Equal(t, 2, got.Remapped)
	require.Equal(t, 2, got.Migrated, "3 and 1/3 come from the legacy scale")
	require.InDelta(t, 5.0, *got.Network.Edges[0].Weight, 1e-9)
	require.InDelta(t, 1.0, *got.Network.Edges[1].Weight, 1e-9)
	require.Equal(t, "perf-new-speed", got.Network.Edges[0].TargetID)

	withMode := storedNetwork()
	withMode.WeightMode = network.WeightDiscrete7
	got, err = Reconcile(withMode, tree("old-"), tree("new-"), Forward)
	require.NoError(t, err)
	require.Zero(t, got.Migrated, "networks with a weight mode are already current")
	require.InDelta(t, 3.0, *got.Network.Edges[0].Weight, 0)

	_, err = Reconcile(storedNetwork(), tree("old-"), tree("new-")[:3], Forward)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func kinds(r Result) []DiffKind {
	out := make([]DiffKind, len(r.Differences))
	for i, d := range r.Differences {
		out[i] = d.Kind
	}
	return out
}
