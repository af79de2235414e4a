package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"pavecraft/internal/network"
)

func vehicleCatalog() []network.Performance {
	return []network.Performance{
		{ID: "root", Name: "Vehicle", Level: 0},
		{ID: "x1", Name: "P1 - Top Speed", ParentID: "root", Level: 1, IsLeaf: true},
		{ID: "x2", Name: "P2 - Range", ParentID: "root", Level: 1, IsLeaf: true},
		{ID: "x3", Name: "P3 - Cost", ParentID: "root", Level: 1, IsLeaf: true},
		{ID: "x4", Name: "Comfort Score", ParentID: "root", Level: 1, IsLeaf: true},
	}
}

func leaves(names ...string) []network.Performance {
	out := make([]network.Performance, len(names))
	for i, name := range names {
		out[i] = network.Performance{ID: name, Name: name, IsLeaf: true}
	}
	return out
}

func ids(ps []network.Performance) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestMatch_Cascade(t *testing.T) {
	m := New(vehicleCatalog(), Config{})

	tests := []struct {
		label      string
		strategy   Strategy
		matched    string
		candidates []string
	}{
		{"p1 - top speed", StrategyExact, "x1", nil},
		{"  P1 - Top Speed ", StrategyExact, "x1", nil},
		{"P1", StrategyPrefix, "x1", nil},
		{"P", StrategyPrefix, "", []string{"x1", "x2", "x3"}},
		{"Range", StrategyName, "x2", nil},
		{"comfort", StrategyPrefix, "x4", nil},
		{"Top Speed (km/h)", StrategyName, "x1", nil},
		{"Score", StrategyName, "x4", nil},
		{"Coast", StrategyFuzzy, "x3", nil},
		{"Rng", StrategyNone, "", nil},
		{"Vehicle", StrategyNone, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := m.Match(tt.label)
			require.Equal(t, tt.strategy, got.Strategy)
			if tt.matched == "" {
				require.Nil(t, got.Matched)
			} else {
				require.NotNil(t, got.Matched)
				require.Equal(t, tt.matched, got.Matched.ID)
				require.True(t, got.Resolved())
			}
			if tt.candidates == nil {
				require.Empty(t, got.Candidates)
				require.False(t, got.Ambiguous())
			} else {
				require.Equal(t, tt.candidates, ids(got.Candidates))
				require.True(t, got.Ambiguous())
			}
		})
	}
}

func TestMatch_AmbiguousContainment(t *testing.T) {
	catalog := append(vehicleCatalog(), network.Performance{ID: "x5", Name: "P5 - Top Range", ParentID: "root", IsLeaf: true})
	got := New(catalog, Config{}).Match("Top")

	require.Equal(t, StrategyName, got.Strategy)
	require.True(t, got.Ambiguous())
	require.Equal(t, []string{"x1", "x5"}, ids(got.Candidates))
	require.Equal(t, "Top", got.InputLabel)
}

func TestMatch_SeveralExactNamesAreAmbiguous(t *testing.T) {
	got := New(leaves("Mass", "Mass"), Config{}).Match("mass")
	require.Equal(t, StrategyExact, got.Strategy)
	require.True(t, got.Ambiguous())
	require.Len(t, got.Candidates, 2)
}

func TestMatch_FuzzyMargin(t *testing.T) {
	t.Run("close scores stay ambiguous", func(t *testing.T) {
		got := New(leaves("Mass", "Mast"), Config{}).Match("Masx")
		require.Equal(t, StrategyFuzzy, got.Strategy)
		require.Nil(t, got.Matched)
		require.Equal(t, []string{"Mass", "Mast"}, ids(got.Candidates))
	})

	t.Run("clear leader is accepted and runner-up kept", func(t *testing.T) {
		got := New(leaves("Deceleration", "Acceleration"), Config{}).Match("Acceleratiom")
		require.Equal(t, StrategyFuzzy, got.Strategy)
		require.NotNil(t, got.Matched)
		require.Equal(t, "Acceleration", got.Matched.ID)
		require.Equal(t, []string{"Acceleration", "Deceleration"}, ids(got.Candidates), "sorted by similarity")
		require.False(t, got.Ambiguous())
	})

	t.Run("wider margin keeps the pair ambiguous", func(t *testing.T) {
		got := New(leaves("Deceleration", "Acceleration"), Config{FuzzyMargin: 0.5}).Match("Acceleratiom")
		require.Nil(t, got.Matched)
		require.Len(t, got.Candidates, 2)
	})

	t.Run("lower threshold admits weaker matches", func(t *testing.T) {
		got := New(leaves("Range"), Config{FuzzyThreshold: 0.5}).Match("Rng")
		require.Equal(t, StrategyFuzzy, got.Strategy)
		require.NotNil(t, got.Matched)
		require.Equal(t, "Range", got.Matched.ID)
	})
}

func TestMatch_EmptyCatalog(t *testing.T) {
	got := New(nil, DefaultConfig()).Match("Speed")
	require.Equal(t, StrategyNone, got.Strategy)
	require.NotNil(t, got.Candidates)
	require.Empty(t, got.Candidates)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"a", "", 0},
		{"", "a", 0},
		{"range", "range", 1},
		{"rng", "range", 0.6},
		{"kitten", "sitting", 1 - 3.0/7},
		{"性能", "性", 0.5},
	}
	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatch_ShortCatalog(t *testing.T) {
	m := New(leaves("P1 - Range", "P2 - Weight"), Config{})

	got := m.Match("Rng")
	require.Equal(t, StrategyNone, got.Strategy)
	require.Nil(t, got.Matched)

	got = m.Match("Range")
	require.Equal(t, StrategyName, got.Strategy)
	require.Equal(t, "P1 - Range", got.Matched.ID)
}
