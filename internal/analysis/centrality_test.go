package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/graph-spam-filter/internal/graph"
)

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("betweenness")
	require.NoError(t, err)
	assert.Equal(t, VariantBetweenness, v)

	v, err = ParseVariant("closeness")
	require.NoError(t, err)
	assert.Equal(t, VariantCloseness, v)

	_, err = ParseVariant("degree")
	assert.Error(t, err)
}

func TestBetweennessEmptyGraph(t *testing.T) {
	_, err := NewCentralityEngine(graph.New()).Betweenness()
	assert.ErrorIs(t, err, graph.ErrEmptyGraph)
}

func TestBetweennessPathGraph(t *testing.T) {
	// a -> b -> c -> d with equal weights. Each middle node relays two of
	// the six ordered pairs; the endpoints relay nothing.
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"b", "c", 1},
		{"c", "d", 1},
	})
	scores, err := NewCentralityEngine(g).Betweenness()
	require.NoError(t, err)

	assert.InDelta(t, 0.0, scores["a"], 1e-9)
	assert.InDelta(t, 1.0/3.0, scores["b"], 1e-9)
	assert.InDelta(t, 1.0/3.0, scores["c"], 1e-9)
	assert.InDelta(t, 0.0, scores["d"], 1e-9)
}

func TestBetweennessHubRelay(t *testing.T) {
	// Every leaf pair routes through the hub in both directions, so the hub
	// scores the maximum of exactly 1.
	g := buildGraph(t, [][3]interface{}{
		{"hub", "l1", 1},
		{"l1", "hub", 1},
		{"hub", "l2", 1},
		{"l2", "hub", 1},
		{"hub", "l3", 1},
		{"l3", "hub", 1},
		{"hub", "l4", 1},
		{"l4", "hub", 1},
	})
	scores, err := NewCentralityEngine(g).Betweenness()
	require.NoError(t, err)

	assert.InDelta(t, 1.0, scores["hub"], 1e-9)
	for _, leaf := range []string{"l1", "l2", "l3", "l4"} {
		assert.InDelta(t, 0.0, scores[leaf], 1e-9)
	}
}

func TestBetweennessFollowsDirection(t *testing.T) {
	// A pure broadcaster relays nothing: its recipients are sinks, so no
	// directed path crosses it.
	g := buildGraph(t, [][3]interface{}{
		{"legit", "carol", 1},
		{"legit", "dave", 1},
		{"spammer", "alice", 45},
	})
	scores, err := NewCentralityEngine(g).Betweenness()
	require.NoError(t, err)

	for id, score := range scores {
		assert.Equal(t, 0.0, score, "node %s", id)
	}
}

func TestBetweennessEqualPathSplit(t *testing.T) {
	// Two equal-cost routes from a to d split the dependency: b and c each
	// carry half of the single ordered pair crossing them.
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"a", "c", 1},
		{"b", "d", 1},
		{"c", "d", 1},
	})
	scores, err := NewCentralityEngine(g).Betweenness()
	require.NoError(t, err)

	assert.InDelta(t, scores["b"], scores["c"], 1e-9)
	assert.InDelta(t, 1.0/12.0, scores["b"], 1e-9)
}

func TestBetweennessTwoNodeGraphIsZero(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 3},
	})
	scores, err := NewCentralityEngine(g).Betweenness()
	require.NoError(t, err)

	assert.Equal(t, 0.0, scores["a"])
	assert.Equal(t, 0.0, scores["b"])
}

func TestClosenessPathGraph(t *testing.T) {
	// a - b - c with unit weights: b is one cost unit from both others, the
	// endpoints average 1.5. Closeness ignores direction.
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"b", "c", 1},
	})
	scores, err := NewCentralityEngine(g).Closeness()
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3.0, scores["a"], 1e-9)
	assert.InDelta(t, 1.0, scores["b"], 1e-9)
	assert.InDelta(t, 2.0/3.0, scores["c"], 1e-9)
}

func TestClosenessZeroForIsolatedNode(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"loner", "loner", 2},
	})
	scores, err := NewCentralityEngine(g).Closeness()
	require.NoError(t, err)

	assert.Equal(t, 0.0, scores["loner"])
	assert.Greater(t, scores["a"], 0.0)
	assert.Greater(t, scores["b"], 0.0, "a pure recipient is not isolated")
}

func TestComputeDispatchesOnVariant(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"b", "c", 1},
	})
	engine := NewCentralityEngine(g)

	betweenness, err := engine.Compute(VariantBetweenness)
	require.NoError(t, err)
	closeness, err := engine.Compute(VariantCloseness)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, betweenness["b"], 1e-9)
	assert.InDelta(t, 1.0, closeness["b"], 1e-9)
	assert.Equal(t, 0.0, betweenness["a"])
	assert.InDelta(t, 2.0/3.0, closeness["a"], 1e-9)
}
