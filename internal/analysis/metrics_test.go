package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensityTwoNodeGraph(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 5},
	})
	assert.InDelta(t, 0.5, NewMetricsEngine(g).Density(), 1e-9)
}

func TestDensityDegenerateGraphs(t *testing.T) {
	assert.Equal(t, 0.0, NewMetricsEngine(buildGraph(t, nil)).Density())

	single := buildGraph(t, [][3]interface{}{
		{"a", "a", 1},
	})
	assert.Equal(t, 0.0, NewMetricsEngine(single).Density())
}

func TestAverageDegree(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"b", "c", 1},
	})
	assert.InDelta(t, 4.0/3.0, NewMetricsEngine(g).AverageDegree(), 1e-9)
}

func TestDiameterConnectedGraph(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 2},
		{"b", "c", 2},
	})
	engine := NewMetricsEngine(g)

	hops := engine.Diameter(DiameterHops)
	assert.True(t, hops.Finite)
	assert.Equal(t, 2.0, hops.Value)
	assert.Equal(t, hops.Value, hops.LargestComponent)

	cost := engine.Diameter(DiameterCost)
	assert.True(t, cost.Finite)
	assert.InDelta(t, 1.0, cost.Value, 1e-9)
}

func TestDiameterDisconnectedGraph(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"b", "c", 1},
		{"d", "e", 1},
		{"e", "f", 1},
	})
	result := NewMetricsEngine(g).Diameter(DiameterHops)

	assert.False(t, result.Finite)
	assert.True(t, math.IsInf(result.Value, 1))
	assert.Equal(t, 2.0, result.LargestComponent)
}

func TestDiameterDegenerateGraphs(t *testing.T) {
	empty := NewMetricsEngine(buildGraph(t, nil)).Diameter(DiameterHops)
	assert.False(t, empty.Finite)

	single := buildGraph(t, [][3]interface{}{
		{"a", "a", 1},
	})
	result := NewMetricsEngine(single).Diameter(DiameterHops)
	assert.True(t, result.Finite)
	assert.Equal(t, 0.0, result.Value)
}

func TestDiameterResultJSON(t *testing.T) {
	finite, err := json.Marshal(DiameterResult{Value: 3, Finite: true, LargestComponent: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Value":3,"Finite":true,"LargestComponent":3}`, string(finite))

	// +Inf is not encodable, so the disconnected case renders a null value.
	infinite, err := json.Marshal(DiameterResult{Value: math.Inf(1), LargestComponent: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Value":null,"Finite":false,"LargestComponent":2}`, string(infinite))
}

func TestClusteringCoefficients(t *testing.T) {
	// a, b and c form a triangle; d hangs off a and closes no triangles.
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 1},
		{"b", "c", 1},
		{"c", "a", 1},
		{"a", "d", 1},
	})
	coeffs := NewMetricsEngine(g).ClusteringCoefficients()

	assert.InDelta(t, 1.0/3.0, coeffs["a"], 1e-9)
	assert.InDelta(t, 1.0, coeffs["b"], 1e-9)
	assert.InDelta(t, 1.0, coeffs["c"], 1e-9)
	assert.Equal(t, 0.0, coeffs["d"])
}

func TestDegreeDistribution(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 3},
		{"a", "c", 2},
	})
	dist := NewMetricsEngine(g).DegreeDistribution()

	// a sent 5 emails over 2 links; b and c each received once.
	assert.Equal(t, map[int]int{5: 1, 3: 1, 2: 1}, dist.Weighted)
	assert.Equal(t, map[int]int{2: 1, 1: 2}, dist.Unweighted)
}

func TestSummary(t *testing.T) {
	g := buildGraph(t, [][3]interface{}{
		{"a", "b", 5},
	})
	summary := NewMetricsEngine(g).Summary(DiameterHops)

	assert.Equal(t, 2, summary.Nodes)
	assert.Equal(t, 1, summary.Edges)
	assert.InDelta(t, 0.5, summary.Density, 1e-9)
	assert.InDelta(t, 1.0, summary.AverageDegree, 1e-9)
	assert.True(t, summary.Diameter.Finite)
	assert.Equal(t, 1.0, summary.Diameter.Value)
	assert.Equal(t, 0.0, summary.AverageClustering)
}

func TestParseDiameterMode(t *testing.T) {
	m, err := ParseDiameterMode("hops")
	require.NoError(t, err)
	assert.Equal(t, DiameterHops, m)

	m, err = ParseDiameterMode("cost")
	require.NoError(t, err)
	assert.Equal(t, DiameterCost, m)

	_, err = ParseDiameterMode("euclidean")
	assert.Error(t, err)
}
