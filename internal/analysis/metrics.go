package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mikey/graph-spam-filter/internal/graph"
)

// DiameterMode selects whether diameter measures hop counts or traversal
// costs.
type DiameterMode int

const (
	// DiameterHops counts edges along shortest paths
	DiameterHops DiameterMode = iota
	// DiameterCost sums 1/weight traversal costs along shortest paths
	DiameterCost
)

// ParseDiameterMode maps a configuration string to a diameter mode.
func ParseDiameterMode(s string) (DiameterMode, error) {
	switch s {
	case "hops":
		return DiameterHops, nil
	case "cost":
		return DiameterCost, nil
	default:
		return 0, fmt.Errorf("unsupported diameter mode: %s", s)
	}
}

// DiameterResult reports the network diameter. When the graph is
// disconnected no finite diameter exists: Finite is false, Value is +Inf and
// LargestComponent carries the diameter of the largest weakly connected
// component instead of silently substituting it.
type DiameterResult struct {
	Value            float64
	Finite           bool
	LargestComponent float64
}

// MarshalJSON renders the disconnected case as an explicit null rather than
// an unencodable +Inf.
func (d DiameterResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Value            *float64
		Finite           bool
		LargestComponent float64
	}{Finite: d.Finite, LargestComponent: d.LargestComponent}
	if d.Finite {
		out.Value = &d.Value
	}
	return json.Marshal(out)
}

// DegreeDistribution histograms total (in plus out) degree across all
// nodes, once by email volume and once by distinct partner count.
type DegreeDistribution struct {
	Weighted   map[int]int
	Unweighted map[int]int
}

// NetworkMetrics bundles the aggregate statistics of one analysis run.
type NetworkMetrics struct {
	Nodes             int
	Edges             int
	Density           float64
	AverageDegree     float64
	Diameter          DiameterResult
	AverageClustering float64
	Degrees           DegreeDistribution
}

// MetricsEngine computes aggregate network statistics. All computations
// tolerate disconnected and single-node graphs.
type MetricsEngine struct {
	g *graph.Graph
}

// NewMetricsEngine creates a metrics engine over g.
func NewMetricsEngine(g *graph.Graph) *MetricsEngine {
	return &MetricsEngine{g: g}
}

// Density returns the edge count divided by the maximum possible edge count
// of a directed simple graph, V*(V-1). Defined as 0 when V <= 1.
func (m *MetricsEngine) Density() float64 {
	v := m.g.NodeCount()
	if v <= 1 {
		return 0
	}
	return float64(m.g.EdgeCount()) / float64(v*(v-1))
}

// AverageDegree returns 2E/V, the mean undirected degree. 0 for an empty
// graph.
func (m *MetricsEngine) AverageDegree() float64 {
	v := m.g.NodeCount()
	if v == 0 {
		return 0
	}
	return 2 * float64(m.g.EdgeCount()) / float64(v)
}

// Diameter returns the maximum shortest-path length over all reachable node
// pairs of the undirected projection, measured per the given mode.
func (m *MetricsEngine) Diameter(mode DiameterMode) DiameterResult {
	n := m.g.NodeCount()
	if n == 0 {
		return DiameterResult{Value: math.Inf(1)}
	}
	if n == 1 {
		return DiameterResult{Finite: true}
	}

	adj := m.g.UndirectedAdjacency()

	// Component labeling decides both connectedness and which component is
	// largest.
	uf := newUnionFind(n)
	for _, e := range m.g.Edges() {
		uf.union(e.From, e.To)
	}
	sizes := make(map[int]int)
	for i := 0; i < n; i++ {
		sizes[uf.find(i)]++
	}
	largest := uf.find(0)
	for i := 1; i < n; i++ {
		if root := uf.find(i); sizes[root] > sizes[largest] {
			largest = root
		}
	}
	connected := sizes[largest] == n

	global := 0.0
	largestEcc := 0.0
	for s := 0; s < n; s++ {
		dist := dijkstraAdjacency(adj, s, mode == DiameterHops)
		ecc := 0.0
		for _, d := range dist {
			if !math.IsInf(d, 1) && d > ecc {
				ecc = d
			}
		}
		if ecc > global {
			global = ecc
		}
		if uf.find(s) == largest && ecc > largestEcc {
			largestEcc = ecc
		}
	}

	if !connected {
		return DiameterResult{Value: math.Inf(1), LargestComponent: largestEcc}
	}
	return DiameterResult{Value: global, Finite: true, LargestComponent: global}
}

// ClusteringCoefficients returns the local clustering coefficient of every
// node: the fraction of its undirected neighbor pairs that are themselves
// connected. Nodes with fewer than two neighbors score 0.
func (m *MetricsEngine) ClusteringCoefficients() map[string]float64 {
	n := m.g.NodeCount()
	adj := m.g.UndirectedAdjacency()

	neighborSets := make([]map[int]bool, n)
	for i, nbs := range adj {
		neighborSets[i] = make(map[int]bool, len(nbs))
		for _, nb := range nbs {
			neighborSets[i][nb.Index] = true
		}
	}

	result := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		k := len(adj[i])
		if k < 2 {
			result[m.g.IDOf(i)] = 0
			continue
		}
		links := 0
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				if neighborSets[adj[i][a].Index][adj[i][b].Index] {
					links++
				}
			}
		}
		result[m.g.IDOf(i)] = 2 * float64(links) / float64(k*(k-1))
	}
	return result
}

// AverageClustering returns the global mean of the local clustering
// coefficients. 0 for an empty graph.
func (m *MetricsEngine) AverageClustering() float64 {
	coeffs := m.ClusteringCoefficients()
	if len(coeffs) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range coeffs {
		total += v
	}
	return total / float64(len(coeffs))
}

// DegreeDistribution histograms total degree across all nodes.
func (m *MetricsEngine) DegreeDistribution() DegreeDistribution {
	dist := DegreeDistribution{
		Weighted:   make(map[int]int),
		Unweighted: make(map[int]int),
	}
	for _, id := range m.g.Nodes() {
		node, err := m.g.NodeByID(id)
		if err != nil {
			continue // cannot happen: id came from the node set
		}
		dist.Weighted[node.Sent+node.Received]++
		dist.Unweighted[node.OutEdges+node.InEdges]++
	}
	return dist
}

// Summary computes all aggregate metrics in one pass.
func (m *MetricsEngine) Summary(mode DiameterMode) NetworkMetrics {
	return NetworkMetrics{
		Nodes:             m.g.NodeCount(),
		Edges:             m.g.EdgeCount(),
		Density:           m.Density(),
		AverageDegree:     m.AverageDegree(),
		Diameter:          m.Diameter(mode),
		AverageClustering: m.AverageClustering(),
		Degrees:           m.DegreeDistribution(),
	}
}
