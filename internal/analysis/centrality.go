package analysis

import (
	"fmt"
	"math"

	"github.com/mikey/graph-spam-filter/internal/graph"
)

// Variant selects which centrality measure a computation uses. It is a
// strategy value passed around at runtime, settable from configuration.
type Variant int

const (
	// VariantBetweenness scores nodes by the fraction of shortest paths
	// passing through them (relay detection)
	VariantBetweenness Variant = iota
	// VariantCloseness scores nodes by the inverse mean distance to the
	// nodes they can reach
	VariantCloseness
)

// ParseVariant maps a configuration string to a centrality variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "betweenness":
		return VariantBetweenness, nil
	case "closeness":
		return VariantCloseness, nil
	default:
		return 0, fmt.Errorf("unsupported centrality variant: %s", s)
	}
}

func (v Variant) String() string {
	if v == VariantCloseness {
		return "closeness"
	}
	return "betweenness"
}

// distEpsilon absorbs float rounding when comparing path costs built from
// sums of 1/weight terms.
const distEpsilon = 1e-10

// CentralityEngine computes betweenness and closeness centrality using the
// 1/weight cost transform for distances. Betweenness follows edge direction,
// since a spam relay forwards mail along directed links; closeness measures
// proximity regardless of direction and runs over the undirected projection.
type CentralityEngine struct {
	g *graph.Graph
}

// NewCentralityEngine creates a centrality engine over g.
func NewCentralityEngine(g *graph.Graph) *CentralityEngine {
	return &CentralityEngine{g: g}
}

// Compute runs the selected centrality variant.
func (c *CentralityEngine) Compute(v Variant) (map[string]float64, error) {
	if v == VariantCloseness {
		return c.Closeness()
	}
	return c.Betweenness()
}

// Betweenness computes normalized betweenness centrality for every node
// using the weighted form of Brandes' algorithm: one Dijkstra per source,
// then back-propagation of pair dependencies over the directed adjacency.
// Scores are normalized by (n-1)(n-2), the number of ordered node pairs
// excluding the node itself, landing in [0, 1].
func (c *CentralityEngine) Betweenness() (map[string]float64, error) {
	n := c.g.NodeCount()
	if n == 0 {
		return nil, graph.ErrEmptyGraph
	}

	cb := make([]float64, n)
	adj := c.directedAdjacency()

	if n >= 3 {
		for s := 0; s < n; s++ {
			stack, sigma, pred := brandesSearch(adj, s)
			brandesAccumulate(s, stack, sigma, pred, cb)
		}
		norm := float64((n - 1) * (n - 2))
		for i := range cb {
			cb[i] /= norm
		}
	}

	result := make(map[string]float64, n)
	for i, v := range cb {
		result[c.g.IDOf(i)] = v
	}
	return result, nil
}

// directedAdjacency materializes the outgoing cost adjacency, self-loops
// dropped. Shortest paths are never improved by a self-loop.
func (c *CentralityEngine) directedAdjacency() [][]graph.Neighbor {
	n := c.g.NodeCount()
	adj := make([][]graph.Neighbor, n)
	for v := 0; v < n; v++ {
		c.g.EachOutEdge(v, func(e graph.Edge) bool {
			if e.To != e.From {
				adj[v] = append(adj[v], graph.Neighbor{Index: e.To, Weight: e.Weight})
			}
			return true
		})
	}
	return adj
}

// brandesSearch is the Dijkstra phase of Brandes' algorithm from source s.
// It returns the settle-order stack, shortest-path counts and predecessor
// lists over the given cost adjacency.
func brandesSearch(adj [][]graph.Neighbor, s int) (stack []int, sigma []float64, pred [][]int) {
	n := len(adj)
	dist := make([]float64, n)
	sigma = make([]float64, n)
	pred = make([][]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[s] = 0
	sigma[s] = 1

	settled := make([]bool, n)
	pq := newCostQueue()
	pq.push(s, 0)

	for pq.Len() > 0 {
		v := pq.pop()
		if settled[v] {
			continue
		}
		settled[v] = true
		stack = append(stack, v)
		for _, nb := range adj[v] {
			w := nb.Index
			cost := 1.0 / float64(nb.Weight)
			alt := dist[v] + cost
			switch {
			case alt < dist[w]-distEpsilon:
				dist[w] = alt
				sigma[w] = sigma[v]
				pred[w] = append(pred[w][:0], v)
				pq.push(w, alt)
			case math.Abs(alt-dist[w]) <= distEpsilon:
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}
	return stack, sigma, pred
}

// brandesAccumulate back-propagates pair dependencies in reverse settle
// order, adding each node's share of the shortest paths rooted at s.
func brandesAccumulate(s int, stack []int, sigma []float64, pred [][]int, cb []float64) {
	delta := make([]float64, len(cb))
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		for _, v := range pred[w] {
			delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
		}
		if w != s {
			cb[w] += delta[w]
		}
	}
}

// Closeness computes closeness centrality over the undirected projection:
// the number of reachable nodes divided by the total distance to them, i.e.
// the inverse of the mean shortest-path cost. Unreachable nodes are excluded
// from the mean and an isolated node scores exactly 0.
func (c *CentralityEngine) Closeness() (map[string]float64, error) {
	n := c.g.NodeCount()
	if n == 0 {
		return nil, graph.ErrEmptyGraph
	}

	adj := c.g.UndirectedAdjacency()
	result := make(map[string]float64, n)
	for s := 0; s < n; s++ {
		dist := dijkstraAdjacency(adj, s, false)
		reachable := 0
		total := 0.0
		for v, d := range dist {
			if v == s || math.IsInf(d, 1) {
				continue
			}
			reachable++
			total += d
		}
		if reachable == 0 || total == 0 {
			result[c.g.IDOf(s)] = 0
			continue
		}
		result[c.g.IDOf(s)] = float64(reachable) / total
	}
	return result, nil
}

// dijkstraAdjacency runs Dijkstra from src over an undirected adjacency.
// With hops true every edge costs 1 (hop counting); otherwise edges cost
// 1/weight.
func dijkstraAdjacency(adj [][]graph.Neighbor, src int, hops bool) []float64 {
	dist := make([]float64, len(adj))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0

	settled := make([]bool, len(adj))
	pq := newCostQueue()
	pq.push(src, 0)
	for pq.Len() > 0 {
		v := pq.pop()
		if settled[v] {
			continue
		}
		settled[v] = true
		for _, nb := range adj[v] {
			cost := 1.0
			if !hops {
				cost = 1.0 / float64(nb.Weight)
			}
			if alt := dist[v] + cost; alt < dist[nb.Index] {
				dist[nb.Index] = alt
				pq.push(nb.Index, alt)
			}
		}
	}
	return dist
}
