package analysis

import (
	"sort"

	"github.com/mikey/graph-spam-filter/internal/graph"
)

// ForestEdge is an edge selected into the spanning forest, reported with
// both the raw email count and its traversal cost.
type ForestEdge struct {
	From   string
	To     string
	Weight int
	Cost   float64
}

// SpanningForest is the result of Kruskal's algorithm: the selected edge set
// and the total cost of the backbone. On a connected graph this is a single
// tree; on a disconnected graph, one tree per component.
type SpanningForest struct {
	Edges      []ForestEdge
	TotalCost  float64
	Components int
}

// SpanningTreeEngine computes minimum spanning forests with Kruskal's
// algorithm. The "minimum" is taken over the 1/weight cost transform, so the
// highest-traffic links are preferred and the forest traces the network's
// communication backbone.
type SpanningTreeEngine struct {
	g *graph.Graph
}

// NewSpanningTreeEngine creates a spanning tree engine over g.
func NewSpanningTreeEngine(g *graph.Graph) *SpanningTreeEngine {
	return &SpanningTreeEngine{g: g}
}

// MinimumSpanningForest selects V-C edges (C = number of weakly connected
// components) that connect the graph at minimum total cost, treating edges
// as undirected. Ties on cost break by edge insertion order.
func (s *SpanningTreeEngine) MinimumSpanningForest() (SpanningForest, error) {
	n := s.g.NodeCount()
	if n == 0 {
		return SpanningForest{}, graph.ErrEmptyGraph
	}

	edges := s.g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		ci, cj := edges[i].Cost(), edges[j].Cost()
		if ci != cj {
			return ci < cj
		}
		return edges[i].Seq < edges[j].Seq
	})

	uf := newUnionFind(n)
	forest := SpanningForest{}
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		if !uf.union(e.From, e.To) {
			continue // would close a cycle
		}
		forest.Edges = append(forest.Edges, ForestEdge{
			From:   s.g.IDOf(e.From),
			To:     s.g.IDOf(e.To),
			Weight: e.Weight,
			Cost:   e.Cost(),
		})
		forest.TotalCost += e.Cost()
	}

	forest.Components = n - len(forest.Edges)
	return forest, nil
}

// unionFind is a disjoint-set forest with path compression and union by
// rank, shared by the spanning tree and connectivity engines.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// find returns the set representative of x, compressing the path walked.
func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets of a and b, returning false when they were already
// in the same set.
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	return true
}
