package analysis

import (
	"github.com/mikey/graph-spam-filter/internal/graph"
)

// Component is one member of a connectivity partition. Components are
// numbered in order of their earliest node, and node lists keep graph
// insertion order.
type Component struct {
	ID    int
	Nodes []string
	Size  int
}

// ConnectivityEngine partitions the graph into connected components. Weak
// connectivity collapses edge direction, which is the relevant notion for
// relay reachability; strong connectivity keeps it, exposing mutually
// communicating groups.
type ConnectivityEngine struct {
	g *graph.Graph
}

// NewConnectivityEngine creates a connectivity engine over g.
func NewConnectivityEngine(g *graph.Graph) *ConnectivityEngine {
	return &ConnectivityEngine{g: g}
}

// WeaklyConnectedComponents partitions nodes treating every edge as
// undirected, via union-find. The partition is exhaustive and disjoint;
// singleton components are valid.
func (c *ConnectivityEngine) WeaklyConnectedComponents() []Component {
	n := c.g.NodeCount()
	uf := newUnionFind(n)
	for _, e := range c.g.Edges() {
		uf.union(e.From, e.To)
	}

	return c.groupByLabel(func(i int) int { return uf.find(i) })
}

// StronglyConnectedComponents partitions nodes into maximal sets where every
// node reaches every other along directed edges, using Tarjan's algorithm.
func (c *ConnectivityEngine) StronglyConnectedComponents() []Component {
	n := c.g.NodeCount()
	t := &tarjanState{
		g:       c.g,
		index:   make([]int, n),
		lowlink: make([]int, n),
		onStack: make([]bool, n),
		label:   make([]int, n),
	}
	for i := range t.index {
		t.index[i] = -1
		t.label[i] = -1
	}
	for v := 0; v < n; v++ {
		if t.index[v] < 0 {
			t.strongConnect(v)
		}
	}

	return c.groupByLabel(func(i int) int { return t.label[i] })
}

// groupByLabel builds the component list from a node-index labeling,
// numbering components by first appearance.
func (c *ConnectivityEngine) groupByLabel(labelOf func(int) int) []Component {
	n := c.g.NodeCount()
	order := make(map[int]int)
	var components []Component
	for i := 0; i < n; i++ {
		label := labelOf(i)
		ci, ok := order[label]
		if !ok {
			ci = len(components)
			order[label] = ci
			components = append(components, Component{ID: ci})
		}
		components[ci].Nodes = append(components[ci].Nodes, c.g.IDOf(i))
	}
	for i := range components {
		components[i].Size = len(components[i].Nodes)
	}
	return components
}

// tarjanState carries the bookkeeping of Tarjan's strongly-connected-
// components algorithm.
type tarjanState struct {
	g       *graph.Graph
	index   []int
	lowlink []int
	onStack []bool
	stack   []int
	label   []int
	counter int
	nextSCC int
}

func (t *tarjanState) strongConnect(v int) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	t.g.EachOutEdge(v, func(e graph.Edge) bool {
		w := e.To
		if t.index[w] < 0 {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] && t.index[w] < t.lowlink[v] {
			t.lowlink[v] = t.index[w]
		}
		return true
	})

	if t.lowlink[v] == t.index[v] {
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			t.label[w] = t.nextSCC
			if w == v {
				break
			}
		}
		t.nextSCC++
	}
}
