package graph

import (
	"fmt"
	"time"
)

// Direction selects which adjacency of a node to traverse.
type Direction int

const (
	// Out traverses edges where the node is the sender
	Out Direction = iota
	// In traverses edges where the node is the recipient
	In
)

// Node holds the per-identity aggregates maintained by edge insertion.
// Nodes are created on first appearance and never deleted.
type Node struct {
	ID        string
	Index     int
	OutEdges  int       // distinct recipients
	InEdges   int       // distinct senders
	Sent      int       // total emails sent (sum of outgoing weights)
	Received  int       // total emails received (sum of incoming weights)
	FirstSeen time.Time // zero when no timestamped activity observed
	LastSeen  time.Time
}

// Edge is a merged directed edge carrying the aggregate email count and,
// when available, the full timestamp sequence of the underlying emails.
type Edge struct {
	From       int
	To         int
	Weight     int
	Timestamps []time.Time
	Seq        int // insertion order, used as a deterministic tie-break
}

// Cost is the traversal cost used by shortest-path computations:
// 1/weight, so that high-traffic links are cheap to cross.
func (e Edge) Cost() float64 {
	return 1.0 / float64(e.Weight)
}

// Neighbor is an (index, weight) adjacency entry.
type Neighbor struct {
	Index  int
	Weight int
}

// Graph is a directed weighted multigraph over email identities. Parallel
// edges between the same ordered pair are merged into a single weighted edge;
// the timestamp list survives merging so burst detection stays possible.
//
// Nodes live in a dense arena indexed by insertion order, with a separate
// identifier-to-index map. The graph is not safe for concurrent mutation;
// once built it is safe for concurrent reads.
type Graph struct {
	nodes     []Node
	index     map[string]int
	edges     []Edge
	edgeIndex map[[2]int]int
	out       [][]int // node index -> outgoing edge indices, insertion order
	in        [][]int // node index -> incoming edge indices, insertion order
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:     make(map[string]int),
		edgeIndex: make(map[[2]int]int),
	}
}

// ensureNode returns the index for id, inserting a fresh node if needed.
func (g *Graph) ensureNode(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Index: idx})
	g.index[id] = idx
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return idx
}

// AddEdge records weight emails from sender to recipient, creating either
// node if absent. An existing (sender, recipient) edge is merged: weights
// add up and timestamps append. Timestamps are optional; when provided they
// also advance the endpoints' first/last activity markers.
func (g *Graph) AddEdge(sender, recipient string, weight int, timestamps ...time.Time) error {
	if weight < 1 {
		return fmt.Errorf("edge %s -> %s: %w (got %d)", sender, recipient, ErrInvalidWeight, weight)
	}

	from := g.ensureNode(sender)
	to := g.ensureNode(recipient)

	key := [2]int{from, to}
	if ei, ok := g.edgeIndex[key]; ok {
		g.edges[ei].Weight += weight
		g.edges[ei].Timestamps = append(g.edges[ei].Timestamps, timestamps...)
	} else {
		ei = len(g.edges)
		g.edges = append(g.edges, Edge{
			From:       from,
			To:         to,
			Weight:     weight,
			Timestamps: append([]time.Time(nil), timestamps...),
			Seq:        ei,
		})
		g.edgeIndex[key] = ei
		g.out[from] = append(g.out[from], ei)
		g.in[to] = append(g.in[to], ei)
		g.nodes[from].OutEdges++
		g.nodes[to].InEdges++
	}

	g.nodes[from].Sent += weight
	g.nodes[to].Received += weight

	for _, ts := range timestamps {
		g.touch(from, ts)
		g.touch(to, ts)
	}

	return nil
}

// touch advances a node's activity window to include ts.
func (g *Graph) touch(idx int, ts time.Time) {
	n := &g.nodes[idx]
	if n.FirstSeen.IsZero() || ts.Before(n.FirstSeen) {
		n.FirstSeen = ts
	}
	if ts.After(n.LastSeen) {
		n.LastSeen = ts
	}
}

// NodeCount returns the number of distinct identities.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of merged directed edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all node identifiers in insertion order.
func (g *Graph) Nodes() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// HasNode reports whether id was ever inserted.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// IndexOf returns the dense index for id.
func (g *Graph) IndexOf(id string) (int, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// IDOf returns the identifier stored at index idx.
func (g *Graph) IDOf(idx int) string {
	return g.nodes[idx].ID
}

// NodeByID returns a copy of the node aggregates for id.
func (g *Graph) NodeByID(id string) (Node, error) {
	idx, ok := g.index[id]
	if !ok {
		return Node{}, fmt.Errorf("node %q: %w", id, ErrUnknownNode)
	}
	return g.nodes[idx], nil
}

// Degree bundles the two degree notions the scorer needs: the weighted
// degree (total email volume) and the distinct-edge count.
type Degree struct {
	Weighted int
	Distinct int
}

// Degree returns the weighted and unweighted degree of id in the given
// direction.
func (g *Graph) Degree(id string, dir Direction) (Degree, error) {
	n, err := g.NodeByID(id)
	if err != nil {
		return Degree{}, err
	}
	if dir == Out {
		return Degree{Weighted: n.Sent, Distinct: n.OutEdges}, nil
	}
	return Degree{Weighted: n.Received, Distinct: n.InEdges}, nil
}

// EachNeighbor lazily visits the adjacency of id in the given direction as
// (neighbor identifier, edge weight) pairs, in edge insertion order. The
// walk stops early when fn returns false.
func (g *Graph) EachNeighbor(id string, dir Direction, fn func(neighbor string, weight int) bool) error {
	idx, ok := g.index[id]
	if !ok {
		return fmt.Errorf("node %q: %w", id, ErrUnknownNode)
	}
	adj := g.out[idx]
	if dir == In {
		adj = g.in[idx]
	}
	for _, ei := range adj {
		e := g.edges[ei]
		other := e.To
		if dir == In {
			other = e.From
		}
		if !fn(g.nodes[other].ID, e.Weight) {
			return nil
		}
	}
	return nil
}

// EachOutEdge visits the outgoing edges of the node at idx in insertion
// order, stopping early when fn returns false.
func (g *Graph) EachOutEdge(idx int, fn func(Edge) bool) {
	for _, ei := range g.out[idx] {
		if !fn(g.edges[ei]) {
			return
		}
	}
}

// EachInEdge visits the incoming edges of the node at idx in insertion order.
func (g *Graph) EachInEdge(idx int, fn func(Edge) bool) {
	for _, ei := range g.in[idx] {
		if !fn(g.edges[ei]) {
			return
		}
	}
}

// Edges returns a copy of all merged edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// EdgeWeight returns the merged weight of the (sender, recipient) edge, or
// 0 when no such edge exists.
func (g *Graph) EdgeWeight(sender, recipient string) int {
	from, ok := g.index[sender]
	if !ok {
		return 0
	}
	to, ok := g.index[recipient]
	if !ok {
		return 0
	}
	if ei, ok := g.edgeIndex[[2]int{from, to}]; ok {
		return g.edges[ei].Weight
	}
	return 0
}

// UndirectedAdjacency materializes the undirected weight projection used by
// the centrality, connectivity, coloring and clustering computations. Edges
// in both directions between a pair are combined by summing their weights.
// Entries per node are ordered by first appearance, so iteration order is
// deterministic.
func (g *Graph) UndirectedAdjacency() [][]Neighbor {
	adj := make([][]Neighbor, len(g.nodes))
	pos := make([]map[int]int, len(g.nodes))
	add := func(a, b, w int) {
		if pos[a] == nil {
			pos[a] = make(map[int]int)
		}
		if p, ok := pos[a][b]; ok {
			adj[a][p].Weight += w
			return
		}
		pos[a][b] = len(adj[a])
		adj[a] = append(adj[a], Neighbor{Index: b, Weight: w})
	}
	for _, e := range g.edges {
		if e.From == e.To {
			continue // self-loops carry no undirected adjacency
		}
		add(e.From, e.To, e.Weight)
		add(e.To, e.From, e.Weight)
	}
	return adj
}
