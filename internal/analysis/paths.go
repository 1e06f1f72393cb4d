// Package analysis implements the graph algorithms the spam detector draws
// its structural signals from: shortest paths, spanning forests, centrality,
// connectivity, coloring and aggregate network metrics. Every engine reads a
// built graph and writes only to its own result structures, so independent
// engines may run concurrently over the same graph.
package analysis

import (
	"container/heap"
	"math"

	"github.com/mikey/graph-spam-filter/internal/graph"
)

// Path is the outcome of a shortest-path query. An unreachable target is a
// valid outcome, not an error: Found is false and Nodes is nil.
type Path struct {
	Source string
	Target string
	Nodes  []string
	Cost   float64
	Hops   int
	Found  bool
}

// PathEngine computes single-source shortest paths with Dijkstra's algorithm
// over the 1/weight cost transform, so heavily used links are the cheapest
// to traverse.
type PathEngine struct {
	g *graph.Graph
}

// NewPathEngine creates a path engine over g.
func NewPathEngine(g *graph.Graph) *PathEngine {
	return &PathEngine{g: g}
}

// ShortestPath returns the cheapest directed path from source to target.
// source == target yields a single-node path of cost 0.
func (p *PathEngine) ShortestPath(source, target string) (Path, error) {
	src, err := p.g.NodeByID(source)
	if err != nil {
		return Path{}, err
	}
	dst, err := p.g.NodeByID(target)
	if err != nil {
		return Path{}, err
	}

	result := Path{Source: source, Target: target}
	dist, prev := p.dijkstra(src.Index)
	if math.IsInf(dist[dst.Index], 1) {
		return result, nil
	}

	result.Found = true
	result.Cost = dist[dst.Index]
	result.Nodes = p.tracePath(prev, src.Index, dst.Index)
	result.Hops = len(result.Nodes) - 1
	return result, nil
}

// AllFrom returns the shortest path from source to every reachable node,
// keyed by target identifier. Unreachable nodes are omitted.
func (p *PathEngine) AllFrom(source string) (map[string]Path, error) {
	src, err := p.g.NodeByID(source)
	if err != nil {
		return nil, err
	}

	dist, prev := p.dijkstra(src.Index)
	paths := make(map[string]Path)
	for idx, d := range dist {
		if math.IsInf(d, 1) {
			continue
		}
		nodes := p.tracePath(prev, src.Index, idx)
		paths[p.g.IDOf(idx)] = Path{
			Source: source,
			Target: p.g.IDOf(idx),
			Nodes:  nodes,
			Cost:   d,
			Hops:   len(nodes) - 1,
			Found:  true,
		}
	}
	return paths, nil
}

// dijkstra runs the relaxation loop from src over the directed cost
// adjacency. Ties on cumulative cost break by queue insertion order, keeping
// the chosen paths reproducible.
func (p *PathEngine) dijkstra(src int) (dist []float64, prev []int) {
	n := p.g.NodeCount()
	dist = make([]float64, n)
	prev = make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[src] = 0

	pq := newCostQueue()
	pq.push(src, 0)
	settled := make([]bool, n)

	for pq.Len() > 0 {
		u := pq.pop()
		if settled[u] {
			continue
		}
		settled[u] = true
		p.g.EachOutEdge(u, func(e graph.Edge) bool {
			if alt := dist[u] + e.Cost(); alt < dist[e.To] {
				dist[e.To] = alt
				prev[e.To] = u
				pq.push(e.To, alt)
			}
			return true
		})
	}
	return dist, prev
}

// tracePath reconstructs the node sequence from src to dst using the
// predecessor array.
func (p *PathEngine) tracePath(prev []int, src, dst int) []string {
	var rev []int
	for at := dst; at != -1; at = prev[at] {
		rev = append(rev, at)
		if at == src {
			break
		}
	}
	nodes := make([]string, len(rev))
	for i, idx := range rev {
		nodes[len(rev)-1-i] = p.g.IDOf(idx)
	}
	return nodes
}

// costItem is a frontier entry ordered by cumulative cost, then insertion.
type costItem struct {
	node int
	cost float64
	seq  int
}

// costQueue is the min-heap frontier shared by the Dijkstra-based engines.
type costQueue struct {
	items   []costItem
	nextSeq int
}

func newCostQueue() *costQueue {
	return &costQueue{}
}

func (q *costQueue) Len() int { return len(q.items) }

func (q *costQueue) Less(i, j int) bool {
	if q.items[i].cost != q.items[j].cost {
		return q.items[i].cost < q.items[j].cost
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *costQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *costQueue) Push(x any) { q.items = append(q.items, x.(costItem)) }

func (q *costQueue) Pop() any {
	old := q.items
	it := old[len(old)-1]
	q.items = old[:len(old)-1]
	return it
}

func (q *costQueue) push(node int, cost float64) {
	heap.Push(q, costItem{node: node, cost: cost, seq: q.nextSeq})
	q.nextSeq++
}

func (q *costQueue) pop() int {
	return heap.Pop(q).(costItem).node
}
