package analysis

import (
	"fmt"
	"sort"

	"github.com/mikey/graph-spam-filter/internal/graph"
)

// OrderStrategy selects the order in which greedy coloring processes nodes.
type OrderStrategy int

const (
	// OrderByDegree colors highest-degree nodes first, which tends to
	// minimize color count on hub-heavy graphs
	OrderByDegree OrderStrategy = iota
	// OrderByInsertion colors nodes in graph insertion order
	OrderByInsertion
)

// ParseOrderStrategy maps a configuration string to an order strategy.
func ParseOrderStrategy(s string) (OrderStrategy, error) {
	switch s {
	case "degree":
		return OrderByDegree, nil
	case "insertion":
		return OrderByInsertion, nil
	default:
		return 0, fmt.Errorf("unsupported coloring order strategy: %s", s)
	}
}

func (o OrderStrategy) String() string {
	if o == OrderByInsertion {
		return "insertion"
	}
	return "degree"
}

// Coloring maps every node to a color index such that no two adjacent nodes
// share a color, plus the total number of colors used.
type Coloring struct {
	Colors     map[string]int
	ColorCount int
}

// ColoringEngine assigns colors greedily: each node takes the smallest color
// index unused by its already-colored neighbors. Graph coloring optimality
// is NP-hard; this is an approximate partitioning tool, not a chromatic
// number solver.
type ColoringEngine struct {
	g *graph.Graph
}

// NewColoringEngine creates a coloring engine over g.
func NewColoringEngine(g *graph.Graph) *ColoringEngine {
	return &ColoringEngine{g: g}
}

// Greedy colors all nodes, processing them per the given strategy.
// Adjacency is the undirected projection, so a and b conflict when an edge
// exists in either direction.
func (c *ColoringEngine) Greedy(strategy OrderStrategy) (Coloring, error) {
	n := c.g.NodeCount()
	if n == 0 {
		return Coloring{}, graph.ErrEmptyGraph
	}

	adj := c.g.UndirectedAdjacency()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if strategy == OrderByDegree {
		sort.SliceStable(order, func(i, j int) bool {
			return len(adj[order[i]]) > len(adj[order[j]])
		})
	}

	colors := make([]int, n)
	for i := range colors {
		colors[i] = -1
	}

	maxColor := -1
	for _, v := range order {
		used := make(map[int]bool, len(adj[v]))
		for _, nb := range adj[v] {
			if colors[nb.Index] >= 0 {
				used[colors[nb.Index]] = true
			}
		}
		color := 0
		for used[color] {
			color++
		}
		colors[v] = color
		if color > maxColor {
			maxColor = color
		}
	}

	result := Coloring{
		Colors:     make(map[string]int, n),
		ColorCount: maxColor + 1,
	}
	for i, color := range colors {
		result.Colors[c.g.IDOf(i)] = color
	}
	return result, nil
}
