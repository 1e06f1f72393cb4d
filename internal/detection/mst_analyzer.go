package detection

import (
	"sort"

	"github.com/mikey/graph-spam-filter/internal/analysis"
	"github.com/mikey/graph-spam-filter/internal/graph"
)

// HubCandidate is a node whose degree within the spanning forest covers a
// large share of the network, the signature of hub-and-spoke broadcast
// topology.
type HubCandidate struct {
	Node         string
	ForestDegree int
	Share        float64
}

// MSTAnalyzer inspects the minimum spanning forest for hub structure: a
// node carrying many backbone edges disconnects much of the network if
// removed, and mass-spam senders sit at exactly such positions.
type MSTAnalyzer struct {
	g     *graph.Graph
	trees *analysis.SpanningTreeEngine
}

// NewMSTAnalyzer creates an MST analyzer over g.
func NewMSTAnalyzer(g *graph.Graph) *MSTAnalyzer {
	return &MSTAnalyzer{g: g, trees: analysis.NewSpanningTreeEngine(g)}
}

// HubCandidates returns the nodes whose spanning-forest degree reaches the
// given share of all other nodes (0.5 flags a node linked to half the
// network through the backbone). Results sort by forest degree descending,
// ties by identifier.
func (a *MSTAnalyzer) HubCandidates(threshold float64) ([]HubCandidate, error) {
	forest, err := a.trees.MinimumSpanningForest()
	if err != nil {
		return nil, err
	}

	n := a.g.NodeCount()
	if n < 2 {
		return nil, nil
	}

	degrees := make(map[string]int)
	for _, e := range forest.Edges {
		degrees[e.From]++
		degrees[e.To]++
	}

	var hubs []HubCandidate
	for node, deg := range degrees {
		share := float64(deg) / float64(n-1)
		if share >= threshold {
			hubs = append(hubs, HubCandidate{Node: node, ForestDegree: deg, Share: share})
		}
	}
	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].ForestDegree != hubs[j].ForestDegree {
			return hubs[i].ForestDegree > hubs[j].ForestDegree
		}
		return hubs[i].Node < hubs[j].Node
	})
	return hubs, nil
}

// ForestNeighbors returns the backbone neighbors of node within the
// spanning forest, in forest edge order.
func (a *MSTAnalyzer) ForestNeighbors(node string) ([]string, error) {
	if !a.g.HasNode(node) {
		return nil, graph.ErrUnknownNode
	}
	forest, err := a.trees.MinimumSpanningForest()
	if err != nil {
		return nil, err
	}

	var neighbors []string
	for _, e := range forest.Edges {
		switch node {
		case e.From:
			neighbors = append(neighbors, e.To)
		case e.To:
			neighbors = append(neighbors, e.From)
		}
	}
	return neighbors, nil
}
