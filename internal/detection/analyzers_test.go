package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/graph-spam-filter/internal/graph"
)

func relayGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddEdge("spammer1@bad.com", "relay@x.com", 10))
	require.NoError(t, g.AddEdge("relay@x.com", "spammer2@bad.com", 10))
	require.NoError(t, g.AddEdge("spammer1@bad.com", "victim@x.com", 3))
	return g
}

func TestFindRelayChains(t *testing.T) {
	a := NewPathAnalyzer(relayGraph(t))

	chains, err := a.FindRelayChains([]string{"spammer1@bad.com", "spammer2@bad.com"}, 4)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, "spammer1@bad.com", chains[0].From)
	assert.Equal(t, "spammer2@bad.com", chains[0].To)
	assert.Equal(t, []string{"relay@x.com"}, chains[0].Intermediaries)
	assert.Equal(t, 2, chains[0].Path.Hops)
}

func TestFindRelayChainsExcludesDirectEdges(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge("spammer1@bad.com", "spammer2@bad.com", 5))
	a := NewPathAnalyzer(g)

	chains, err := a.FindRelayChains([]string{"spammer1@bad.com", "spammer2@bad.com"}, 4)
	require.NoError(t, err)
	assert.Empty(t, chains, "a direct edge is not a relay chain")
}

func TestFindRelayChainsHonorsMaxHops(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge("s1@bad.com", "r1@x.com", 1))
	require.NoError(t, g.AddEdge("r1@x.com", "r2@x.com", 1))
	require.NoError(t, g.AddEdge("r2@x.com", "r3@x.com", 1))
	require.NoError(t, g.AddEdge("r3@x.com", "s2@bad.com", 1))
	a := NewPathAnalyzer(g)

	chains, err := a.FindRelayChains([]string{"s1@bad.com", "s2@bad.com"}, 4)
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, 4, chains[0].Path.Hops)

	chains, err = a.FindRelayChains([]string{"s1@bad.com", "s2@bad.com"}, 3)
	require.NoError(t, err)
	assert.Empty(t, chains)
}

func TestFindRelayChainsSkipsAbsentSenders(t *testing.T) {
	a := NewPathAnalyzer(relayGraph(t))

	chains, err := a.FindRelayChains(
		[]string{"spammer1@bad.com", "gone@old.com", "spammer2@bad.com"}, 4)
	require.NoError(t, err)
	assert.Len(t, chains, 1)
}

func TestReachableFrom(t *testing.T) {
	a := NewPathAnalyzer(relayGraph(t))

	reachable, err := a.ReachableFrom("spammer1@bad.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"relay@x.com", "victim@x.com", "spammer2@bad.com"}, reachable)

	reachable, err = a.ReachableFrom("victim@x.com")
	require.NoError(t, err)
	assert.Empty(t, reachable)

	_, err = a.ReachableFrom("nobody@x.com")
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestHubCandidatesFlagStarCenter(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge("hub@bad.com", "l1@x.com", 4))
	require.NoError(t, g.AddEdge("hub@bad.com", "l2@x.com", 3))
	require.NoError(t, g.AddEdge("hub@bad.com", "l3@x.com", 2))
	require.NoError(t, g.AddEdge("hub@bad.com", "l4@x.com", 1))
	a := NewMSTAnalyzer(g)

	hubs, err := a.HubCandidates(0.5)
	require.NoError(t, err)

	require.Len(t, hubs, 1)
	assert.Equal(t, "hub@bad.com", hubs[0].Node)
	assert.Equal(t, 4, hubs[0].ForestDegree)
	assert.InDelta(t, 1.0, hubs[0].Share, 1e-9)
}

func TestHubCandidatesThreshold(t *testing.T) {
	// A path graph has no hubs: every forest degree covers at most 2 of the
	// 3 other nodes.
	g := graph.New()
	require.NoError(t, g.AddEdge("a@x.com", "b@x.com", 1))
	require.NoError(t, g.AddEdge("b@x.com", "c@x.com", 1))
	require.NoError(t, g.AddEdge("c@x.com", "d@x.com", 1))
	a := NewMSTAnalyzer(g)

	hubs, err := a.HubCandidates(0.7)
	require.NoError(t, err)
	assert.Empty(t, hubs)

	hubs, err = a.HubCandidates(0.6)
	require.NoError(t, err)
	require.Len(t, hubs, 2)
	assert.Equal(t, "b@x.com", hubs[0].Node, "ties order by identifier")
	assert.Equal(t, "c@x.com", hubs[1].Node)
}

func TestForestNeighbors(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddEdge("hub@bad.com", "l1@x.com", 1))
	require.NoError(t, g.AddEdge("hub@bad.com", "l2@x.com", 5))
	a := NewMSTAnalyzer(g)

	neighbors, err := a.ForestNeighbors("hub@bad.com")
	require.NoError(t, err)
	// Forest edges sort by cost, so the heavier l2 link comes first.
	assert.Equal(t, []string{"l2@x.com", "l1@x.com"}, neighbors)

	_, err = a.ForestNeighbors("nobody@x.com")
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}
