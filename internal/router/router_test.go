package router

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indoornav/internal/floorplan"
	"indoornav/internal/metrics"
)

func referenceGraph(t *testing.T) *floorplan.Graph {
	t.Helper()
	plan, err := floorplan.LoadDefault()
	require.NoError(t, err)
	return plan.Graph
}

// hopDistances is an independent BFS used to check FindPath results.
func hopDistances(g *floorplan.Graph, start string) map[string]int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.Neighbors(current) {
			if _, seen := dist[e.To]; !seen {
				dist[e.To] = dist[current] + 1
				queue = append(queue, e.To)
			}
		}
	}
	return dist
}

func assertValidWalk(t *testing.T, g *floorplan.Graph, path []string, start, end string) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, end, path[len(path)-1])
	for i := 0; i+1 < len(path); i++ {
		_, ok := g.Weight(path[i], path[i+1])
		assert.True(t, ok, "%s -> %s is not an edge", path[i], path[i+1])
	}
}

func TestFindPath(t *testing.T) {
	g := referenceGraph(t)

	t.Run("same room", func(t *testing.T) {
		path, ok := FindPath(g, "207", "207")
		assert.True(t, ok)
		assert.Equal(t, []string{"207"}, path)
	})

	t.Run("207 to 215", func(t *testing.T) {
		path, ok := FindPath(g, "207", "215")
		require.True(t, ok)
		assertValidWalk(t, g, path, "207", "215")
		assert.Equal(t, hopDistances(g, "207")["215"], len(path)-1)
		assert.Equal(t, []string{
			"207", "k-207", "k-206", "k-205", "k-204", "k-203", "k-5", "k-wc2", "k-215", "215",
		}, path)
	})

	t.Run("nonexistent destination", func(t *testing.T) {
		path, ok := FindPath(g, "223", "wc9999")
		assert.False(t, ok)
		assert.Nil(t, path)
	})

	t.Run("nonexistent start", func(t *testing.T) {
		_, ok := FindPath(g, "wc9999", "207")
		assert.False(t, ok)
	})

	t.Run("empty start token", func(t *testing.T) {
		_, ok := FindPath(g, "", "207")
		assert.False(t, ok)
	})

	t.Run("start not in graph but equal to end", func(t *testing.T) {
		path, ok := FindPath(g, "wc9999", "wc9999")
		assert.True(t, ok)
		assert.Equal(t, []string{"wc9999"}, path)
	})

	t.Run("asymmetric adjacency", func(t *testing.T) {
		forward, ok := FindPath(g, "217", "229")
		require.True(t, ok)
		assert.Equal(t, []string{"217", "k-217", "k-wc1", "k-229", "229"}, forward)

		backward, ok := FindPath(g, "229", "217")
		require.True(t, ok)
		assert.Equal(t, []string{"229", "k-229", "k-217", "217"}, backward)
	})
}

func TestFindPathReflexive(t *testing.T) {
	g := referenceGraph(t)

	for _, id := range g.Nodes() {
		path, ok := FindPath(g, id, id)
		assert.True(t, ok)
		assert.Equal(t, []string{id}, path)
	}
}

func TestFindPathShortestAndComplete(t *testing.T) {
	g := referenceGraph(t)
	nodes := append(g.Nodes(), "wc9999")

	for _, start := range nodes {
		reference := hopDistances(g, start)
		for _, end := range nodes {
			path, ok := FindPath(g, start, end)
			hops, reachable := reference[end]

			require.Equal(t, reachable, ok, "%s -> %s", start, end)
			if ok {
				assertValidWalk(t, g, path, start, end)
				assert.Equal(t, hops, len(path)-1, "%s -> %s", start, end)
			}
		}
	}
}

func TestFindPathDeterministic(t *testing.T) {
	g := referenceGraph(t)

	first, ok := FindPath(g, "223", "207")
	require.True(t, ok)

	for i := 0; i < 20; i++ {
		again, _ := FindPath(g, "223", "207")
		assert.Equal(t, first, again)
	}
}

func TestFindPathTieBreakFollowsAdjacencyOrder(t *testing.T) {
	viaB := floorplan.New(map[string][]floorplan.Edge{
		"a": {{Weight: 1, To: "b"}, {Weight: 1, To: "c"}},
		"b": {{Weight: 1, To: "d"}},
		"c": {{Weight: 1, To: "d"}},
	}, nil)
	viaC := floorplan.New(map[string][]floorplan.Edge{
		"a": {{Weight: 1, To: "c"}, {Weight: 1, To: "b"}},
		"b": {{Weight: 1, To: "d"}},
		"c": {{Weight: 1, To: "d"}},
	}, nil)

	path, _ := FindPath(viaB, "a", "d")
	assert.Equal(t, []string{"a", "b", "d"}, path)

	path, _ = FindPath(viaC, "a", "d")
	assert.Equal(t, []string{"a", "c", "d"}, path)
}

func TestFindPathDisconnected(t *testing.T) {
	g := floorplan.New(map[string][]floorplan.Edge{
		"a": {{Weight: 1, To: "b"}},
		"b": {{Weight: 1, To: "a"}},
		"c": {{Weight: 1, To: "a"}},
	}, nil)

	_, ok := FindPath(g, "a", "c")
	assert.False(t, ok)

	path, ok := FindPath(g, "c", "b")
	assert.True(t, ok)
	assert.Equal(t, []string{"c", "a", "b"}, path)
}

func TestFindPathDanglingReference(t *testing.T) {
	g := floorplan.New(map[string][]floorplan.Edge{
		"a": {{Weight: 1, To: "ghost"}, {Weight: 1, To: "b"}},
		"b": {},
	}, nil)

	path, ok := FindPath(g, "a", "ghost")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "ghost"}, path)

	path, ok = FindPath(g, "a", "b")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, path)
}

func TestFindWeightedPath(t *testing.T) {
	g := referenceGraph(t)

	t.Run("prefers lower total weight over fewer hops", func(t *testing.T) {
		bfsPath, ok := FindPath(g, "203", "211")
		require.True(t, ok)
		bfsCost, _ := PathCost(g, bfsPath)
		assert.Equal(t, 9, len(bfsPath)-1)
		assert.InDelta(t, 13.5, bfsCost, 1e-9)

		path, cost, ok := FindWeightedPath(g, "203", "211")
		require.True(t, ok)
		assertValidWalk(t, g, path, "203", "211")
		assert.Equal(t, []string{
			"203", "k-203", "k-5", "k-wc2", "k-215", "k-214", "k-216", "k-213", "k-212", "k-211", "211",
		}, path)
		assert.InDelta(t, 11.6, cost, 1e-9)
	})

	t.Run("same room", func(t *testing.T) {
		path, cost, ok := FindWeightedPath(g, "wc9999", "wc9999")
		assert.True(t, ok)
		assert.Equal(t, []string{"wc9999"}, path)
		assert.Zero(t, cost)
	})

	t.Run("unreachable", func(t *testing.T) {
		path, _, ok := FindWeightedPath(g, "223", "wc9999")
		assert.False(t, ok)
		assert.Nil(t, path)
	})

	t.Run("never costs more than the hop-shortest path", func(t *testing.T) {
		for _, start := range []string{"201", "207", "215", "223", "wc1"} {
			for _, end := range g.Nodes() {
				hopPath, _ := FindPath(g, start, end)
				hopCost, _ := PathCost(g, hopPath)
				_, cost, ok := FindWeightedPath(g, start, end)
				require.True(t, ok)
				assert.LessOrEqual(t, cost, hopCost+1e-9, "%s -> %s", start, end)
			}
		}
	})

	t.Run("equal cost ties follow adjacency order", func(t *testing.T) {
		tie := floorplan.New(map[string][]floorplan.Edge{
			"a": {{Weight: 1, To: "c"}, {Weight: 1, To: "b"}},
			"b": {{Weight: 1, To: "d"}},
			"c": {{Weight: 1, To: "d"}},
		}, nil)
		path, cost, _ := FindWeightedPath(tie, "a", "d")
		assert.Equal(t, []string{"a", "c", "d"}, path)
		assert.Equal(t, 2.0, cost)
	})
}

func TestPathCost(t *testing.T) {
	g := referenceGraph(t)

	cost, ok := PathCost(g, []string{"207", "k-207", "k-208", "208"})
	assert.True(t, ok)
	assert.InDelta(t, 2.5, cost, 1e-9)

	_, ok = PathCost(g, []string{"207", "208"})
	assert.False(t, ok)

	cost, ok = PathCost(g, []string{"207"})
	assert.True(t, ok)
	assert.Zero(t, cost)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"", StrategyBFS},
		{"bfs", StrategyBFS},
		{" BFS ", StrategyBFS},
		{"weighted", StrategyWeighted},
		{"Weighted", StrategyWeighted},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStrategy("dijkstra")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestRouter(t *testing.T) {
	g := referenceGraph(t)
	m := metrics.New(prometheus.NewRegistry())
	r := New(g, StrategyBFS, m)

	t.Run("default strategy", func(t *testing.T) {
		route, ok := r.Route("207", "208")
		require.True(t, ok)
		assert.Equal(t, []string{"207", "k-207", "k-208", "208"}, route.Nodes)
		assert.Equal(t, 3, route.Hops)
		assert.InDelta(t, 2.5, route.Cost, 1e-9)
		assert.Equal(t, StrategyBFS, route.Strategy)
		assert.Equal(t, "207", route.Start())
		assert.Equal(t, "208", route.End())
	})

	t.Run("per query strategy", func(t *testing.T) {
		route, ok := r.RouteWith(StrategyWeighted, "203", "211")
		require.True(t, ok)
		assert.Equal(t, 10, route.Hops)
		assert.Equal(t, StrategyWeighted, route.Strategy)
	})

	t.Run("no path", func(t *testing.T) {
		route, ok := r.Route("223", "wc9999")
		assert.False(t, ok)
		assert.Empty(t, route.Nodes)
		assert.Equal(t, "", route.Start())
	})

	t.Run("records metrics", func(t *testing.T) {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries().WithLabelValues("bfs", metrics.OutcomeFound)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries().WithLabelValues("bfs", metrics.OutcomeNoPath)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries().WithLabelValues("weighted", metrics.OutcomeFound)))
	})

	t.Run("empty strategy defaults to bfs", func(t *testing.T) {
		assert.Equal(t, StrategyBFS, New(g, "", nil).Strategy())
	})
}

func TestRouterConcurrentQueries(t *testing.T) {
	r := New(referenceGraph(t), StrategyBFS, nil)
	want, _ := r.Route("223", "215")

	done := make(chan []string, 16)
	for i := 0; i < 16; i++ {
		go func() {
			route, _ := r.Route("223", "215")
			done <- route.Nodes
		}()
	}

	timeout := time.After(5 * time.Second)
	for i := 0; i < 16; i++ {
		select {
		case got := <-done:
			assert.Equal(t, want.Nodes, got)
		case <-timeout:
			t.Fatal("timed out waiting for concurrent queries")
		}
	}
}
