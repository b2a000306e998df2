package router

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"indoornav/internal/metrics"
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown search strategy")

// Strategy selects the search algorithm
type Strategy string

const (
	// StrategyBFS counts hops and ignores stored weights.
	StrategyBFS Strategy = "bfs"
	// StrategyWeighted minimises the sum of stored weights.
	StrategyWeighted Strategy = "weighted"
)

// ParseStrategy maps a config or flag value to a Strategy. Empty means BFS.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyBFS:
		return StrategyBFS, nil
	case StrategyWeighted:
		return StrategyWeighted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Route is the result of one query. It belongs to the caller.
type Route struct {
	Nodes    []string `json:"nodes"`
	Hops     int      `json:"hops"`
	Cost     float64  `json:"cost"`
	Strategy Strategy `json:"strategy"`
}

// Start returns the first node of the route
func (r Route) Start() string {
	if len(r.Nodes) == 0 {
		return ""
	}
	return r.Nodes[0]
}

// End returns the last node of the route
func (r Route) End() string {
	if len(r.Nodes) == 0 {
		return ""
	}
	return r.Nodes[len(r.Nodes)-1]
}

// Router runs queries against one graph with a default strategy.
// It holds no per-query state and is safe for concurrent use.
type Router struct {
	graph    Graph
	strategy Strategy
	metrics  *metrics.Metrics
}

// New creates a Router. m may be nil.
func New(g Graph, strategy Strategy, m *metrics.Metrics) *Router {
	if strategy == "" {
		strategy = StrategyBFS
	}
	return &Router{graph: g, strategy: strategy, metrics: m}
}

// Strategy returns the default strategy
func (r *Router) Strategy() Strategy {
	return r.strategy
}

// Route finds a route from start to end with the default strategy.
func (r *Router) Route(start, end string) (Route, bool) {
	return r.RouteWith(r.strategy, start, end)
}

// RouteWith finds a route using the given strategy. An empty strategy uses the
// router default.
func (r *Router) RouteWith(strategy Strategy, start, end string) (Route, bool) {
	if strategy == "" {
		strategy = r.strategy
	}

	began := time.Now()

	var (
		nodes []string
		cost  float64
		found bool
	)
	switch strategy {
	case StrategyWeighted:
		nodes, cost, found = FindWeightedPath(r.graph, start, end)
	default:
		strategy = StrategyBFS
		nodes, found = FindPath(r.graph, start, end)
		if found {
			cost, _ = PathCost(r.graph, nodes)
		}
	}

	elapsed := time.Since(began)
	r.metrics.ObserveRoute(string(strategy), found, len(nodes)-1, elapsed)

	if !found {
		slog.Debug("No path found", "from", start, "to", end, "strategy", strategy)
		return Route{Strategy: strategy}, false
	}

	route := Route{
		Nodes:    nodes,
		Hops:     len(nodes) - 1,
		Cost:     cost,
		Strategy: strategy,
	}
	slog.Debug("Path found",
		"from", start,
		"to", end,
		"strategy", strategy,
		"hops", route.Hops,
		"cost", route.Cost,
		"elapsed", elapsed)

	return route, true
}
