// Package metrics defines the Prometheus instruments for route queries and tag reads.
//
// A nil *Metrics is valid and records nothing, so library code can take one
// optionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "indoornav"

// Outcome labels
const (
	OutcomeFound   = "found"
	OutcomeNoPath  = "no_path"
	OutcomeKnown   = "known"
	OutcomeUnknown = "unknown"
)

// Metrics groups the collectors registered for one process (or one test).
type Metrics struct {
	routeQueries  *prometheus.CounterVec
	routeHops     prometheus.Histogram
	routeDuration *prometheus.HistogramVec
	tagReads      *prometheus.CounterVec
}

// New registers the collectors on reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		routeQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_queries_total",
			Help:      "Total route queries by search strategy and outcome",
		}, []string{"strategy", "outcome"}),

		routeHops: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_hops",
			Help:      "Number of edges in found routes",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),

		routeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_duration_seconds",
			Help:      "Route search latency",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"strategy"}),

		tagReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_reads_total",
			Help:      "Total tag reads by lookup outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRoute records one route query.
func (m *Metrics) ObserveRoute(strategy string, found bool, hops int, elapsed time.Duration) {
	if m == nil {
		return
	}

	outcome := OutcomeNoPath
	if found {
		outcome = OutcomeFound
		m.routeHops.Observe(float64(hops))
	}
	m.routeQueries.WithLabelValues(strategy, outcome).Inc()
	m.routeDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveTagRead records one tag lookup.
func (m *Metrics) ObserveTagRead(known bool) {
	if m == nil {
		return
	}

	outcome := OutcomeUnknown
	if known {
		outcome = OutcomeKnown
	}
	m.tagReads.WithLabelValues(outcome).Inc()
}

// RouteQueries exposes the query counter for tests and health reporting
func (m *Metrics) RouteQueries() *prometheus.CounterVec {
	return m.routeQueries
}

// TagReads exposes the tag read counter
func (m *Metrics) TagReads() *prometheus.CounterVec {
	return m.tagReads
}
