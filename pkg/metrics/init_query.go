package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "timing_graph_nodes",
			Help: "Number of pins in the most recently built timing graph",
		},
	)

	r.GraphArcs = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "timing_graph_arcs",
			Help: "Number of timing arcs in the most recently built timing graph",
		},
	)

	r.BuildDeclarationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "timing_build_declarations_total",
			Help: "Declarations replayed into timing graphs",
		},
		[]string{"kind", "status"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "timing_build_duration_seconds",
			Help:    "Timing graph construction duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)
}

func (r *Registry) initQueryMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "timing_queries_total",
			Help: "Total number of timing graph queries executed",
		},
		[]string{"query_type", "status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timing_query_duration_seconds",
			Help:    "Query execution duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"query_type"},
	)

	r.QueryNodesSettled = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timing_query_nodes_settled",
			Help:    "Number of pins settled by traversal per query",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		},
		[]string{"query_type"},
	)

	r.CacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "timing_distance_cache_lookups_total",
			Help: "Distance-map cache lookups by result",
		},
		[]string{"result"},
	)
}
