package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordQuery records a query execution
func (r *Registry) RecordQuery(queryType, status string, duration time.Duration, nodesSettled int) {
	r.QueriesTotal.WithLabelValues(queryType, status).Inc()
	r.QueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	r.QueryNodesSettled.WithLabelValues(queryType).Observe(float64(nodesSettled))
}

// RecordDeclaration records one replayed parser declaration
func (r *Registry) RecordDeclaration(kind, status string) {
	r.BuildDeclarationsTotal.WithLabelValues(kind, status).Inc()
}

// RecordBuild records a finished graph build and publishes its size
func (r *Registry) RecordBuild(nodes, arcs int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GraphNodes.Set(float64(nodes))
	r.GraphArcs.Set(float64(arcs))
	r.BuildDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a distance cache hit or miss
func (r *Registry) RecordCacheLookup(hit bool) {
	if hit {
		r.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	r.CacheLookupsTotal.WithLabelValues("miss").Inc()
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format, for pickup by a node-exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Status returns the status label for err
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
