package algorithms

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// Query type labels used in logs and metrics.
const (
	QuerySingleSource   = "single_source"
	QueryEarliestCommon = "earliest_common"
	QueryHasPath        = "has_path"
	QueryDelayPath      = "delay_path"
	QueryNearestTarget  = "nearest_target"
)

// DistanceOptions configures a single-source distance computation.
type DistanceOptions struct {
	ConsiderDelay bool     // Dijkstra over delays when true, BFS hop count otherwise
	Cutoff        *float64 // nil means unbounded; in delay units or hops
}

// Cutoff returns a pointer to v, for use in option structs.
func Cutoff(v float64) *float64 {
	return &v
}

// PathQueryEngine answers shortest-path style queries over a timing graph.
//
// The engine holds no per-query state. Every call allocates its own distance
// maps and queues, so one engine may serve concurrent queries against a
// frozen graph.
type PathQueryEngine struct {
	graph   *timing.Graph
	logger  logging.Logger
	metrics *metrics.Registry
}

// EngineOption configures a PathQueryEngine.
type EngineOption func(*PathQueryEngine)

// WithLogger sets the logger used for per-query debug output.
func WithLogger(l logging.Logger) EngineOption {
	return func(e *PathQueryEngine) {
		e.logger = logging.OrNop(l)
	}
}

// WithMetrics records every query into r.
func WithMetrics(r *metrics.Registry) EngineOption {
	return func(e *PathQueryEngine) {
		e.metrics = r
	}
}

// NewPathQueryEngine creates an engine over g.
func NewPathQueryEngine(g *timing.Graph, opts ...EngineOption) *PathQueryEngine {
	e := &PathQueryEngine{
		graph:  g,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph the engine queries.
func (e *PathQueryEngine) Graph() *timing.Graph {
	return e.graph
}

// SingleSourceDistances returns the distance from source to every pin
// reachable within the cutoff.
func (e *PathQueryEngine) SingleSourceDistances(source timing.NodeID, opts DistanceOptions) (DistanceMap, error) {
	return e.SingleSourceDistancesContext(context.Background(), source, opts)
}

// SingleSourceDistancesContext is SingleSourceDistances with cooperative
// cancellation.
func (e *PathQueryEngine) SingleSourceDistancesContext(ctx context.Context, source timing.NodeID, opts DistanceOptions) (DistanceMap, error) {
	const op = "SingleSourceDistances"
	q := e.begin(QuerySingleSource, logging.Node(string(source)))

	if err := validateCutoff(op, opts.Cutoff); err != nil {
		q.end(0, err)
		return nil, err
	}
	if !e.graph.HasNode(source) {
		err := timing.UnknownNodeError(op, source)
		q.end(0, err)
		return nil, err
	}

	dist, settled, err := e.distances(ctx, source, opts)
	q.end(settled, err)
	return dist, err
}

// distances runs the traversal kernel without validation or bookkeeping.
func (e *PathQueryEngine) distances(ctx context.Context, source timing.NodeID, opts DistanceOptions) (DistanceMap, int, error) {
	res, err := newSearch(e.graph, opts.ConsiderDelay, opts.Cutoff).run(ctx, source)
	if err != nil {
		return nil, 0, err
	}
	return res.dist, res.settled, nil
}

func validateCutoff(op string, cutoff *float64) error {
	if cutoff == nil {
		return nil
	}
	c := *cutoff
	if math.IsNaN(c) || c < 0 {
		return timing.InvalidArgumentError(op, "cutoff", "must be a non-negative number, got "+strconv.FormatFloat(c, 'g', -1, 64))
	}
	return nil
}

// queryRun tracks one query for logging and metrics.
type queryRun struct {
	engine    *PathQueryEngine
	queryType string
	id        string
	start     time.Time
	logger    logging.Logger
}

func (e *PathQueryEngine) begin(queryType string, fields ...logging.Field) *queryRun {
	id := uuid.NewString()
	logger := e.logger.With(logging.QueryID(id), logging.Operation(queryType))
	logger.Debug("query started", fields...)
	return &queryRun{
		engine:    e,
		queryType: queryType,
		id:        id,
		start:     time.Now(),
		logger:    logger,
	}
}

func (q *queryRun) end(settled int, err error, fields ...logging.Field) {
	elapsed := time.Since(q.start)
	if q.engine.metrics != nil {
		q.engine.metrics.RecordQuery(q.queryType, metrics.Status(err), elapsed, settled)
	}
	fields = append(fields, logging.Count(settled), logging.Latency(elapsed))
	if err != nil {
		q.logger.Debug("query failed", append(fields, logging.Error(err))...)
		return
	}
	q.logger.Debug("query finished", fields...)
}
