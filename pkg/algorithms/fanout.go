package algorithms

import (
	"strconv"
	"time"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// QueryFanout labels fanout traces in logs and metrics.
const QueryFanout = "fanout"

// FanoutTracer walks a single deterministic path forward through a timing
// graph, always taking the first successor in arc insertion order. It
// approximates propagation through a chain of buffers or pass-through
// switches and is not a full fanout exploration.
type FanoutTracer struct {
	graph   *timing.Graph
	logger  logging.Logger
	metrics *metrics.Registry
}

// TracerOption configures a FanoutTracer.
type TracerOption func(*FanoutTracer)

// WithTracerLogger sets the tracer's debug logger.
func WithTracerLogger(l logging.Logger) TracerOption {
	return func(t *FanoutTracer) {
		t.logger = logging.OrNop(l)
	}
}

// WithTracerMetrics records every trace into r.
func WithTracerMetrics(r *metrics.Registry) TracerOption {
	return func(t *FanoutTracer) {
		t.metrics = r
	}
}

// NewFanoutTracer creates a tracer over g.
func NewFanoutTracer(g *timing.Graph, opts ...TracerOption) *FanoutTracer {
	t := &FanoutTracer{graph: g, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Follow returns the pin reached after taking the first successor hops
// times. It stops early, without error, at a pin with no outgoing arcs.
// hops == 0 returns start without consulting the graph. Only the current pin
// is held, so memory does not grow with hops.
func (t *FanoutTracer) Follow(start timing.NodeID, hops int) (timing.NodeID, error) {
	end, _, err := t.walk("Follow", start, hops, nil)
	return end, err
}

// Trace is Follow but returns every pin visited, start first.
func (t *FanoutTracer) Trace(start timing.NodeID, hops int) ([]timing.NodeID, error) {
	var path []timing.NodeID
	_, _, err := t.walk("Trace", start, hops, func(n timing.NodeID) {
		path = append(path, n)
	})
	if err != nil {
		return nil, err
	}
	return path, nil
}

// walk runs step and records the outcome. taken+1 pins are settled.
func (t *FanoutTracer) walk(op string, start timing.NodeID, hops int, visit func(timing.NodeID)) (timing.NodeID, int, error) {
	begin := time.Now()
	end, taken, err := t.step(op, start, hops, visit)

	if t.metrics != nil {
		settled := 0
		if err == nil {
			settled = taken + 1
		}
		t.metrics.RecordQuery(QueryFanout, metrics.Status(err), time.Since(begin), settled)
	}
	if err != nil {
		t.logger.Debug("fanout trace failed", logging.Node(string(start)), logging.Hops(hops), logging.Error(err))
		return "", 0, err
	}
	t.logger.Debug("fanout trace finished",
		logging.Node(string(start)),
		logging.Hops(hops),
		logging.String("end", string(end)),
		logging.Int("taken", taken),
	)
	return end, taken, nil
}

// step advances from start, handing each pin to visit when it is non-nil.
func (t *FanoutTracer) step(op string, start timing.NodeID, hops int, visit func(timing.NodeID)) (timing.NodeID, int, error) {
	if hops < 0 {
		return "", 0, timing.InvalidArgumentError(op, "hops", "must be non-negative, got "+strconv.Itoa(hops))
	}
	if hops > 0 && !t.graph.HasNode(start) {
		return "", 0, timing.UnknownNodeError(op, start)
	}
	if visit != nil {
		visit(start)
	}

	current, taken := start, 0
	for taken < hops {
		next, ok := t.graph.FirstSuccessor(current)
		if !ok {
			break
		}
		current = next
		taken++
		if visit != nil {
			visit(current)
		}
	}
	return current, taken, nil
}

// FollowFirstFanout is a convenience wrapper around FanoutTracer.Follow.
func FollowFirstFanout(g *timing.Graph, start timing.NodeID, hops int) (timing.NodeID, error) {
	return NewFanoutTracer(g).Follow(start, hops)
}
