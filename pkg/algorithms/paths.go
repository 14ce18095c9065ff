package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// HasPath reports whether target is reachable from source through arcs.
// Every pin reaches itself.
func (e *PathQueryEngine) HasPath(source, target timing.NodeID) (bool, error) {
	return e.HasPathContext(context.Background(), source, target)
}

// HasPathContext is HasPath with cooperative cancellation.
func (e *PathQueryEngine) HasPathContext(ctx context.Context, source, target timing.NodeID) (bool, error) {
	const op = "HasPath"
	q := e.begin(QueryHasPath, logging.Node(string(source)), logging.String("target", string(target)))

	if err := e.requireNodes(op, source, target); err != nil {
		q.end(0, err)
		return false, err
	}

	s := newSearch(e.graph, false, nil)
	s.stop = func(id timing.NodeID) bool { return id == target }
	res, err := s.run(ctx, source)
	if err != nil {
		q.end(0, err)
		return false, err
	}
	q.end(res.settled, nil, logging.Bool("found", res.found))
	return res.found, nil
}

// DelayPathResult is the minimum-delay path between two pins.
type DelayPathResult struct {
	Source timing.NodeID
	Target timing.NodeID
	Delay  float64
	Nodes  []timing.NodeID // Source first, Target last
	Arcs   []timing.Edge   // one per hop; the smallest of any parallel arcs
}

// Hops returns the number of arcs on the path.
func (r *DelayPathResult) Hops() int {
	return len(r.Arcs)
}

// DelayPath returns the minimum-delay path from source to target. When the
// target is unreachable the error wraps timing.ErrNoPath.
func (e *PathQueryEngine) DelayPath(source, target timing.NodeID) (*DelayPathResult, error) {
	return e.DelayPathContext(context.Background(), source, target)
}

// DelayPathContext is DelayPath with cooperative cancellation.
func (e *PathQueryEngine) DelayPathContext(ctx context.Context, source, target timing.NodeID) (*DelayPathResult, error) {
	const op = "DelayPath"
	q := e.begin(QueryDelayPath, logging.Node(string(source)), logging.String("target", string(target)))

	if err := e.requireNodes(op, source, target); err != nil {
		q.end(0, err)
		return nil, err
	}

	s := newSearch(e.graph, true, nil)
	s.parents = true
	s.stop = func(id timing.NodeID) bool { return id == target }
	res, err := s.run(ctx, source)
	if err != nil {
		q.end(0, err)
		return nil, err
	}
	if !res.found {
		err := timing.NoPathError(op, source, target)
		q.end(res.settled, err)
		return nil, err
	}

	nodes := res.pathTo(source, target)
	arcs := make([]timing.Edge, 0, len(nodes)-1)
	for i := 1; i < len(nodes); i++ {
		arcs = append(arcs, e.minArc(nodes[i-1], nodes[i]))
	}

	result := &DelayPathResult{
		Source: source,
		Target: target,
		Delay:  res.dist[target],
		Nodes:  nodes,
		Arcs:   arcs,
	}
	q.end(res.settled, nil, logging.Float64("delay", result.Delay), logging.Hops(result.Hops()))
	return result, nil
}

// minArc picks the representative arc of a hop: the smallest delay, the
// earliest inserted among equals.
func (e *PathQueryEngine) minArc(from, to timing.NodeID) timing.Edge {
	arcs := e.graph.EdgesBetween(from, to)
	best := arcs[0]
	for _, a := range arcs[1:] {
		if a.Delay < best.Delay {
			best = a
		}
	}
	return best
}

// NearestOptions configures NearestTarget.
type NearestOptions struct {
	ConsiderDelay bool     // minimum delay when true, fewest hops otherwise
	Reverse       bool     // walk predecessors: nearest driver instead of nearest load
	Cutoff        *float64 // targets farther than this are not found
}

// NearestResult is the closest target found by NearestTarget.
type NearestResult struct {
	Found    bool
	Target   timing.NodeID
	Distance float64
	// Path runs in traversal order: source first, Target last. With Reverse
	// set each consecutive pair is an arc from the later pin to the earlier.
	Path []timing.NodeID
}

// NearestTarget returns the member of targets closest to source. A source
// that is itself a target is found at distance 0. Distance ties resolve to
// the pin settled first, which follows arc insertion order.
func (e *PathQueryEngine) NearestTarget(source timing.NodeID, targets []timing.NodeID, opts NearestOptions) (*NearestResult, error) {
	return e.NearestTargetContext(context.Background(), source, targets, opts)
}

// NearestTargetContext is NearestTarget with cooperative cancellation.
func (e *PathQueryEngine) NearestTargetContext(ctx context.Context, source timing.NodeID, targets []timing.NodeID, opts NearestOptions) (*NearestResult, error) {
	const op = "NearestTarget"
	q := e.begin(QueryNearestTarget,
		logging.Node(string(source)),
		logging.Strings("targets", idStrings(targets)),
		logging.Bool("reverse", opts.Reverse),
	)

	if len(targets) == 0 {
		err := timing.InvalidArgumentError(op, "targets", "at least one target is required")
		q.end(0, err)
		return nil, err
	}
	if err := validateCutoff(op, opts.Cutoff); err != nil {
		q.end(0, err)
		return nil, err
	}
	if err := e.requireNodes(op, source); err != nil {
		q.end(0, err)
		return nil, err
	}
	if err := e.requireNodes(op, targets...); err != nil {
		q.end(0, err)
		return nil, err
	}

	wanted := make(map[timing.NodeID]struct{}, len(targets))
	for _, t := range targets {
		wanted[t] = struct{}{}
	}

	s := newSearch(e.graph, opts.ConsiderDelay, opts.Cutoff)
	s.reverse = opts.Reverse
	s.parents = true
	s.stop = func(id timing.NodeID) bool {
		_, ok := wanted[id]
		return ok
	}
	res, err := s.run(ctx, source)
	if err != nil {
		q.end(0, err)
		return nil, err
	}

	result := &NearestResult{}
	if res.found {
		result.Found = true
		result.Target = res.hit
		result.Distance = res.dist[res.hit]
		result.Path = res.pathTo(source, res.hit)
	}
	q.end(res.settled, nil, logging.Bool("found", result.Found))
	return result, nil
}

func (e *PathQueryEngine) requireNodes(op string, ids ...timing.NodeID) error {
	for _, id := range ids {
		if !e.graph.HasNode(id) {
			return timing.UnknownNodeError(op, id)
		}
	}
	return nil
}
