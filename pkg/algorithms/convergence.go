package algorithms

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// Mode selects how per-source distances aggregate into a node's cost.
type Mode string

const (
	// ModeMax minimizes the worst distance from any source
	ModeMax Mode = "max"
	// ModeSum minimizes the total distance from all sources
	ModeSum Mode = "sum"
)

// ParseMode converts s to a Mode. An empty string selects ModeMax.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMax:
		return ModeMax, nil
	case ModeSum:
		return ModeSum, nil
	}
	return "", timing.InvalidArgumentError("ParseMode", "mode", fmt.Sprintf("unsupported mode %q", s))
}

// CommonOptions configures EarliestCommonNodes.
type CommonOptions struct {
	Mode          Mode
	ConsiderDelay bool
	Cutoff        *float64
}

// DefaultCommonOptions returns max-mode, delay-weighted, unbounded options.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Mode:          ModeMax,
		ConsiderDelay: true,
	}
}

// CommonResult is the outcome of a convergence query.
type CommonResult struct {
	// Nodes holds every pin of minimal cost, sorted by id. Empty when no pin
	// is reachable from all sources.
	Nodes []timing.NodeID
	// Cost is the minimal cost, or nil when Nodes is empty.
	Cost *float64
	// Distances holds the per-source distance maps. They are returned even
	// when no common pin exists.
	Distances map[timing.NodeID]DistanceMap
}

// Found reports whether a common pin exists.
func (r *CommonResult) Found() bool {
	return r != nil && r.Cost != nil
}

// distanceFunc computes one source's distance map and how many pins the
// traversal settled.
type distanceFunc func(ctx context.Context, source timing.NodeID, opts DistanceOptions) (DistanceMap, int, error)

// EarliestCommonNodes finds the pins reachable from every source that
// minimize the aggregate distance (worst-case for ModeMax, total for
// ModeSum). Duplicate sources are ignored.
//
// A source only qualifies as a common pin when some other source reaches it
// through arcs; a pin's zero distance to itself does not count as reaching it.
func (e *PathQueryEngine) EarliestCommonNodes(sources []timing.NodeID, opts CommonOptions) (*CommonResult, error) {
	return e.EarliestCommonNodesContext(context.Background(), sources, opts)
}

// EarliestCommonNodesContext is EarliestCommonNodes with cooperative
// cancellation inside the traversal loops.
func (e *PathQueryEngine) EarliestCommonNodesContext(ctx context.Context, sources []timing.NodeID, opts CommonOptions) (*CommonResult, error) {
	return e.earliestCommon(ctx, sources, opts, e.distances)
}

func (e *PathQueryEngine) earliestCommon(ctx context.Context, sources []timing.NodeID, opts CommonOptions, distFn distanceFunc) (*CommonResult, error) {
	const op = "EarliestCommonNodes"

	if len(sources) == 0 {
		return &CommonResult{Distances: map[timing.NodeID]DistanceMap{}}, nil
	}

	q := e.begin(QueryEarliestCommon,
		logging.Sources(idStrings(sources)),
		logging.Mode(string(opts.Mode)),
		logging.Bool("consider_delay", opts.ConsiderDelay),
	)

	if opts.Mode != ModeMax && opts.Mode != ModeSum {
		err := timing.InvalidArgumentError(op, "mode", fmt.Sprintf("unsupported mode %q", opts.Mode))
		q.end(0, err)
		return nil, err
	}
	if err := validateCutoff(op, opts.Cutoff); err != nil {
		q.end(0, err)
		return nil, err
	}

	unique := dedupe(sources)
	for _, s := range unique {
		if !e.graph.HasNode(s) {
			err := timing.UnknownNodeError(op, s)
			q.end(0, err)
			return nil, err
		}
	}

	dopts := DistanceOptions{ConsiderDelay: opts.ConsiderDelay, Cutoff: opts.Cutoff}
	dists := make(map[timing.NodeID]DistanceMap, len(unique))
	settled := 0
	for _, s := range unique {
		d, n, err := distFn(ctx, s, dopts)
		if err != nil {
			err = fmt.Errorf("%s: distances from %q: %w", op, s, err)
			q.end(settled, err)
			return nil, err
		}
		dists[s] = d
		settled += n
	}

	common := commonNodes(unique, dists)
	result := &CommonResult{Distances: dists}
	if len(common) == 0 {
		q.end(settled, nil, logging.Count(0))
		return result, nil
	}

	var best float64
	for i, v := range common {
		c := cost(opts.Mode, unique, dists, v)
		switch {
		case i == 0 || c < best:
			best = c
			result.Nodes = append(result.Nodes[:0], v)
		case c == best:
			result.Nodes = append(result.Nodes, v)
		}
	}
	timing.SortIDs(result.Nodes)
	result.Cost = &best

	q.end(settled, nil, logging.Float64("best_cost", best), logging.Int("best_nodes", len(result.Nodes)))
	return result, nil
}

// commonNodes returns the pins present in every source's distance map,
// excluding sources that no other source reaches.
func commonNodes(sources []timing.NodeID, dists map[timing.NodeID]DistanceMap) []timing.NodeID {
	// Iterate the smallest map to keep the intersection cheap.
	smallest := dists[sources[0]]
	for _, s := range sources[1:] {
		if len(dists[s]) < len(smallest) {
			smallest = dists[s]
		}
	}

	isSource := make(map[timing.NodeID]struct{}, len(sources))
	for _, s := range sources {
		isSource[s] = struct{}{}
	}

	var common []timing.NodeID
	for v := range smallest {
		inAll := true
		for _, s := range sources {
			if _, ok := dists[s][v]; !ok {
				inAll = false
				break
			}
		}
		if !inAll {
			continue
		}
		if _, src := isSource[v]; src && !reachedByOtherSource(v, sources, dists) {
			continue
		}
		common = append(common, v)
	}

	// Sorted so cost ties and float accumulation are reproducible.
	timing.SortIDs(common)
	return common
}

func reachedByOtherSource(v timing.NodeID, sources []timing.NodeID, dists map[timing.NodeID]DistanceMap) bool {
	for _, s := range sources {
		if s == v {
			continue
		}
		if _, ok := dists[s][v]; ok {
			return true
		}
	}
	return false
}

func cost(mode Mode, sources []timing.NodeID, dists map[timing.NodeID]DistanceMap, v timing.NodeID) float64 {
	var c float64
	for i, s := range sources {
		d := dists[s][v]
		if mode == ModeSum {
			c += d
			continue
		}
		if i == 0 || d > c {
			c = d
		}
	}
	return c
}

// dedupe drops repeated ids, keeping first occurrences in order.
func dedupe(ids []timing.NodeID) []timing.NodeID {
	seen := make(map[timing.NodeID]struct{}, len(ids))
	out := make([]timing.NodeID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func idStrings(ids []timing.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
