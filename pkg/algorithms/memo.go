package algorithms

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// CachedEngine memoizes single-source distance maps of a PathQueryEngine.
// The graph must be frozen before the first query; the cache is never
// invalidated by graph changes.
//
// Concurrent requests for the same key share one traversal. Callers always
// receive their own copy of a cached map.
type CachedEngine struct {
	*PathQueryEngine

	mu    sync.RWMutex
	cache map[string]DistanceMap
	group singleflight.Group
}

type cachedDistances struct {
	dist    DistanceMap
	settled int
}

// NewCachedEngine wraps e with a distance cache.
func NewCachedEngine(e *PathQueryEngine) *CachedEngine {
	return &CachedEngine{
		PathQueryEngine: e,
		cache:           make(map[string]DistanceMap),
	}
}

// SingleSourceDistances returns a copy of the cached distance map for
// source, computing it on first use.
func (c *CachedEngine) SingleSourceDistances(source timing.NodeID, opts DistanceOptions) (DistanceMap, error) {
	return c.SingleSourceDistancesContext(context.Background(), source, opts)
}

// SingleSourceDistancesContext is SingleSourceDistances with cancellation.
// Cancelling ctx abandons the wait but not a traversal other callers share.
func (c *CachedEngine) SingleSourceDistancesContext(ctx context.Context, source timing.NodeID, opts DistanceOptions) (DistanceMap, error) {
	const op = "SingleSourceDistances"
	q := c.begin(QuerySingleSource)

	if err := validateCutoff(op, opts.Cutoff); err != nil {
		q.end(0, err)
		return nil, err
	}
	if !c.graph.HasNode(source) {
		err := timing.UnknownNodeError(op, source)
		q.end(0, err)
		return nil, err
	}

	dist, settled, err := c.distances(ctx, source, opts)
	q.end(settled, err)
	return dist, err
}

// EarliestCommonNodes runs the convergence query over cached distance maps.
func (c *CachedEngine) EarliestCommonNodes(sources []timing.NodeID, opts CommonOptions) (*CommonResult, error) {
	return c.EarliestCommonNodesContext(context.Background(), sources, opts)
}

// EarliestCommonNodesContext is EarliestCommonNodes with cancellation.
func (c *CachedEngine) EarliestCommonNodesContext(ctx context.Context, sources []timing.NodeID, opts CommonOptions) (*CommonResult, error) {
	return c.earliestCommon(ctx, sources, opts, c.distances)
}

// distances serves a copy from the cache, or computes and stores the map.
// The settled count is zero on a cache hit.
func (c *CachedEngine) distances(ctx context.Context, source timing.NodeID, opts DistanceOptions) (DistanceMap, int, error) {
	key := cacheKey(source, opts)

	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	c.recordLookup(ok)
	if ok {
		return cached.clone(), 0, nil
	}

	// Detached so one caller's cancellation does not fail the others
	// waiting on the same key.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		dist, settled, err := c.PathQueryEngine.distances(shared, source, opts)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[key] = dist
		c.mu.Unlock()
		return cachedDistances{dist: dist, settled: settled}, nil
	})

	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, 0, r.Err
		}
		v := r.Val.(cachedDistances)
		return v.dist.clone(), v.settled, nil
	}
}

func (c *CachedEngine) recordLookup(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(hit)
	}
}

// Len returns the number of cached distance maps.
func (c *CachedEngine) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Reset drops every cached distance map.
func (c *CachedEngine) Reset() {
	c.mu.Lock()
	c.cache = make(map[string]DistanceMap)
	c.mu.Unlock()
}

func cacheKey(source timing.NodeID, opts DistanceOptions) string {
	cutoff := "inf"
	if opts.Cutoff != nil {
		cutoff = strconv.FormatFloat(*opts.Cutoff, 'g', -1, 64)
	}
	return fmt.Sprintf("%s\x00%t\x00%s", source, opts.ConsiderDelay, cutoff)
}

func (d DistanceMap) clone() DistanceMap {
	out := make(DistanceMap, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
