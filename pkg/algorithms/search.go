package algorithms

import (
	"container/heap"
	"context"
	"math"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// DistanceMap maps a reachable pin to its distance from one source. The
// source itself is always present at distance 0.
type DistanceMap map[timing.NodeID]float64

// ctxCheckInterval is how many settled pins pass between ctx.Err() checks.
const ctxCheckInterval = 1024

// search is one single-source traversal over the graph.
//
// Weighted searches run Dijkstra over arc delays. When several parallel arcs
// join the same ordered pair the relaxation keeps the smallest delay, so the
// minimum parallel arc is the representative weight of that hop. Unweighted
// searches run BFS and measure hop count.
type search struct {
	graph    *timing.Graph
	weighted bool
	reverse  bool                     // walk predecessors instead of successors
	cutoff   float64                  // pins farther than this are not reached
	parents  bool                     // record the predecessor of each reached pin
	stop     func(timing.NodeID) bool // optional early exit on a settled pin
}

type searchResult struct {
	dist    DistanceMap
	parent  map[timing.NodeID]timing.NodeID
	hit     timing.NodeID // pin that satisfied stop
	found   bool
	settled int
}

func newSearch(g *timing.Graph, weighted bool, cutoff *float64) *search {
	s := &search{graph: g, weighted: weighted, cutoff: math.Inf(1)}
	if cutoff != nil {
		s.cutoff = *cutoff
	}
	return s
}

func (s *search) neighbours(id timing.NodeID, fn func(timing.NodeID, float64) bool) {
	if s.reverse {
		s.graph.EachPredecessor(id, fn)
		return
	}
	s.graph.EachSuccessor(id, fn)
}

func (s *search) run(ctx context.Context, source timing.NodeID) (*searchResult, error) {
	if s.weighted {
		return s.dijkstra(ctx, source)
	}
	return s.bfs(ctx, source)
}

// distItem is a priority queue entry. seq breaks distance ties in push order
// so traversals are reproducible.
type distItem struct {
	node timing.NodeID
	dist float64
	seq  int
}

// distHeap implements a min-heap of distItem by (dist, seq).
type distHeap []distItem

func (h distHeap) Len() int { return len(h) }
func (h distHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].seq < h[j].seq
}
func (h distHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *distHeap) Push(x any) {
	*h = append(*h, x.(distItem))
}

func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

func (s *search) dijkstra(ctx context.Context, source timing.NodeID) (*searchResult, error) {
	res := &searchResult{dist: DistanceMap{source: 0}}
	if s.parents {
		res.parent = make(map[timing.NodeID]timing.NodeID)
	}
	done := make(map[timing.NodeID]struct{})

	pq := &distHeap{{node: source, dist: 0}}
	seq := 1

	for pq.Len() > 0 {
		current := heap.Pop(pq).(distItem)
		if _, finalized := done[current.node]; finalized {
			continue
		}
		if current.dist > res.dist[current.node] {
			continue // stale entry
		}
		done[current.node] = struct{}{}
		res.settled++

		if res.settled%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if s.stop != nil && s.stop(current.node) {
			res.hit, res.found = current.node, true
			return res, nil
		}

		s.neighbours(current.node, func(next timing.NodeID, delay float64) bool {
			if next == current.node {
				return true // self-loop, distance to self is 0
			}
			if _, finalized := done[next]; finalized {
				return true
			}
			nd := current.dist + delay
			if nd > s.cutoff {
				return true
			}
			if old, seen := res.dist[next]; seen && nd >= old {
				return true
			}
			res.dist[next] = nd
			if res.parent != nil {
				res.parent[next] = current.node
			}
			heap.Push(pq, distItem{node: next, dist: nd, seq: seq})
			seq++
			return true
		})
	}

	return res, nil
}

func (s *search) bfs(ctx context.Context, source timing.NodeID) (*searchResult, error) {
	res := &searchResult{dist: DistanceMap{source: 0}}
	if s.parents {
		res.parent = make(map[timing.NodeID]timing.NodeID)
	}

	queue := []timing.NodeID{source}
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		res.settled++

		if res.settled%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if s.stop != nil && s.stop(current) {
			res.hit, res.found = current, true
			return res, nil
		}

		nd := res.dist[current] + 1
		if nd > s.cutoff {
			continue
		}
		s.neighbours(current, func(next timing.NodeID, _ float64) bool {
			if _, seen := res.dist[next]; seen {
				return true
			}
			res.dist[next] = nd
			if res.parent != nil {
				res.parent[next] = current
			}
			queue = append(queue, next)
			return true
		})
	}

	return res, nil
}

// pathTo walks parent links back from target and returns source..target.
func (r *searchResult) pathTo(source, target timing.NodeID) []timing.NodeID {
	path := []timing.NodeID{target}
	for node := target; node != source; {
		node = r.parent[node]
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
