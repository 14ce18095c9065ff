package timing

import (
	"math"
	"sort"
	"strings"
)

// Graph is a directed timing graph of hierarchical pins joined by delay arcs.
//
// A Graph is built once (AddNode/AddEdge, single goroutine) and then frozen.
// Read methods never mutate the graph, so any number of goroutines may query
// a graph concurrently once construction has finished.
//
// Adjacency is kept in arc-insertion order. Successors and Predecessors
// report neighbours in exactly the order the arcs were added, which makes
// "first successor" traversals reproducible across runs.
type Graph struct {
	hierSep string
	index   map[NodeID]int // node id -> position in nodes
	nodes   []NodeID       // insertion order
	edges   []Edge         // insertion order
	out     [][]int        // node position -> outgoing edge positions
	in      [][]int        // node position -> incoming edge positions
	frozen  bool
}

// NewGraph creates an empty graph using the given hierarchy separator.
// An empty separator selects DefaultHierSep.
func NewGraph(hierSep string) *Graph {
	if hierSep == "" {
		hierSep = DefaultHierSep
	}
	return &Graph{
		hierSep: hierSep,
		index:   make(map[NodeID]int),
	}
}

// HierSep returns the hierarchy separator used for pin paths.
func (g *Graph) HierSep() string {
	return g.hierSep
}

// AddNode declares a pin. Adding an existing pin is a no-op.
func (g *Graph) AddNode(id NodeID) error {
	if g.frozen {
		return NewError("AddNode").Node(id).Cause(ErrGraphFrozen).Err()
	}
	if id == "" {
		return InvalidArgumentError("AddNode", "id", "empty pin path")
	}
	g.addNode(id)
	return nil
}

func (g *Graph) addNode(id NodeID) int {
	if pos, ok := g.index[id]; ok {
		return pos
	}
	pos := len(g.nodes)
	g.index[id] = pos
	g.nodes = append(g.nodes, id)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return pos
}

// AddEdge adds an arc from -> to with the given delay. Both endpoints must
// already exist and delay must be a finite value >= 0.
func (g *Graph) AddEdge(from, to NodeID, delay float64) error {
	return g.AddArc(Edge{From: from, To: to, Delay: delay})
}

// AddArc adds an arc carrying annotation metadata. Parallel arcs between the
// same ordered pair are kept as separate entries.
func (g *Graph) AddArc(e Edge) error {
	const op = "AddEdge"
	if g.frozen {
		return NewError(op).Arc(e.From, e.To).Cause(ErrGraphFrozen).Err()
	}
	fromPos, ok := g.index[e.From]
	if !ok {
		return UnknownNodeError(op, e.From)
	}
	toPos, ok := g.index[e.To]
	if !ok {
		return UnknownNodeError(op, e.To)
	}
	if math.IsNaN(e.Delay) || math.IsInf(e.Delay, 0) || e.Delay < 0 {
		return InvalidDelayError(op, e.From, e.To, e.Delay)
	}

	pos := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[fromPos] = append(g.out[fromPos], pos)
	g.in[toPos] = append(g.in[toPos], pos)
	return nil
}

// Freeze ends construction. Later AddNode/AddEdge calls fail with
// ErrGraphFrozen.
func (g *Graph) Freeze() {
	g.frozen = true
}

// Frozen reports whether construction has ended.
func (g *Graph) Frozen() bool {
	return g.frozen
}

// HasNode reports whether the pin exists.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// NodeCount returns the number of pins.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of arcs, parallel arcs included.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all pins in insertion order.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns all arcs in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Successors returns the outgoing (neighbour, delay) pairs of id in
// arc-insertion order.
func (g *Graph) Successors(id NodeID) ([]Successor, error) {
	pos, ok := g.index[id]
	if !ok {
		return nil, UnknownNodeError("Successors", id)
	}
	out := make([]Successor, 0, len(g.out[pos]))
	for _, ei := range g.out[pos] {
		e := &g.edges[ei]
		out = append(out, Successor{Node: e.To, Delay: e.Delay})
	}
	return out, nil
}

// Predecessors returns the incoming (neighbour, delay) pairs of id in
// arc-insertion order.
func (g *Graph) Predecessors(id NodeID) ([]Predecessor, error) {
	pos, ok := g.index[id]
	if !ok {
		return nil, UnknownNodeError("Predecessors", id)
	}
	out := make([]Predecessor, 0, len(g.in[pos]))
	for _, ei := range g.in[pos] {
		e := &g.edges[ei]
		out = append(out, Predecessor{Node: e.From, Delay: e.Delay})
	}
	return out, nil
}

// EachSuccessor calls fn for every outgoing arc of id in insertion order
// until fn returns false. It allocates nothing and is meant for traversal
// loops. Unknown ids have no successors.
func (g *Graph) EachSuccessor(id NodeID, fn func(to NodeID, delay float64) bool) {
	pos, ok := g.index[id]
	if !ok {
		return
	}
	for _, ei := range g.out[pos] {
		e := &g.edges[ei]
		if !fn(e.To, e.Delay) {
			return
		}
	}
}

// EachPredecessor is the incoming counterpart of EachSuccessor.
func (g *Graph) EachPredecessor(id NodeID, fn func(from NodeID, delay float64) bool) {
	pos, ok := g.index[id]
	if !ok {
		return
	}
	for _, ei := range g.in[pos] {
		e := &g.edges[ei]
		if !fn(e.From, e.Delay) {
			return
		}
	}
}

// FirstSuccessor returns the target of the earliest-inserted outgoing arc.
// ok is false when id has no outgoing arcs or does not exist.
func (g *Graph) FirstSuccessor(id NodeID) (next NodeID, ok bool) {
	pos, found := g.index[id]
	if !found || len(g.out[pos]) == 0 {
		return "", false
	}
	return g.edges[g.out[pos][0]].To, true
}

// EdgesBetween returns every arc from -> to in insertion order.
func (g *Graph) EdgesBetween(from, to NodeID) []Edge {
	pos, ok := g.index[from]
	if !ok {
		return nil
	}
	var out []Edge
	for _, ei := range g.out[pos] {
		if g.edges[ei].To == to {
			out = append(out, g.edges[ei])
		}
	}
	return out
}

// OutDegree returns the number of outgoing arcs of id (0 if unknown).
func (g *Graph) OutDegree(id NodeID) int {
	pos, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.out[pos])
}

// InDegree returns the number of incoming arcs of id (0 if unknown).
func (g *Graph) InDegree(id NodeID) int {
	pos, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.in[pos])
}

// InputPorts returns the top-level pins (no hierarchy separator) that no arc
// drives, sorted by id.
func (g *Graph) InputPorts() []NodeID {
	var ports []NodeID
	for pos, id := range g.nodes {
		if len(g.in[pos]) == 0 && !strings.Contains(string(id), g.hierSep) {
			ports = append(ports, id)
		}
	}
	sortIDs(ports)
	return ports
}

// OutputPorts returns the top-level pins that drive nothing, sorted by id.
func (g *Graph) OutputPorts() []NodeID {
	var ports []NodeID
	for pos, id := range g.nodes {
		if len(g.out[pos]) == 0 && !strings.Contains(string(id), g.hierSep) {
			ports = append(ports, id)
		}
	}
	sortIDs(ports)
	return ports
}

// Reverse returns a new frozen graph with every arc flipped. Node and arc
// insertion order is preserved.
func (g *Graph) Reverse() *Graph {
	r := NewGraph(g.hierSep)
	for _, id := range g.nodes {
		r.addNode(id)
	}
	for _, e := range g.edges {
		flipped := e
		flipped.From, flipped.To = e.To, e.From
		pos := len(r.edges)
		r.edges = append(r.edges, flipped)
		r.out[r.index[flipped.From]] = append(r.out[r.index[flipped.From]], pos)
		r.in[r.index[flipped.To]] = append(r.in[r.index[flipped.To]], pos)
	}
	r.Freeze()
	return r
}

// SortIDs sorts pin ids in place, lexicographically.
func SortIDs(ids []NodeID) {
	sortIDs(ids)
}

func sortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
