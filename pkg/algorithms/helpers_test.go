package algorithms

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// arc is a compact test declaration.
type arc struct {
	from, to string
	delay    float64
}

// buildGraph declares every endpoint in first-seen order, replays the arcs and
// freezes the graph.
func buildGraph(t *testing.T, arcs ...arc) *timing.Graph {
	t.Helper()
	g := timing.NewGraph("/")
	for _, a := range arcs {
		for _, id := range []string{a.from, a.to} {
			if err := g.AddNode(timing.NodeID(id)); err != nil {
				t.Fatalf("AddNode(%q) failed: %v", id, err)
			}
		}
		if err := g.AddEdge(timing.NodeID(a.from), timing.NodeID(a.to), a.delay); err != nil {
			t.Fatalf("AddEdge(%s -> %s) failed: %v", a.from, a.to, err)
		}
	}
	g.Freeze()
	return g
}

// convergenceGraph is the fan-in A,B,C -> D -> E.
func convergenceGraph(t *testing.T) *timing.Graph {
	return buildGraph(t,
		arc{"A", "D", 2},
		arc{"B", "D", 3},
		arc{"C", "D", 1},
		arc{"D", "E", 1},
	)
}

// chainGraph is P0 -> P1 -> ... -> P(n-1) with unit delays.
func chainGraph(t *testing.T, n int) *timing.Graph {
	t.Helper()
	arcs := make([]arc, 0, n-1)
	for i := 0; i+1 < n; i++ {
		arcs = append(arcs, arc{fmt.Sprintf("P%d", i), fmt.Sprintf("P%d", i+1), 1})
	}
	return buildGraph(t, arcs...)
}

// codedGraph decodes arc codes over eight pins: from = code/8, to = code%8.
// Every pin is declared even when no arc touches it.
func codedGraph(codes []int) *timing.Graph {
	g := timing.NewGraph("/")
	for i := 0; i < 8; i++ {
		_ = g.AddNode(pin(i))
	}
	for i, code := range codes {
		_ = g.AddEdge(pin(code/8), pin(code%8), float64(i%5))
	}
	g.Freeze()
	return g
}

func pin(i int) timing.NodeID {
	return timing.NodeID(fmt.Sprintf("P%d", i))
}

func ids(s ...string) []timing.NodeID {
	out := make([]timing.NodeID, len(s))
	for i, v := range s {
		out[i] = timing.NodeID(v)
	}
	return out
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
