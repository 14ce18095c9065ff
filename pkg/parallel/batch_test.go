package parallel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-timing/pkg/algorithms"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// fanInGraph builds n independent fan-ins Si_a, Si_b -> Mi with delays 1 and
// i+1.
func fanInGraph(t *testing.T, n int) *timing.Graph {
	t.Helper()
	g := timing.NewGraph("/")
	for i := 0; i < n; i++ {
		a := timing.NodeID(fmt.Sprintf("S%d_a", i))
		b := timing.NodeID(fmt.Sprintf("S%d_b", i))
		m := timing.NodeID(fmt.Sprintf("M%d", i))
		for _, id := range []timing.NodeID{a, b, m} {
			require.NoError(t, g.AddNode(id))
		}
		require.NoError(t, g.AddEdge(a, m, 1))
		require.NoError(t, g.AddEdge(b, m, float64(i+1)))
	}
	g.Freeze()
	return g
}

func TestRunConvergenceBatch(t *testing.T) {
	const n = 40
	engine := algorithms.NewPathQueryEngine(fanInGraph(t, n))

	queries := make([]ConvergenceQuery, 0, n+1)
	for i := 0; i < n; i++ {
		queries = append(queries, ConvergenceQuery{
			Name:    fmt.Sprintf("q%d", i),
			Sources: []timing.NodeID{timing.NodeID(fmt.Sprintf("S%d_a", i)), timing.NodeID(fmt.Sprintf("S%d_b", i))},
			Options: algorithms.DefaultCommonOptions(),
		})
	}
	queries = append(queries, ConvergenceQuery{
		Name:    "bad",
		Sources: []timing.NodeID{"nope"},
		Options: algorithms.DefaultCommonOptions(),
	})

	results, err := RunConvergenceBatch(context.Background(), engine, queries, 8)
	require.NoError(t, err)
	require.Len(t, results, n+1)

	for i := 0; i < n; i++ {
		r := results[i]
		require.NoError(t, r.Err, r.Query.Name)
		assert.Equal(t, queries[i].Name, r.Query.Name)
		assert.Equal(t, []timing.NodeID{timing.NodeID(fmt.Sprintf("M%d", i))}, r.Result.Nodes)
		assert.Equal(t, float64(i+1), *r.Result.Cost)
	}

	bad := results[n]
	assert.Nil(t, bad.Result)
	assert.True(t, timing.IsUnknownNode(bad.Err))
}

func TestRunConvergenceBatch_CachedEngine(t *testing.T) {
	cached := algorithms.NewCachedEngine(algorithms.NewPathQueryEngine(fanInGraph(t, 2)))

	q := ConvergenceQuery{Sources: []timing.NodeID{"S1_a", "S1_b"}, Options: algorithms.DefaultCommonOptions()}
	results, err := RunConvergenceBatch(context.Background(), cached, []ConvergenceQuery{q, q, q, q}, 0)
	require.NoError(t, err)

	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, 2.0, *r.Result.Cost)
	}
	assert.Equal(t, 2, cached.Len())
}

func TestRunConvergenceBatch_Empty(t *testing.T) {
	engine := algorithms.NewPathQueryEngine(fanInGraph(t, 1))

	results, err := RunConvergenceBatch(context.Background(), engine, nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunConvergenceBatch_Cancelled(t *testing.T) {
	engine := algorithms.NewPathQueryEngine(fanInGraph(t, 3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queries := []ConvergenceQuery{
		{Sources: []timing.NodeID{"S0_a"}, Options: algorithms.DefaultCommonOptions()},
		{Sources: []timing.NodeID{"S1_a"}, Options: algorithms.DefaultCommonOptions()},
	}
	results, err := RunConvergenceBatch(ctx, engine, queries, 2)
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, errors.Is(r.Err, context.Canceled))
	}
}

type panickyQuerier struct{}

func (panickyQuerier) EarliestCommonNodesContext(context.Context, []timing.NodeID, algorithms.CommonOptions) (*algorithms.CommonResult, error) {
	panic("boom")
}

func TestRunConvergenceBatch_PanicBecomesError(t *testing.T) {
	results, err := RunConvergenceBatch(context.Background(), panickyQuerier{}, []ConvergenceQuery{{Name: "p"}}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "panicked")
}
