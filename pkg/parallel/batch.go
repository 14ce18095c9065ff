package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dd0wney/cluso-timing/pkg/algorithms"
	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/timing"
	"github.com/dd0wney/cluso-timing/pkg/validation"
)

// ConvergenceQuerier answers earliest-common-node queries. Both
// algorithms.PathQueryEngine and algorithms.CachedEngine satisfy it.
type ConvergenceQuerier interface {
	EarliestCommonNodesContext(ctx context.Context, sources []timing.NodeID, opts algorithms.CommonOptions) (*algorithms.CommonResult, error)
}

// ConvergenceQuery is one entry of a batch.
type ConvergenceQuery struct {
	Name    string
	Sources []timing.NodeID
	Options algorithms.CommonOptions
}

// ConvergenceResult pairs a query with its outcome.
type ConvergenceResult struct {
	Query    ConvergenceQuery
	Result   *algorithms.CommonResult
	Err      error
	Duration time.Duration
}

// RunConvergenceBatch runs independent convergence queries concurrently
// against one frozen graph. Results come back in query order and each
// carries its own error; one failing query does not stop the others. Queries
// not yet started when ctx is cancelled fail with ctx.Err().
//
// workers <= 0 uses GOMAXPROCS workers.
func RunConvergenceBatch(ctx context.Context, engine ConvergenceQuerier, queries []ConvergenceQuery, workers int, opts ...PoolOption) ([]ConvergenceResult, error) {
	workers = validation.DefaultOrInt(workers, runtime.GOMAXPROCS(0))
	workers = validation.ClampInt(workers, 1, max(len(queries), 1))

	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		return nil, err
	}

	timer := logging.StartTimer(pool.logger, "convergence batch finished",
		logging.Component("parallel"),
		logging.Count(len(queries)),
		logging.Int("workers", pool.Workers()),
	)

	results := make([]ConvergenceResult, len(queries))
	var wg sync.WaitGroup

	for i := range queries {
		results[i].Query = queries[i]
		wg.Add(1)
		submitted := pool.Submit(func() {
			defer wg.Done()
			results[i] = runOne(ctx, engine, queries[i])
		})
		if !submitted {
			wg.Done()
			results[i].Err = fmt.Errorf("query %d not submitted: pool closed", i)
		}
	}

	wg.Wait()
	pool.Close()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	timer.End(logging.Int("failed", failed))

	return results, nil
}

func runOne(ctx context.Context, engine ConvergenceQuerier, q ConvergenceQuery) (res ConvergenceResult) {
	res.Query = q
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Result = nil
			res.Err = fmt.Errorf("query %q panicked: %v", q.Name, r)
		}
		res.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Result, res.Err = engine.EarliestCommonNodesContext(ctx, q.Sources, q.Options)
	return res
}
