package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-timing/pkg/algorithms"
	"github.com/dd0wney/cluso-timing/pkg/parallel"
	"github.com/dd0wney/cluso-timing/pkg/validation"
)

var (
	batchWorkers int
	batchCache   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <queries.yaml>",
	Short: "Run many convergence queries concurrently",
	Long: `Run a file of earliest-common-node queries against one graph using a
worker pool. Each query reports its own result; the command fails if any
query failed.

Query file:
  queries:
    - name: ab
      sources: [A/O, B/O]
      mode: sum             # max (default) or sum
      consider_delay: false # count hops
      cutoff: 10

Examples:
  timinggraph -g tile.yaml batch queries.yaml --workers 8 --cache`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0,
		"worker count (default from config, then GOMAXPROCS)")
	batchCmd.Flags().BoolVar(&batchCache, "cache", false,
		"share single-source distances between queries")
}

func runBatch(cmd *cobra.Command, args []string) error {
	queries, err := readBatch(args[0])
	if err != nil {
		return err
	}

	g, err := loadGraph()
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = batchWorkers
	}
	useCache := cfg.CacheDistances || batchCache

	var engine parallel.ConvergenceQuerier = newEngine(g)
	if useCache {
		engine = algorithms.NewCachedEngine(newEngine(g))
	}

	results, err := parallel.RunConvergenceBatch(cmd.Context(), engine, queries, workers,
		parallel.WithPoolLogger(logger))
	if err != nil {
		return err
	}

	failed := printBatch(cmd.OutOrStdout(), results)
	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(results))
	}
	return nil
}

// readBatch decodes and validates a query file.
func readBatch(path string) ([]parallel.ConvergenceQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var batch validation.ConvergenceBatch
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&batch); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := validation.ValidateConvergenceBatch(&batch); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	queries := make([]parallel.ConvergenceQuery, len(batch.Queries))
	for i, req := range batch.Queries {
		q, err := toQuery(i, req)
		if err != nil {
			return nil, fmt.Errorf("%s: queries[%d]: %w", path, i, err)
		}
		queries[i] = q
	}
	return queries, nil
}

func toQuery(i int, req validation.ConvergenceRequest) (parallel.ConvergenceQuery, error) {
	mode, err := algorithms.ParseMode(req.Mode)
	if err != nil {
		return parallel.ConvergenceQuery{}, err
	}

	opts := algorithms.CommonOptions{
		Mode:          mode,
		ConsiderDelay: true,
		Cutoff:        req.Cutoff,
	}
	if req.ConsiderDelay != nil {
		opts.ConsiderDelay = *req.ConsiderDelay
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("#%d", i)
	}
	return parallel.ConvergenceQuery{
		Name:    name,
		Sources: nodeIDs(req.Sources),
		Options: opts,
	}, nil
}

func printBatch(w io.Writer, results []parallel.ConvergenceResult) (failed int) {
	printTitle(w, fmt.Sprintf("Convergence Batch (%d queries)", len(results)))
	for _, r := range results {
		label := labelStyle.Render(r.Query.Name)
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "  %s %s %v\n", label, errorStyle.Render("FAIL"), r.Err)
		case !r.Result.Found():
			fmt.Fprintf(w, "  %s %s\n", label, mutedStyle.Render("no common node"))
		default:
			nodes := make([]string, len(r.Result.Nodes))
			for i, n := range r.Result.Nodes {
				nodes[i] = renderNode(n)
			}
			fmt.Fprintf(w, "  %s %s  cost %s  %s\n",
				label, strings.Join(nodes, ", "), renderDelay(*r.Result.Cost),
				mutedStyle.Render(r.Duration.String()))
		}
	}
	fmt.Fprintf(w, "\n  %d ok, %d failed\n", len(results)-failed, failed)
	return failed
}
