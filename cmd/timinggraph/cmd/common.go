package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-timing/pkg/algorithms"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var (
	commonSources []string
	commonMode    string
	commonHops    bool
	commonCutoff  float64
)

var commonCmd = &cobra.Command{
	Use:   "common",
	Short: "Find the earliest nodes reachable from every source",
	Long: `Find the pins reachable from all given sources that minimize the
aggregate distance: the worst distance from any source in max mode, the
total in sum mode.

Examples:
  timinggraph -g tile.yaml common -s A/O -s B/O
  timinggraph -g tile.yaml common -s A/O -s B/O --mode sum
  timinggraph -g tile.yaml common -s A/O -s B/O --hops --cutoff 4`,
	Args: cobra.NoArgs,
	RunE: runCommon,
}

func init() {
	rootCmd.AddCommand(commonCmd)

	commonCmd.Flags().StringArrayVarP(&commonSources, "source", "s", nil,
		"source pin (repeatable)")
	commonCmd.Flags().StringVarP(&commonMode, "mode", "m", string(algorithms.ModeMax),
		"cost aggregation: max or sum")
	commonCmd.Flags().BoolVar(&commonHops, "hops", false,
		"count arcs instead of summing delays")
	commonCmd.Flags().Float64Var(&commonCutoff, "cutoff", 0,
		"ignore pins farther than this from a source")

	commonCmd.MarkFlagRequired("source")
}

func runCommon(cmd *cobra.Command, args []string) error {
	mode, err := algorithms.ParseMode(commonMode)
	if err != nil {
		return err
	}
	opts := algorithms.CommonOptions{
		Mode:          mode,
		ConsiderDelay: !commonHops,
	}
	if cmd.Flags().Changed("cutoff") {
		opts.Cutoff = algorithms.Cutoff(commonCutoff)
	}

	g, err := loadGraph()
	if err != nil {
		return err
	}

	sources := nodeIDs(commonSources)
	res, err := newEngine(g).EarliestCommonNodesContext(cmd.Context(), sources, opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "Earliest Common Nodes")
	printField(w, "Mode", string(opts.Mode))
	printField(w, "Metric", metricName(opts.ConsiderDelay))
	if !res.Found() {
		fmt.Fprintln(w, mutedStyle.Render("  no node is reachable from every source"))
		return nil
	}
	printField(w, "Cost", renderDelay(*res.Cost))

	listed := uniqueIDs(sources)
	for _, n := range res.Nodes {
		fmt.Fprintf(w, "\n  %s\n", renderNode(n))
		for _, s := range listed {
			d, ok := res.Distances[s][n]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "    from %s: %s\n", renderNode(s), renderDelay(d))
		}
	}
	return nil
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(ids []timing.NodeID) []timing.NodeID {
	seen := make(map[timing.NodeID]bool, len(ids))
	out := make([]timing.NodeID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func metricName(considerDelay bool) string {
	if considerDelay {
		return "delay"
	}
	return "hops"
}

// noPins is printed for empty pin listings.
const noPins = "(none)"

func printPins(cmd *cobra.Command, title string, ids []timing.NodeID) {
	w := cmd.OutOrStdout()
	printTitle(w, fmt.Sprintf("%s (%d)", title, len(ids)))
	if len(ids) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  "+noPins))
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", renderNode(id))
	}
}
