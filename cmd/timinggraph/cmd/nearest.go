package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-timing/pkg/algorithms"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var (
	nearestTargets []string
	nearestReverse bool
	nearestHops    bool
	nearestCutoff  float64
)

var nearestCmd = &cobra.Command{
	Use:   "nearest <pin>",
	Short: "Find the closest of a set of target pins",
	Long: `Find the target closest to pin, downstream by default or upstream
with --reverse.

Examples:
  timinggraph -g tile.yaml nearest A/O -t D/I -t E/I
  timinggraph -g tile.yaml nearest E/I -t A/O -t B/O --reverse --hops`,
	Args: cobra.ExactArgs(1),
	RunE: runNearest,
}

func init() {
	rootCmd.AddCommand(nearestCmd)

	nearestCmd.Flags().StringArrayVarP(&nearestTargets, "target", "t", nil,
		"target pin (repeatable)")
	nearestCmd.Flags().BoolVar(&nearestReverse, "reverse", false,
		"walk arcs backwards to find the nearest driver")
	nearestCmd.Flags().BoolVar(&nearestHops, "hops", false,
		"count arcs instead of summing delays")
	nearestCmd.Flags().Float64Var(&nearestCutoff, "cutoff", 0,
		"ignore targets farther than this")

	nearestCmd.MarkFlagRequired("target")
}

func runNearest(cmd *cobra.Command, args []string) error {
	opts := algorithms.NearestOptions{
		ConsiderDelay: !nearestHops,
		Reverse:       nearestReverse,
	}
	if cmd.Flags().Changed("cutoff") {
		opts.Cutoff = algorithms.Cutoff(nearestCutoff)
	}

	g, err := loadGraph()
	if err != nil {
		return err
	}

	res, err := newEngine(g).NearestTargetContext(cmd.Context(), timing.NodeID(args[0]), nodeIDs(nearestTargets), opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "Nearest Target")
	if !res.Found {
		fmt.Fprintln(w, mutedStyle.Render("  no target reachable"))
		return nil
	}
	printField(w, "Target", renderNode(res.Target))
	printField(w, metricTitle(opts.ConsiderDelay), renderDelay(res.Distance))
	printField(w, "Path", renderPath(res.Path))
	return nil
}

func metricTitle(considerDelay bool) string {
	if considerDelay {
		return "Delay"
	}
	return "Hops"
}
