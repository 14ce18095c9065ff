package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-timing/pkg/algorithms"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var (
	fanoutHops  int
	fanoutTrace bool
)

var fanoutCmd = &cobra.Command{
	Use:   "fanout <pin>",
	Short: "Follow the first fanout of a pin for a number of hops",
	Long: `Starting at pin, repeatedly step to the first successor in arc
declaration order. The walk stops early at a pin with no fanout.

Examples:
  timinggraph -g tile.yaml fanout LUT4AB/J2END_AB_END2 --hops 3
  timinggraph -g tile.yaml fanout LUT4AB/J2END_AB_END2 --hops 3 --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runFanout,
}

func init() {
	rootCmd.AddCommand(fanoutCmd)

	fanoutCmd.Flags().IntVarP(&fanoutHops, "hops", "n", 1,
		"number of hops to follow")
	fanoutCmd.Flags().BoolVar(&fanoutTrace, "trace", false,
		"print every pin visited")
}

func runFanout(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}

	tracer := algorithms.NewFanoutTracer(g,
		algorithms.WithTracerLogger(logger),
		algorithms.WithTracerMetrics(registry),
	)
	start := timing.NodeID(args[0])

	w := cmd.OutOrStdout()
	if fanoutTrace {
		walk, err := tracer.Trace(start, fanoutHops)
		if err != nil {
			return err
		}
		printTitle(w, "Fanout Trace")
		printField(w, "Hops taken", itoa(len(walk)-1))
		printField(w, "Path", renderPath(walk))
		return nil
	}

	end, err := tracer.Follow(start, fanoutHops)
	if err != nil {
		return err
	}
	printTitle(w, "Fanout")
	printField(w, "Start", renderNode(start))
	printField(w, "End", renderNode(end))
	return nil
}
