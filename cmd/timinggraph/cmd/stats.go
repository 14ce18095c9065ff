package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the graph",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}

	var (
		maxFanout   int
		widestPin   timing.NodeID
		parallelArc int
	)
	for _, id := range g.Nodes() {
		if d := g.OutDegree(id); d > maxFanout {
			maxFanout, widestPin = d, id
		}
		succ, _ := g.Successors(id)
		seen := make(map[timing.NodeID]bool, len(succ))
		for _, s := range succ {
			if seen[s.Node] {
				parallelArc++
			}
			seen[s.Node] = true
		}
	}

	w := cmd.OutOrStdout()
	printTitle(w, "Timing Graph")
	printField(w, "Source", graphPath)
	printField(w, "Divider", strconv.Quote(g.HierSep()))
	printField(w, "Nodes", itoa(g.NodeCount()))
	printField(w, "Arcs", itoa(g.EdgeCount()))
	printField(w, "Parallel", itoa(parallelArc))
	printField(w, "Interconnect", itoa(len(g.Interconnects())))
	printField(w, "IO paths", itoa(len(g.IOPaths())))
	printField(w, "Instances", itoa(len(g.Instances())))
	printField(w, "Inputs", itoa(len(g.InputPorts())))
	printField(w, "Outputs", itoa(len(g.OutputPorts())))
	if widestPin != "" {
		printField(w, "Max fanout", itoa(maxFanout)+" at "+renderNode(widestPin))
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
