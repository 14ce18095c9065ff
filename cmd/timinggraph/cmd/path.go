package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Show the minimum-delay path between two pins",
	Long: `Show the minimum-delay path from one pin to another, one arc per
line. Of several parallel arcs the smallest is used. Fails when the target
is unreachable.

Examples:
  timinggraph -g tile.yaml path A/O D/I`,
	Args: cobra.ExactArgs(2),
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}

	res, err := newEngine(g).DelayPathContext(cmd.Context(), timing.NodeID(args[0]), timing.NodeID(args[1]))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "Minimum Delay Path")
	printField(w, "Delay", renderDelay(res.Delay))
	printField(w, "Hops", itoa(res.Hops()))
	fmt.Fprintln(w)
	for _, arc := range res.Arcs {
		fmt.Fprintf(w, "  %s -> %s  %s  %s\n",
			renderNode(arc.From), renderNode(arc.To), renderDelay(arc.Delay), mutedStyle.Render(arcLabel(arc)))
	}
	return nil
}

func arcLabel(e timing.Edge) string {
	if e.Cell == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + " " + e.Cell
}
