package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var instanceCmd = &cobra.Command{
	Use:   "instance [name]",
	Short: "List cell instances or show one instance's arcs",
	Long: `Without a name, list every cell instance that owns an arc together
with its arc count. With a name, show the instance's IOPATH input and output
pins, paired in arc order, followed by all of its arcs.

Examples:
  timinggraph -g tile.yaml instance
  timinggraph -g tile.yaml instance Inst_LUT4AB`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstance,
}

func init() {
	rootCmd.AddCommand(instanceCmd)
}

func runInstance(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(args) == 0 {
		instances := g.Instances()
		printTitle(w, fmt.Sprintf("Cell Instances (%d)", len(instances)))
		if len(instances) == 0 {
			fmt.Fprintln(w, mutedStyle.Render("  "+noPins))
			return nil
		}
		for _, inst := range instances {
			arcs, _ := g.InstanceArcs(inst)
			fmt.Fprintf(w, "  %s  %s\n", nodeStyle.Render(inst), mutedStyle.Render(itoa(len(arcs))+" arcs"))
		}
		return nil
	}

	name := args[0]
	arcs, err := g.InstanceArcs(name)
	if err != nil {
		return err
	}
	inputs, outputs := g.InstanceIOPins(name)

	printTitle(w, "Cell Instance "+name)
	printField(w, "Arcs", itoa(len(arcs)))
	printField(w, "IO paths", itoa(len(inputs)))
	fmt.Fprintln(w)
	for i := range inputs {
		fmt.Fprintf(w, "  %s -> %s\n", nodeStyle.Render(inputs[i]), nodeStyle.Render(outputs[i]))
	}
	fmt.Fprintln(w)
	for _, arc := range arcs {
		fmt.Fprintf(w, "  %s -> %s  %s  %s\n",
			renderNode(arc.From), renderNode(arc.To), renderDelay(arc.Delay), mutedStyle.Render(arcLabel(arc)))
	}
	return nil
}
