package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List input and output ports",
	Long: `List the graph's input ports (pins with no fanin) and output ports
(pins with no fanout), sorted by name.`,
	Args: cobra.NoArgs,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}

	printPins(cmd, "Input Ports", g.InputPorts())
	fmt.Fprintln(cmd.OutOrStdout())
	printPins(cmd, "Output Ports", g.OutputPorts())
	return nil
}
