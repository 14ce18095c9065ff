package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-timing/pkg/hdl"
)

var modulesCmd = &cobra.Command{
	Use:   "modules <root> <regex>",
	Short: "List HDL modules whose names match a pattern",
	Long: `Scan Verilog and SystemVerilog sources under root and print the
declared module names matching regex, one per line. Does not need --graph.

Examples:
  timinggraph modules ./Tile 'switch_matrix$'
  timinggraph modules top.v '^LUT'`,
	Args: cobra.ExactArgs(2),
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	names, err := hdl.FindModules(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
