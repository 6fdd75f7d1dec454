package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rangeLower float64
	rangeUpper float64
)

var rangeCmd = &cobra.Command{
	Use:   "range [nomogram] <variable>",
	Short: "Change the range of an input scale",
	Long: `Change the start (--lower) or the end (--upper) of an input scale, rebuild
the nomogram and print the new ranges. Output ranges follow the inputs.

Second degree nomograms keep both starts at 0; the end of C is always the
opposite of the end of B.

Examples:
  nomo range addition B --upper 20
  nomo range second-degree C --upper -30`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRange,
}

func init() {
	rootCmd.AddCommand(rangeCmd)
	addDefinitionFlags(rangeCmd)

	rangeCmd.Flags().Float64Var(&rangeLower, "lower", 0, "new start value")
	rangeCmd.Flags().Float64Var(&rangeUpper, "upper", 0, "new end value")
}

func runRange(cmd *cobra.Command, args []string) error {
	name := args[len(args)-1]
	n, err := loadNomogram(args[:len(args)-1])
	if err != nil {
		return err
	}
	s, err := lookupScale(n, name)
	if err != nil {
		return err
	}

	var lower, upper *float64
	if cmd.Flags().Changed("lower") {
		lower = &rangeLower
	}
	if cmd.Flags().Changed("upper") {
		upper = &rangeUpper
	}
	if lower != nil || upper != nil {
		if err := n.UpdateRange(s, lower, upper); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	printHeader(w, n)
	printValues(w, n)
	return nil
}
