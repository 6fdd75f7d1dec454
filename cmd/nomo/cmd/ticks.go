package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/spf13/cobra"
)

var (
	ticksVar    string
	ticksZoomed bool
)

var ticksCmd = &cobra.Command{
	Use:   "ticks [nomogram]",
	Short: "Print the graduations of each scale",
	Long: `Print the labelled (first order) and unlabelled (second order) graduations
of each scale as laid out on the configured screen.

Examples:
  nomo ticks multiplication
  nomo ticks second-degree --var X
  nomo ticks bmi --var Height --zoomed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTicks,
}

func init() {
	rootCmd.AddCommand(ticksCmd)
	addDefinitionFlags(ticksCmd)

	ticksCmd.Flags().StringVar(&ticksVar, "var", "", "only print this variable")
	ticksCmd.Flags().BoolVar(&ticksZoomed, "zoomed", false, "print the detail view graduations around the current value")
}

func printOrder(w io.Writer, label string, o scale.Order) {
	values := o.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	fmt.Fprintf(w, "    %-7s step %-8s %3d: %s\n", label, formatValue(o.Step), len(values), strings.Join(parts, " "))
}

func runTicks(cmd *cobra.Command, args []string) error {
	n, err := loadNomogram(args)
	if err != nil {
		return err
	}

	scales := n.Scales()
	if ticksVar != "" {
		s, err := lookupScale(n, ticksVar)
		if err != nil {
			return err
		}
		scales = []scale.Scale{s}
	}

	space := scale.TopView
	if ticksZoomed {
		space = scale.ZoomedView
	}

	w := cmd.OutOrStdout()
	printHeader(w, n)
	for _, s := range scales {
		// Display builds the detail view graduations on first use
		if _, err := s.Display(space); err != nil {
			return fmt.Errorf("%s: %w", s.Core().Name, err)
		}
		b := s.Core()
		fmt.Fprintf(w, "  %s (%s)\n", b.Name, space)
		orders := b.Graduations(space)
		printOrder(w, "first", orders.First)
		printOrder(w, "second", orders.Second)
	}
	return nil
}
