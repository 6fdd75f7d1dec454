package cmd

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [nomogram]",
	Short: "Show the geometry of a nomogram",
	Long: `Show the supports of each scale in top view coordinates, the control
points of curved scales with the outcome of their fit, and the index line.

Examples:
  nomo inspect addition
  nomo inspect second-degree --slope chord`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addDefinitionFlags(inspectCmd)
}

func pt(p geom.Point) string {
	return fmt.Sprintf("(%s, %s)", formatValue(p.X), formatValue(p.Y))
}

func inspectScale(w io.Writer, s scale.Scale) {
	b := s.Core()
	mapping := "linear"
	if b.Log {
		mapping = "log"
	}
	fmt.Fprintf(w, "  [%d] %s, %s, %s mapping\n", b.Index, b.Name, b.Equation, mapping)
	fmt.Fprintf(w, "      range     [%s, %s], factor %s, exponent %s\n",
		formatValue(b.StartValue), formatValue(b.EndValue), formatValue(b.Factor), formatValue(b.Exponent))

	switch s := s.(type) {
	case *scale.Straight:
		if l, err := s.Line(scale.TopView); err == nil {
			fmt.Fprintf(w, "      support   %s -> %s\n", pt(l.P0), pt(l.P1))
		}
	case *scale.Curved:
		c := s.Bezier(scale.TopView)
		fmt.Fprintf(w, "      bezier    %s %s %s %s\n", pt(c.P0), pt(c.C1), pt(c.C2), pt(c.P3))
		fmt.Fprintf(w, "      fit       %d iterations, converged %v, slope %s\n", s.Iterations, s.Converged, s.Slope)
	}
	if p, ok := s.PointAt(b.Value, scale.TopView); ok {
		fmt.Fprintf(w, "      value     %s at %s\n", formatValue(b.Value), pt(p))
	}
}

func printGeometry(w io.Writer, n *nomogram.Nomogram) {
	screen := n.Screen()
	fmt.Fprintf(w, "  screen %sx%s\n", formatValue(screen.Width), formatValue(screen.Height))
	for _, s := range n.Scales() {
		inspectScale(w, s)
	}
	fmt.Fprintf(w, "  index line %s -> %s\n", pt(n.IndexLine.Start), pt(n.IndexLine.End))
}

func runInspect(cmd *cobra.Command, args []string) error {
	n, err := loadNomogram(args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	printHeader(w, n)
	printGeometry(w, n)
	return nil
}
