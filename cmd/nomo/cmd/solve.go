package cmd

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/spf13/cobra"
)

var (
	setValues []string
	fixName   string
)

var solveCmd = &cobra.Command{
	Use:   "solve [nomogram]",
	Short: "Set variable values and print the solved nomogram",
	Long: `Apply value edits in order, the way a drag on the viewer does, and print
the three values.

Each edit recomputes the variable that is neither edited nor fixed. With
--fix the named variable keeps its value throughout. Without it, the
variable absent from --set is the one solved for.

Examples:
  nomo solve addition --set A=2 --set B=3
  nomo solve bmi --set Mass=80 --set Height=1.8
  nomo solve second-degree --fix B --set C=-6`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	addDefinitionFlags(solveCmd)

	solveCmd.Flags().StringArrayVarP(&setValues, "set", "s", nil,
		"set a value as NAME=VALUE, repeatable")
	solveCmd.Flags().StringVarP(&fixName, "fix", "f", "",
		"variable that keeps its value")
}

type assignment struct {
	scale scale.Scale
	value float64
}

func parseAssignments(n *nomogram.Nomogram) ([]assignment, error) {
	var out []assignment
	for _, s := range setValues {
		name, raw, err := parseAssignment(s)
		if err != nil {
			return nil, err
		}
		sc, err := lookupScale(n, name)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("value of %s: %w", name, err)
		}
		out = append(out, assignment{scale: sc, value: v})
	}
	return out, nil
}

// solvedFor returns the scale to recompute when no scale is fixed by the
// user: the output unless it is being set, else the last scale not set
func solvedFor(n *nomogram.Nomogram, edits []assignment) scale.Scale {
	set := make(map[scale.Scale]bool)
	for _, e := range edits {
		set[e.scale] = true
	}
	if out, ok := n.Scale(scale.Output); ok && !set[out] {
		return out
	}
	var target scale.Scale
	for _, s := range n.Scales() {
		if !set[s] {
			target = s
		}
	}
	return target
}

func runSolve(cmd *cobra.Command, args []string) error {
	n, err := loadNomogram(args)
	if err != nil {
		return err
	}
	edits, err := parseAssignments(n)
	if err != nil {
		return err
	}

	if fixName != "" {
		fixed, err := lookupScale(n, fixName)
		if err != nil {
			return err
		}
		if err := n.Fix(fixed); err != nil {
			return err
		}
		for _, e := range edits {
			if err := n.UpdateVariableValue(e.scale, e.value); err != nil {
				return err
			}
		}
	} else {
		target := solvedFor(n, edits)
		if target == nil {
			return fmt.Errorf("every variable is set, nothing to solve for")
		}
		for _, e := range edits {
			// hold the third scale so that the edit lands on the target
			for _, s := range n.Scales() {
				if s != e.scale && s != target {
					if err := n.Fix(s); err != nil {
						return err
					}
				}
			}
			if err := n.UpdateVariableValue(e.scale, e.value); err != nil {
				return err
			}
		}
	}

	w := cmd.OutOrStdout()
	printHeader(w, n)
	printValues(w, n)
	return nil
}
