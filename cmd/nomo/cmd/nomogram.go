package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/nomograph/pkg/definition"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/spf13/cobra"
)

var (
	equation string
	ranges   []string
)

// addDefinitionFlags registers the flags that build a nomogram from an
// equation instead of a catalog entry or a file
func addDefinitionFlags(c *cobra.Command) {
	c.Flags().StringVarP(&equation, "equation", "e", "",
		`equation of a custom nomogram, e.g. "C = A + 2B" or "BMI = Mass / Height^2"`)
	c.Flags().StringArrayVar(&ranges, "range", nil,
		"input range as NAME=START:END, repeatable")
}

// parseAssignment splits NAME=VALUE
func parseAssignment(s string) (string, string, error) {
	i := strings.Index(s, "=")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("expected NAME=VALUE, got %q", s)
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), nil
}

// parseRange parses NAME=START:END
func parseRange(s string) (string, nomogram.Range, error) {
	name, value, err := parseAssignment(s)
	if err != nil {
		return "", nomogram.Range{}, err
	}
	bounds := strings.SplitN(value, ":", 2)
	if len(bounds) != 2 {
		return "", nomogram.Range{}, fmt.Errorf("range of %s: expected START:END, got %q", name, value)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64)
	if err != nil {
		return "", nomogram.Range{}, fmt.Errorf("range of %s: %w", name, err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(bounds[1]), 64)
	if err != nil {
		return "", nomogram.Range{}, fmt.Errorf("range of %s: %w", name, err)
	}
	return name, nomogram.Range{Start: start, End: end}, nil
}

// resolveDefinition returns the definition named by args, by --equation or
// by the nomogram config key, with the --range overrides applied
func resolveDefinition(args []string) (nomogram.Definition, error) {
	var (
		def nomogram.Definition
		err error
	)
	switch {
	case equation != "":
		if len(args) > 0 {
			return def, fmt.Errorf("--equation and %q are exclusive", args[0])
		}
		def, err = definition.ParseEquation(equation)
	case len(args) > 0:
		def, err = definition.Resolve(args[0])
	default:
		def, err = definition.Resolve(conf.Nomogram)
	}
	if err != nil {
		return def, err
	}

	for _, r := range ranges {
		name, rng, err := parseRange(r)
		if err != nil {
			return def, err
		}
		switch name {
		case def.Input1.Name:
			def.Input1.Range = &rng
		case def.Input2.Name:
			def.Input2.Range = &rng
		case def.Output.Name:
			return def, fmt.Errorf("the range of %s follows the inputs", name)
		default:
			return def, fmt.Errorf("%q has no variable %s", def.Name, name)
		}
	}
	if err := def.Validate(); err != nil {
		return def, err
	}
	return def, nil
}

// buildNomogram constructs and lays out def with the configured surfaces
func buildNomogram(def nomogram.Definition) (*nomogram.Nomogram, error) {
	n, err := nomogram.New(def,
		nomogram.WithLogger(log),
		nomogram.WithCurveFit(conf.SlopeMode(), conf.Curve.MaxIterations),
		nomogram.WithZoomedScreen(conf.Zoomed.Geom()),
	)
	if err != nil {
		return nil, err
	}
	if err := n.Init(conf.Screen.Geom()); err != nil {
		return nil, err
	}
	return n, nil
}

func loadNomogram(args []string) (*nomogram.Nomogram, error) {
	def, err := resolveDefinition(args)
	if err != nil {
		return nil, err
	}
	return buildNomogram(def)
}

// lookupScale finds a scale by variable name
func lookupScale(n *nomogram.Nomogram, name string) (scale.Scale, error) {
	s, ok := n.ScaleByName(name)
	if !ok {
		var names []string
		for _, s := range n.Scales() {
			names = append(names, s.Core().Name)
		}
		return nil, fmt.Errorf("no variable %q, expected one of %s", name, strings.Join(names, ", "))
	}
	return s, nil
}

func formatValue(v float64) string {
	return scale.FormatValue(scale.Round(v, 6))
}

func withUnit(s, unit string) string {
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// printHeader prints the nomogram name and its equation
func printHeader(w io.Writer, n *nomogram.Nomogram) {
	fmt.Fprintf(w, "%s\n", n.Name)
	fmt.Fprintf(w, "  %s\n\n", nomogram.EquationLabel(n.Definition))
}

// printValues prints one line per scale, left to right
func printValues(w io.Writer, n *nomogram.Nomogram) {
	for _, s := range n.Scales() {
		b := s.Core()
		mark := ""
		if b.Fixed {
			mark = "  (fixed)"
		}
		fmt.Fprintf(w, "  %-8s = %-14s [%s, %s]%s\n",
			b.Name, withUnit(formatValue(b.Value), b.Unit),
			formatValue(b.StartValue), formatValue(b.EndValue), mark)
	}
}
