package nomogram

import (
	"fmt"
	"math"
	"sort"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
)

// config returns the scale configuration of one variable with its value
// at the middle of r
func (n *Nomogram) config(init Initializer, r Range, eq scale.Equation, start, end scale.Point, fixed bool) scale.Config {
	return scale.Config{
		Name:         init.Name,
		Unit:         init.Unit,
		Factor:       init.Factor,
		Exponent:     init.Exponent,
		Value:        (r.Start + r.End) / 2,
		StartValue:   r.Start,
		EndValue:     r.End,
		Start:        start,
		End:          end,
		Fixed:        fixed,
		Equation:     eq,
		Screen:       n.screen,
		ZoomedScreen: n.zoomed,
		Measurer:     n.measurer,
		Logger:       n.log,
	}
}

// addition lays out f(C) = fA·A + fB·B + k.
//
// A and B are first drawn on two parallel unit supports. The output support
// goes through the crossing of the index line (A start, B value matching A
// end) with the index line (A end, B start), which keeps every index line
// through C at a constant C value. The three supports are then stretched to
// the screen, the leftmost and rightmost on the padded borders.
func (n *Nomogram) addition(initA, initB, initC Initializer, k float64) ([]scale.Scale, error) {
	a := scale.NewStraight(n.config(initA, *initA.Range, scale.Input1,
		scale.Same(geom.Pt(0, 100)), scale.Same(geom.Pt(0, 0)), false))
	b := scale.NewStraight(n.config(initB, *initB.Range, scale.Input2,
		scale.Same(geom.Pt(100, 100)), scale.Same(geom.Pt(100, 0)), false))

	fA, fB, fC := a.Factor, b.Factor, initC.Factor
	bValue := (fA*a.EndValue + fB*b.StartValue - fA*a.StartValue) / fB
	bPoint, ok := b.PointAt(bValue, scale.TopView)
	if !ok {
		return nil, fmt.Errorf("%w: no point for %s = %v", ErrDegenerate, b.Name, bValue)
	}
	cross, ok := geom.Intersect(geom.Ln(a.End.Top, b.Start.Top), geom.Ln(a.Start.Top, bPoint))
	if !ok {
		return nil, fmt.Errorf("%w: output support", ErrDegenerate)
	}

	cfg := n.config(initC, Range{}, scale.Output,
		scale.Same(geom.Pt(cross.X, a.Start.Top.Y)), scale.Same(geom.Pt(cross.X, a.End.Top.Y)), true)
	cfg.StartValue = (fA*a.StartValue + fB*b.StartValue + k) / fC
	cfg.EndValue = (fA*a.EndValue + fB*b.EndValue + k) / fC
	cfg.Value = (fA*a.Value + fB*b.Value + k) / fC
	c := scale.NewStraight(cfg)

	straights := []*scale.Straight{a, b, c}
	if err := n.layout(straights); err != nil {
		return nil, err
	}
	scales := make([]scale.Scale, len(straights))
	for i, s := range straights {
		scales[i] = s
	}
	return scales, nil
}

// layout stretches parallel supports to the padded screen, keeping their
// relative horizontal positions, and numbers them left to right
func (n *Nomogram) layout(straights []*scale.Straight) error {
	padX, padY := n.screen.Width/9, n.screen.Height/9
	left, right := padX, n.screen.Width-padX
	bottom, top := n.screen.Height-padY, padY

	minX, maxX := math.Inf(1), math.Inf(-1)
	seen := make(map[float64]bool, len(straights))
	for _, s := range straights {
		x := s.Start.Top.X
		if seen[x] {
			return fmt.Errorf("%w: two supports at x = %v", ErrDegenerate, x)
		}
		seen[x] = true
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}

	for _, s := range straights {
		x := s.Start.Top.X
		newX := left + (x-minX)/(maxX-minX)*(right-left)
		s.Start = scale.Same(geom.Pt(newX, bottom))
		s.End = scale.Same(geom.Pt(newX, top))
		switch x {
		case minX:
			s.Index = 0
		case maxX:
			s.Index = 2
		default:
			s.Index = 1
		}
		s.BuildScale()
	}
	sort.SliceStable(straights, func(i, j int) bool { return straights[i].Index < straights[j].Index })
	return nil
}

// multiplication lays out C^eC = k·fA·A^eA·fB·B^eB / fC as the addition
// of logarithms, then restores the value ranges on logarithmic scales
func (n *Nomogram) multiplication() ([]scale.Scale, error) {
	a, b, c := n.Input1, n.Input2, n.Output

	logA := Initializer{Name: a.Name, Unit: a.Unit, Factor: a.Exponent, Exponent: 1,
		Range: &Range{Start: math.Log(a.Range.Start), End: math.Log(a.Range.End)}}
	logB := Initializer{Name: b.Name, Unit: b.Unit, Factor: b.Exponent, Exponent: 1,
		Range: &Range{Start: math.Log(b.Range.Start), End: math.Log(b.Range.End)}}
	logC := Initializer{Name: c.Name, Unit: c.Unit, Factor: c.Exponent, Exponent: 1}
	k := math.Log(n.Constant * a.Factor * b.Factor / c.Factor)

	scales, err := n.addition(logA, logB, logC, k)
	if err != nil {
		return nil, err
	}

	for _, s := range scales {
		core := s.Core()
		switch core.Equation {
		case scale.Input1:
			core.StartValue, core.EndValue = a.Range.Start, a.Range.End
			core.Factor, core.Exponent = a.Factor, a.Exponent
		case scale.Input2:
			core.StartValue, core.EndValue = b.Range.Start, b.Range.End
			core.Factor, core.Exponent = b.Factor, b.Exponent
		case scale.Output:
			core.StartValue = scale.Round(math.Exp(core.StartValue), 10)
			core.EndValue = scale.Round(math.Exp(core.EndValue), 10)
			core.Factor, core.Exponent = c.Factor, c.Exponent
		}
		core.Value = math.Exp(core.Value)
		core.Log = true
		s.BuildScale()
	}
	return scales, nil
}

// MaxSecondDegreeEnd bounds |C| and |B| on second degree nomograms; the
// Bézier fit degrades past it
const MaxSecondDegreeEnd = 60.0

// secondDegree lays out X² + BX + C = 0 with C on the left, B on the right
// and the curved X scale between them
func (n *Nomogram) secondDegree() ([]scale.Scale, error) {
	padX, padY := n.screen.Width/9, n.screen.Height/9
	bottom, top := n.screen.Height-padY, padY

	unit := func(init Initializer) Initializer {
		init.Factor, init.Exponent = 1, 1
		return init
	}

	c := scale.NewStraight(n.config(unit(n.Input1), *n.Input1.Range, scale.Input1,
		scale.SameWithAux(geom.Pt(padX, bottom)), scale.SameWithAux(geom.Pt(padX, top)), false))
	c.Index = 0
	c.BuildScale()

	right := n.screen.Width - padX
	b := scale.NewStraight(n.config(unit(n.Input2), *n.Input2.Range, scale.Input2,
		scale.SameWithAux(geom.Pt(right, bottom)), scale.SameWithAux(geom.Pt(right, top)), false))
	b.Index = 2
	b.BuildScale()

	cfg := n.config(unit(n.Output), Range{}, scale.Output, scale.Point{}, scale.Point{}, true)
	cfg.Value = scale.NegativeRoot(c.Value, b.Value)
	x := scale.NewCurved(c, b, cfg)
	x.Slope = n.slope
	x.MaxIterations = n.maxIterations
	x.Index = 1
	x.BuildScale()

	return []scale.Scale{c, x, b}, nil
}
