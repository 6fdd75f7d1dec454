package nomogram

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/sirupsen/logrus"
)

// UpdateVariableValue sets the value of s and recomputes the free scale.
//
// The edit is rejected when the value is out of the range of s or when s
// is fixed. When the recomputed value of another free scale falls out of
// its range every value is restored and ErrCompanionOutOfBounds is returned.
func (n *Nomogram) UpdateVariableValue(s scale.Scale, value float64) error {
	if !n.owns(s) {
		return ErrUnknownScale
	}
	core := s.Core()
	if !core.IsInsideBounds(value) {
		return fmt.Errorf("%s = %v: %w", core.Name, value, ErrOutOfBounds)
	}
	if core.Fixed {
		return fmt.Errorf("%s: %w", core.Name, ErrFixed)
	}

	saved := make([]float64, len(n.scales))
	for i, o := range n.scales {
		saved[i] = o.Core().Value
	}
	restore := func() {
		for i, o := range n.scales {
			o.Core().Value = saved[i]
		}
	}

	core.Value = value
	for _, o := range n.scales {
		other := o.Core()
		if other.Equation == core.Equation || other.Fixed {
			continue
		}
		v := n.ComputeVariableValue(o)
		if !other.IsInsideBounds(v) {
			restore()
			return fmt.Errorf("%s = %v gives %s = %v: %w", core.Name, value, other.Name, v, ErrCompanionOutOfBounds)
		}
		other.Value = v
	}

	n.UpdateIndexLine()
	n.log.WithFields(logrus.Fields{"scale": core.Name, "value": value}).Debug("value updated")
	n.notifier.ReloadTopView()
	n.notifier.ReloadBottomView()
	return nil
}

// ComputeVariableValue solves the equation for the variable of s from the
// current values of the two others
func (n *Nomogram) ComputeVariableValue(s scale.Scale) float64 {
	a, b, c := n.value(scale.Input1), n.value(scale.Input2), n.value(scale.Output)
	if a == nil || b == nil || c == nil {
		return math.NaN()
	}
	eq := s.Core().Equation
	k := n.Constant

	switch n.Op {
	case Addition:
		switch eq {
		case scale.Output:
			return (a.Value*a.Factor + b.Value*b.Factor + k) / c.Factor
		case scale.Input1:
			return (c.Value*c.Factor - b.Value*b.Factor - k) / a.Factor
		case scale.Input2:
			return (c.Value*c.Factor - a.Value*a.Factor - k) / b.Factor
		}

	case Multiplication:
		logs := math.Log(a.Factor) + math.Log(b.Factor) + math.Log(k) - math.Log(c.Factor)
		switch eq {
		case scale.Output:
			return math.Exp((a.Exponent*math.Log(a.Value) + b.Exponent*math.Log(b.Value) + logs) / c.Exponent)
		case scale.Input1:
			return math.Exp((c.Exponent*math.Log(c.Value) - b.Exponent*math.Log(b.Value) - logs) / a.Exponent)
		case scale.Input2:
			return math.Exp((c.Exponent*math.Log(c.Value) - a.Exponent*math.Log(a.Value) - logs) / b.Exponent)
		}

	case SecondDegree:
		// input1 is C, input2 is B and the output is X
		cv, bv, x := a.Value, b.Value, c.Value
		switch eq {
		case scale.Input2:
			return -(cv + x*x) / x
		case scale.Input1:
			return -(x * x) - bv*x
		case scale.Output:
			return scale.NegativeRoot(cv, bv)
		}
	}
	return math.NaN()
}

// UpdateRange changes the start (lower) and/or end (upper) value of an input
// scale and rebuilds every scale. Output ranges are derived and cannot be
// edited. Second degree nomograms keep both starts at 0 and B's end at
// the opposite of C's end, within MaxSecondDegreeEnd.
func (n *Nomogram) UpdateRange(s scale.Scale, lower, upper *float64) error {
	if len(n.scales) == 0 {
		return ErrNotInitialized
	}
	if !n.owns(s) {
		return ErrUnknownScale
	}
	core := s.Core()
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%s: %w: %s", core.Name, ErrInvalidRange, fmt.Sprintf(format, args...))
	}

	if core.Equation == scale.Output {
		return invalid("the output range follows the inputs")
	}
	if lower != nil && *lower == core.EndValue {
		return invalid("start equals end %v", core.EndValue)
	}
	if upper != nil && *upper == core.StartValue {
		return invalid("end equals start %v", core.StartValue)
	}

	input1 := *n.Input1.Range
	input2 := *n.Input2.Range
	target, mirror := &input1, &input2
	if core.Equation == scale.Input2 {
		target, mirror = &input2, &input1
	}

	if n.Op == SecondDegree {
		if lower != nil {
			return invalid("the start of a second degree scale is 0")
		}
		if upper != nil {
			u := *upper
			if math.Abs(u) > MaxSecondDegreeEnd {
				return invalid("|%v| exceeds %v", u, MaxSecondDegreeEnd)
			}
			if core.Equation == scale.Input1 && u >= 0 {
				return invalid("the end of C must be negative")
			}
			if core.Equation == scale.Input2 && u <= 0 {
				return invalid("the end of B must be positive")
			}
			mirror.End = -u
		}
	}
	if lower != nil {
		target.Start = *lower
	}
	if upper != nil {
		target.End = *upper
	}
	if n.Op == Multiplication && (target.Start <= 0 || target.End <= 0) {
		return invalid("multiplication ranges must be positive")
	}

	prev1, prev2 := n.Input1.Range, n.Input2.Range
	n.Input1.Range, n.Input2.Range = &input1, &input2
	if err := n.Init(n.screen); err != nil {
		n.Input1.Range, n.Input2.Range = prev1, prev2
		if rerr := n.Init(n.screen); rerr != nil {
			n.log.WithError(rerr).Error("cannot restore the previous ranges")
		}
		return fmt.Errorf("%s: %w", core.Name, err)
	}

	n.log.WithFields(logrus.Fields{
		"scale": core.Name,
		"start": target.Start,
		"end":   target.End,
	}).Info("range updated")
	n.notifier.BuildView(n)
	n.notifier.ReloadTopView()
	n.notifier.ReloadBottomView()
	return nil
}
