package scale

import (
	"math"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	mmscale "github.com/aclements/go-moremath/scale"
)

// LabelSide places graduation labels on one side of a straight scale
type LabelSide int

const (
	LabelLeft LabelSide = iota
	LabelRight
)

// labelGap is the horizontal distance between a tick and its label
const labelGap = 20.0

// Straight is a scale drawn as a segment, with a linear or logarithmic
// value mapping between StartValue at Start and EndValue at End
type Straight struct {
	Base
	Side LabelSide
}

var _ Scale = (*Straight)(nil)

// NewStraight creates a straight scale; call BuildScale before drawing it
func NewStraight(cfg Config) *Straight {
	s := &Straight{Base: newBase(cfg)}
	s.shape = s
	s.updateDirection()
	return s
}

// BuildScale computes the top view graduations and copies them to the
// detail view
func (s *Straight) BuildScale() {
	s.updateDirection()
	s.BuildGraduations(TopView)
	s.copyTopGraduations()
}

// mapping returns the value to fraction mapping of the scale.
// Logarithmic scales map the logarithms of the values.
func (s *Straight) mapping() mmscale.Linear {
	if s.Log {
		return mmscale.Linear{Min: math.Log(s.StartValue), Max: math.Log(s.EndValue)}
	}
	return mmscale.Linear{Min: s.StartValue, Max: s.EndValue}
}

// Fraction returns the position of value along the scale, 0 at Start and 1 at End
func (s *Straight) Fraction(value float64) float64 {
	if s.Log {
		return s.mapping().Map(math.Log(value))
	}
	return s.mapping().Map(value)
}

// valueAtFraction inverts Fraction
func (s *Straight) valueAtFraction(f float64) float64 {
	v := s.mapping().Unmap(f)
	if s.Log {
		return math.Exp(v)
	}
	return v
}

// PointAt implements Scale
func (s *Straight) PointAt(value float64, space Space) (geom.Point, bool) {
	start, end, err := s.ends(space)
	if err != nil {
		return geom.Point{}, false
	}
	f := s.Fraction(value)
	p := geom.Pt(start.X, start.Y-f*(start.Y-end.Y))
	return p, p.IsFinite()
}

// ValueAt maps a point of the scale line back to a value.
// The fraction is read along x, or along y when the scale is vertical; a
// scale with coincident ends yields StartValue.
func (s *Straight) ValueAt(p geom.Point, space Space) (float64, error) {
	start, end, err := s.ends(space)
	if err != nil {
		return 0, err
	}
	dir := end.Sub(start)
	pv := p.Sub(start)

	var f float64
	switch {
	case dir.X != 0:
		f = pv.X / dir.X
	case dir.Y != 0:
		f = pv.Y / dir.Y
	default:
		return s.StartValue, nil
	}
	return s.valueAtFraction(f), nil
}

// Projection returns the orthogonal projection of p onto the scale line
func (s *Straight) Projection(p geom.Point, space Space) (geom.Point, error) {
	start, end, err := s.ends(space)
	if err != nil {
		return geom.Point{}, err
	}
	dir := end.Sub(start)
	lengthSq := dir.Dot(dir)
	if lengthSq == 0 {
		return start, nil
	}
	return start.Add(dir.Mul(p.Sub(start).Dot(dir) / lengthSq)), nil
}

// Line returns the supporting line of the scale in a space
func (s *Straight) Line(space Space) (geom.Line, error) {
	start, end, err := s.ends(space)
	if err != nil {
		return geom.Line{}, err
	}
	return geom.Ln(start, end), nil
}

// IntersectLine returns where l crosses the supporting line of the scale
func (s *Straight) IntersectLine(l geom.Line, space Space) (geom.Point, bool) {
	line, err := s.Line(space)
	if err != nil {
		return geom.Point{}, false
	}
	return geom.Intersect(l, line)
}

// graduation builds a horizontal tick with its label beside it
func (s *Straight) graduation(value float64, space Space) (Graduation, bool) {
	value = round10(value)
	p, ok := s.PointAt(value, space)
	if !ok {
		return Graduation{}, false
	}

	text := FormatValue(value)
	size := s.measurer.Measure(text, LabelFontSize)

	tickStart := geom.Pt(p.X-TickLength, p.Y)
	labelX := tickStart.X - labelGap - size.Width/2
	if s.Side == LabelRight {
		labelX = tickStart.X + labelGap + size.Width/2
	}
	label := geom.Pt(labelX, tickStart.Y-size.Height/2)

	return Graduation{
		Value:     value,
		Point:     p,
		TickStart: geom.Pt(-TickLength, 0),
		TickEnd:   geom.Pt(TickLength, 0),
		Label:     label.Sub(p),
		Text:      text,
		TextSize:  size,
	}, true
}

// reappears reports whether a screen border crosses the scale at an
// in-range value
func (s *Straight) reappears(border geom.Line, space Space) bool {
	p, ok := s.IntersectLine(border, space)
	if !ok {
		return false
	}
	v, err := s.ValueAt(p, space)
	if err != nil {
		return false
	}
	return s.IsInsideBounds(v) && s.IsInsideScreen(p, space)
}

// Display implements Scale
func (s *Straight) Display(space Space) (Drawing, error) {
	if space == ZoomedView {
		s.centerZoomed()
	}

	start, end, err := s.ends(space)
	if err != nil {
		return Drawing{}, err
	}
	d := Drawing{Space: space, Line: &Stroke{From: start, To: end, Width: axisWidth}}

	marker := s.Screen(ZoomedView).Center()
	if space != ZoomedView {
		p, ok := s.PointAt(s.Value, space)
		if !ok {
			return Drawing{}, ErrNoPoint
		}
		marker = p
	}
	s.decorate(&d, space, marker)
	return d, nil
}

// centerZoomed translates the detail view so the current value sits at its centre
func (s *Straight) centerZoomed() {
	p, ok := s.PointAt(s.Value, ZoomedView)
	if !ok {
		return
	}
	s.Translate(s.Screen(ZoomedView).Center().Sub(p), ZoomedView)
	if len(s.grads[1].First.Graduations) == 0 {
		s.BuildGraduations(ZoomedView)
	}
}
