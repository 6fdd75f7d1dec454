package scale

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/sirupsen/logrus"
)

// SlopeMode selects how the tangent used for the control points is chosen
type SlopeMode int

const (
	// SlopeLiteral evaluates getY(xe) - getY(xs)/xe - xs without grouping
	SlopeLiteral SlopeMode = iota
	// SlopeChord uses the slope of the chord between both fitted ends
	SlopeChord
)

// String returns the name used in configuration files
func (m SlopeMode) String() string {
	if m == SlopeChord {
		return "chord"
	}
	return "literal"
}

// ParseSlope parses "literal" or "chord"
func ParseSlope(s string) (SlopeMode, error) {
	switch strings.ToLower(s) {
	case "literal", "":
		return SlopeLiteral, nil
	case "chord":
		return SlopeChord, nil
	}
	return SlopeLiteral, fmt.Errorf("unknown slope mode %q", s)
}

const (
	// MaxFitIterations bounds the search for the Bézier end abscissa
	MaxFitIterations = 200

	fitStartAbscissa = 0.96
	fitStartDelta    = 0.1
	fitThreshold     = 0.01
	fitMaxAbscissa   = 0.999
)

// ErrNotFitted is returned by curved scales whose Bézier has not been computed
var ErrNotFitted = errors.New("scale: curve not fitted")

// Curved is the scale of the negative root X of X² + BX + C = 0.
// It is drawn as a cubic Bézier fitted on the true curve
// y = -(u + 1 + 1/(u - 1)), where u runs from 0 on the C scale to 1 on
// the B scale and y is measured in B units.
type Curved struct {
	Base

	C *Straight // left straight scale, input1
	B *Straight // right straight scale, input2

	// Slope and MaxIterations are read by BuildScale
	Slope         SlopeMode
	MaxIterations int

	// Iterations and Converged describe the last fit
	Iterations int
	Converged  bool

	control [2]Point
	fitted  bool
}

var _ Scale = (*Curved)(nil)

// NewCurved creates the curved scale backed by the c and b straight
// scales. Its ends and range are computed by BuildScale.
func NewCurved(c, b *Straight, cfg Config) *Curved {
	s := &Curved{
		Base:          newBase(cfg),
		C:             c,
		B:             b,
		MaxIterations: MaxFitIterations,
	}
	s.shape = s
	return s
}

// NegativeRoot returns the non positive root of x² + bx + c = 0
func NegativeRoot(c, b float64) float64 {
	d := math.Sqrt(b*b - 4*c)
	x1 := (-b + d) / 2
	if x1 <= 0 {
		return x1
	}
	return (-b - d) / 2
}

// BuildScale fits the curve and computes the top view graduations.
// The detail view graduations are built on first display.
func (s *Curved) BuildScale() {
	s.fit()
	s.updateDirection()
	s.BuildGraduations(TopView)
	s.grads[1] = Orders{}
	s.zoomLevel[1] = 1
}

func (s *Curved) scaleX() float64 {
	return s.B.Start.Top.X - s.C.Start.Top.X
}

func (s *Curved) scaleY() float64 {
	p0, _ := s.B.PointAt(0, TopView)
	p1, _ := s.B.PointAt(1, TopView)
	return p0.Y - p1.Y
}

func trueY(u float64) float64 {
	return -(u + 1 + 1/(u-1))
}

func derivative(u float64) float64 {
	return 1/((u-1)*(u-1)) - 1
}

// truePoint returns the top view point of the true curve at abscissa u
func (s *Curved) truePoint(u float64) geom.Point {
	start := s.C.Start.Top
	return geom.Pt(start.X+u*s.scaleX(), start.Y-trueY(u)*s.scaleY())
}

// tangentLine returns a line through the true curve at u, along its tangent
func (s *Curved) tangentLine(u float64) geom.Line {
	p := s.truePoint(u)
	return geom.Ln(p, geom.Pt(p.X+s.scaleX(), p.Y-derivative(u)*s.scaleY()))
}

// abscissaFromSlope returns the abscissa in [0, 1] where the true curve has the given slope
func abscissaFromSlope(slope float64) float64 {
	r := math.Sqrt(slope + 1)
	u := (slope + 1 + r) / (slope + 1)
	if u >= 0 && u <= 1 {
		return u
	}
	return (slope + 1 - r) / (slope + 1)
}

func (s *Curved) slope(xs, xe float64) float64 {
	if s.Slope == SlopeChord {
		return (trueY(xe) - trueY(xs)) / (xe - xs)
	}
	return trueY(xe) - trueY(xs)/xe - xs
}

// controlPoints approximates the true curve between xs and xe with the
// conic construction: the end tangents meet the tangent parallel to the
// chord at PR and PS, and the control points sit 4/3 of the way to them.
func (s *Curved) controlPoints(xs, xe float64) (geom.Point, geom.Point, bool) {
	p0 := s.truePoint(xs)
	p1 := s.truePoint(xe)
	tangent := s.tangentLine(abscissaFromSlope(s.slope(xs, xe)))

	pr, ok := geom.Intersect(s.tangentLine(xs), tangent)
	if !ok {
		return geom.Point{}, geom.Point{}, false
	}
	ps, ok := geom.Intersect(s.tangentLine(xe), tangent)
	if !ok {
		return geom.Point{}, geom.Point{}, false
	}
	return p0.Add(pr.Sub(p0).Mul(4.0 / 3)), p1.Add(ps.Sub(p1).Mul(4.0 / 3)), true
}

// fit searches the end abscissa so the curve ends on the segment joining
// the end points of C and B, then derives the value range from them
func (s *Curved) fit() {
	s.Start = Same(s.C.Start.Top)

	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = MaxFitIterations
	}
	target := geom.Ln(s.C.End.Top, s.B.End.Top)

	type candidate struct {
		xEnd     float64
		distance float64
	}
	best := candidate{xEnd: fitStartAbscissa, distance: math.Inf(1)}

	xEnd, delta := fitStartAbscissa, fitStartDelta
	s.Converged = false
	s.Iterations = 0
	for s.Iterations < maxIter {
		s.Iterations++
		s.setCurve(xEnd)

		p, found := s.IntersectBezier(target, TopView)
		if !found {
			// the curve stops short of the segment
			xEnd = math.Min(xEnd+delta, fitMaxAbscissa)
			delta /= 2
			continue
		}
		d := geom.Distance(p, s.End.Top)
		if d < best.distance {
			best = candidate{xEnd: xEnd, distance: d}
		}
		if d < fitThreshold {
			s.Converged = true
			break
		}
		xEnd -= delta
	}

	if !s.Converged {
		s.setCurve(best.xEnd)
		s.log.WithFields(logrus.Fields{
			"iterations": s.Iterations,
			"xEnd":       best.xEnd,
			"distance":   best.distance,
		}).Warn("curve fit did not converge")
	} else {
		s.log.WithFields(logrus.Fields{
			"iterations": s.Iterations,
			"xEnd":       xEnd,
		}).Debug("curve fitted")
	}

	s.StartValue = NegativeRoot(s.C.StartValue, s.B.StartValue)
	s.EndValue = NegativeRoot(s.C.EndValue, s.B.EndValue)
	s.fitted = true
}

// setCurve places the end and control points for the end abscissa xEnd
// in both views
func (s *Curved) setCurve(xEnd float64) {
	s.End = Same(s.truePoint(xEnd))
	c1, c2, ok := s.controlPoints(0, xEnd)
	if !ok {
		// degenerate tangents, fall back to a straight curve
		c1, c2 = s.Start.Top, s.End.Top
	}
	s.control = [2]Point{Same(c1), Same(c2)}
}

// Bezier returns the fitted curve in a space. Every space other than the
// top view uses the detail view curve.
func (s *Curved) Bezier(space Space) geom.Cubic {
	if space == TopView {
		return geom.Cubic{P0: s.Start.Top, C1: s.control[0].Top, C2: s.control[1].Top, P3: s.End.Top}
	}
	return geom.Cubic{P0: s.Start.Zoomed, C1: s.control[0].Zoomed, C2: s.control[1].Zoomed, P3: s.End.Zoomed}
}

// IntersectBezier returns the first point where the segment l crosses the curve
func (s *Curved) IntersectBezier(l geom.Line, space Space) (geom.Point, bool) {
	return s.Bezier(space).IntersectLine(l)
}

// lineSpace returns the space the backing straight scales are read in
func lineSpace(space Space) Space {
	if space == TopView {
		return TopView
	}
	return BezierAux
}

// PointAt implements Scale.
// The point of value v is where the line joining the end of C to the value
// -C.End/v - v of B crosses the curve, so that v² + Bv + C = 0 holds.
func (s *Curved) PointAt(value float64, space Space) (geom.Point, bool) {
	if value == 0 {
		if space == TopView {
			return s.Start.Top, true
		}
		return s.Start.Zoomed, true
	}

	valC := s.C.EndValue
	valB := -(valC / value) - value

	ls := lineSpace(space)
	pb, ok := s.B.PointAt(valB, ls)
	if !ok {
		return geom.Point{}, false
	}
	pc, ok := s.C.PointAt(valC, ls)
	if !ok {
		return geom.Point{}, false
	}
	return s.IntersectBezier(geom.Ln(pb, pc), space)
}

// ValueFromProjection returns the value of whichever of C and B is free
// so that the index line through the fixed one passes through p
func (s *Curved) ValueFromProjection(p geom.Point, space Space) (float64, error) {
	ls := lineSpace(space)
	pivot, free := s.C, s.B
	if !s.C.Fixed {
		pivot, free = s.B, s.C
	}

	anchor, ok := pivot.PointAt(pivot.Value, ls)
	if !ok {
		return 0, ErrNoPoint
	}
	axis, err := free.Line(ls)
	if err != nil {
		return 0, err
	}
	q, ok := geom.Intersect(geom.Ln(anchor, p), axis)
	if !ok {
		return 0, ErrNoPoint
	}
	return free.ValueAt(q, ls)
}

// graduation builds a tick perpendicular to the true curve, with the label
// three tick lengths away on the convex side
func (s *Curved) graduation(value float64, space Space) (Graduation, bool) {
	value = round10(value)
	p, ok := s.PointAt(value, space)
	if !ok {
		return Graduation{}, false
	}

	ls := lineSpace(space)
	cStart, err := s.C.Start.At(ls)
	if err != nil {
		return Graduation{}, false
	}
	bStart, err := s.B.Start.At(ls)
	if err != nil {
		return Graduation{}, false
	}
	b0, ok0 := s.B.PointAt(0, ls)
	b1, ok1 := s.B.PointAt(1, ls)
	if !ok0 || !ok1 {
		return Graduation{}, false
	}
	sx := bStart.X - cStart.X
	sy := b0.Y - b1.Y

	// the axes are not orthonormal
	deriv := derivative((p.X-cStart.X)/sx) * sy / sx
	angle := math.Atan(-1 / deriv)
	disp := geom.Pt(math.Cos(angle)*TickLength, math.Sin(angle)*TickLength)

	text := FormatValue(value)
	size := s.measurer.Measure(text, LabelFontSize)

	label := geom.Pt(p.X-3*disp.X-size.Width/2, p.Y+3*disp.Y-size.Height/2)
	return Graduation{
		Value:     value,
		Point:     p,
		TickStart: geom.Pt(-disp.X, disp.Y),
		TickEnd:   geom.Pt(disp.X, -disp.Y),
		Label:     label.Sub(p),
		Text:      text,
		TextSize:  size,
	}, true
}

// reappears reports whether a screen border crosses the curve on screen
func (s *Curved) reappears(border geom.Line, space Space) bool {
	p, ok := s.IntersectBezier(border, space)
	return ok && s.IsInsideScreen(p, space)
}

// Translate moves the curve within one space. Moving the detail view
// also moves the auxiliary copies of C and B.
func (s *Curved) Translate(delta geom.Point, space Space) {
	s.Base.Translate(delta, space)
	pan := func(p geom.Point) geom.Point { return geom.ApplyPan(p, delta) }
	s.control[0].update(space, pan)
	s.control[1].update(space, pan)
	if space == ZoomedView {
		s.C.Translate(delta, BezierAux)
		s.B.Translate(delta, BezierAux)
	}
}

// Zoom scales the curve about center. The detail view zooms about its own
// centre and takes the auxiliary copies of C and B along.
func (s *Curved) Zoom(factor float64, center geom.Point, space Space) {
	if space == ZoomedView {
		center = s.Screen(ZoomedView).Center()
	}
	s.Base.Zoom(factor, center, space)
	zoom := func(p geom.Point) geom.Point { return geom.ApplyZoom(p, factor, center) }
	s.control[0].update(space, zoom)
	s.control[1].update(space, zoom)
	if space == ZoomedView {
		s.C.Zoom(factor, center, BezierAux)
		s.B.Zoom(factor, center, BezierAux)
	}
}

// Display implements Scale
func (s *Curved) Display(space Space) (Drawing, error) {
	if !s.fitted {
		return Drawing{}, ErrNotFitted
	}
	if space == ZoomedView {
		p, ok := s.PointAt(s.Value, ZoomedView)
		if ok {
			s.Translate(s.Screen(ZoomedView).Center().Sub(p), ZoomedView)
		}
		if len(s.grads[1].First.Graduations) == 0 {
			s.BuildGraduations(ZoomedView)
		}
	}

	curve := s.Bezier(space)
	d := Drawing{Space: space, Curve: &curve}

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
