package scale

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCurved(cEnd float64) *Curved {
	zoomed := geom.Size{Width: 400, Height: 400}
	c := NewStraight(Config{
		Name:         "C",
		Factor:       1,
		Exponent:     1,
		Value:        cEnd / 2,
		StartValue:   0,
		EndValue:     cEnd,
		Start:        SameWithAux(geom.Pt(100, 800)),
		End:          SameWithAux(geom.Pt(100, 100)),
		Equation:     Input1,
		Screen:       testScreen,
		ZoomedScreen: zoomed,
	})
	c.BuildScale()
	b := NewStraight(Config{
		Name:         "B",
		Factor:       1,
		Exponent:     1,
		Value:        -cEnd / 2,
		StartValue:   0,
		EndValue:     -cEnd,
		Start:        SameWithAux(geom.Pt(800, 800)),
		End:          SameWithAux(geom.Pt(800, 100)),
		Equation:     Input2,
		Screen:       testScreen,
		ZoomedScreen: zoomed,
	})
	b.BuildScale()

	x := NewCurved(c, b, Config{
		Name:         "X",
		Factor:       1,
		Exponent:     1,
		Value:        NegativeRoot(c.Value, b.Value),
		Fixed:        true,
		Equation:     Output,
		Screen:       testScreen,
		ZoomedScreen: zoomed,
	})
	x.BuildScale()
	return x
}

func TestNegativeRoot(t *testing.T) {
	assert.InDelta(t, -10.916079783, NegativeRoot(-10, 10), 1e-9)
	assert.Equal(t, 0.0, NegativeRoot(0, 0))
	// x² + 5x + 6: roots -2 and -3
	assert.InDelta(t, -2, NegativeRoot(6, 5), 1e-12)
}

func TestCurvedFitConverges(t *testing.T) {
	for _, cEnd := range []float64{-5, -10, -30, -60} {
		x := newTestCurved(cEnd)
		assert.True(t, x.Converged, "C end %v", cEnd)
		assert.Less(t, x.Iterations, 100, "C end %v", cEnd)
		assert.InDelta(t, x.C.End.Top.Y, x.End.Top.Y, fitThreshold, "C end %v", cEnd)
		assert.Equal(t, 0.0, x.StartValue)
		assert.InDelta(t, NegativeRoot(cEnd, -cEnd), x.EndValue, 1e-12)
		assert.Equal(t, x.C.Start.Top, x.Start.Top)
	}
}

// distanceToLine returns the distance from p to the infinite line l
func distanceToLine(p geom.Point, l geom.Line) float64 {
	a, b, c := geom.Sarrus(l)
	return math.Abs(a*p.X+b*p.Y+c) / math.Hypot(a, b)
}

func TestCurvedFitSweep(t *testing.T) {
	ends := []float64{-1.25, -2.5, -7.5, -33.3, -59.9}
	for c := -1.0; c >= -60; c-- {
		ends = append(ends, c)
	}
	for _, cEnd := range ends {
		x := newTestCurved(cEnd)
		chord := geom.Ln(x.C.End.Top, x.B.End.Top)

		assert.True(t, x.Converged, "C end %v", cEnd)
		assert.Less(t, x.Iterations, 100, "C end %v", cEnd)
		assert.Less(t, distanceToLine(x.End.Top, chord), fitThreshold, "C end %v", cEnd)
		assert.True(t, x.End.Top.X > x.C.End.Top.X && x.End.Top.X < x.B.End.Top.X,
			"C end %v: curve end %v outside the chord", cEnd, x.End.Top)
	}
}

func TestCurvedFitFallsBack(t *testing.T) {
	x := newTestCurved(-10)
	x.MaxIterations = 3
	x.BuildScale()
	assert.False(t, x.Converged)
	assert.Equal(t, 3, x.Iterations)
	assert.True(t, x.End.Top.IsFinite())
}

func TestCurvedSlopeModes(t *testing.T) {
	x := newTestCurved(-10)
	// getY(0) is 0, so the literal slope reduces to getY(xe)
	assert.InDelta(t, trueY(0.9), x.slope(0, 0.9), 1e-12)

	x.Slope = SlopeChord
	assert.InDelta(t, trueY(0.9)/0.9, x.slope(0, 0.9), 1e-12)
	x.BuildScale()
	assert.True(t, x.End.Top.IsFinite())
	assert.Greater(t, x.Iterations, 0)
}

func TestAbscissaFromSlope(t *testing.T) {
	for _, slope := range []float64{0.5, 3, 47} {
		u := abscissaFromSlope(slope)
		require.True(t, u >= 0 && u <= 1, "slope %v gave %v", slope, u)
		assert.InDelta(t, slope, derivative(u), 1e-9)
	}
}

func TestCurvedGraduations(t *testing.T) {
	x := newTestCurved(-10)
	o := x.Graduations(TopView)
	require.GreaterOrEqual(t, len(o.First.Graduations), 2)
	assert.Equal(t, 1.0, o.First.Step)
	assert.Equal(t, 0.0, o.First.Graduations[0].Value)

	for i := 1; i < len(o.First.Graduations); i++ {
		prev, cur := o.First.Graduations[i-1], o.First.Graduations[i]
		assert.Less(t, cur.Value, prev.Value)
		assert.Greater(t, cur.Point.X, prev.Point.X)
	}

	// the first tick is vertical where the curve leaves C horizontally
	g := o.First.Graduations[0]
	assert.InDelta(t, 0, g.TickStart.X, 1e-9)
	assert.InDelta(t, TickLength, math.Abs(g.TickStart.Y), 1e-9)

	assert.Empty(t, x.Graduations(ZoomedView).First.Graduations)
}

func TestCurvedPointAtSatisfiesEquation(t *testing.T) {
	x := newTestCurved(-10)
	// the index line through C and B values crosses X at a root
	for _, v := range []float64{-1, -4, -8} {
		p, ok := x.PointAt(v, TopView)
		require.True(t, ok, "value %v", v)

		valB := -(x.C.EndValue / v) - v
		pb, _ := x.B.PointAt(valB, TopView)
		pc, _ := x.C.PointAt(x.C.EndValue, TopView)
		l := geom.Ln(pb, pc)
		cx, cy, k := geom.Sarrus(l)
		assert.InDelta(t, 0, cx*p.X+cy*p.Y+k, 1e-3*math.Hypot(cx, cy))
	}

	p, ok := x.PointAt(0, TopView)
	require.True(t, ok)
	assert.Equal(t, x.Start.Top, p)
}

func TestCurvedValueFromProjection(t *testing.T) {
	x := newTestCurved(-10)
	x.C.Fixed = true
	x.C.Value = -4

	pc, _ := x.C.PointAt(-4, TopView)
	pb, _ := x.B.PointAt(3, TopView)
	mid := pc.Add(pb).Mul(0.5)

	v, err := x.ValueFromProjection(mid, TopView)
	require.NoError(t, err)
	assert.InDelta(t, 3, v, 1e-9)

	x.C.Fixed = false
	x.B.Fixed = true
	x.B.Value = 3
	v, err = x.ValueFromProjection(mid, ZoomedView)
	require.NoError(t, err)
	assert.InDelta(t, -4, v, 1e-9)
}

func TestCurvedZoomedDisplay(t *testing.T) {
	x := newTestCurved(-10)
	x.Value = -3

	d, err := x.Display(ZoomedView)
	require.NoError(t, err)
	require.NotNil(t, d.Curve)
	assert.Equal(t, geom.Pt(200, 200), d.Marker.Center)
	assert.False(t, d.Marker.Filled)

	p, ok := x.PointAt(-3, ZoomedView)
	require.True(t, ok)
	assert.InDelta(t, 200, p.X, 1e-6)
	assert.InDelta(t, 200, p.Y, 1e-6)
	assert.NotEmpty(t, x.Graduations(ZoomedView).First.Graduations)

	// zooming keeps the value at the detail view centre
	x.Zoom(4, geom.Pt(0, 0), ZoomedView)
	p, ok = x.PointAt(-3, ZoomedView)
	require.True(t, ok)
	assert.InDelta(t, 200, p.X, 1e-6)
	assert.InDelta(t, 200, p.Y, 1e-6)
	assert.Equal(t, 4.0, x.ZoomFactor(ZoomedView))

	// the top view is untouched
	top, ok := x.PointAt(-3, TopView)
	require.True(t, ok)
	assert.NotEqual(t, p, top)
}

func TestCurvedDisplayBeforeFit(t *testing.T) {
	x := NewCurved(newTestStraight(0, -10, false), newTestStraight(0, 10, false), Config{Name: "X"})
	_, err := x.Display(TopView)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestParseSlope(t *testing.T) {
	for _, m := range []SlopeMode{SlopeLiteral, SlopeChord} {
		got, err := ParseSlope(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseSlope("Chord")
	require.NoError(t, err)
	assert.Equal(t, SlopeChord, got)

	_, err = ParseSlope("tangent")
	assert.Error(t, err)
}
