package nomogram

import (
	"errors"
	"math"
	"testing"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScreen = geom.Size{Width: 900, Height: 900}

type recorder struct {
	builds, top, bottom int
}

func (r *recorder) BuildView(*Nomogram) { r.builds++ }
func (r *recorder) ReloadTopView()      { r.top++ }
func (r *recorder) ReloadBottomView()   { r.bottom++ }

func newCatalogNomogram(t *testing.T, id string, opts ...Option) *Nomogram {
	t.Helper()
	def, ok := Lookup(id)
	require.True(t, ok, "catalog entry %q", id)
	n, err := New(def, opts...)
	require.NoError(t, err)
	require.NoError(t, n.Init(testScreen))
	return n
}

func mustScale(t *testing.T, n *Nomogram, eq scale.Equation) scale.Scale {
	t.Helper()
	s, ok := n.Scale(eq)
	require.True(t, ok, "no %v scale", eq)
	return s
}

// alignedValue reads the middle scale where the index line crosses it
func alignedValue(t *testing.T, n *Nomogram) float64 {
	t.Helper()
	middle, ok := n.Scales()[1].(*scale.Straight)
	require.True(t, ok)
	axis, err := middle.Line(scale.TopView)
	require.NoError(t, err)
	p, ok := geom.Intersect(n.IndexLine.Line(), axis)
	require.True(t, ok)
	v, err := middle.ValueAt(p, scale.TopView)
	require.NoError(t, err)
	return v
}

func TestAdditionLayout(t *testing.T) {
	assert := assert.New(t)
	n := newCatalogNomogram(t, "addition")

	scales := n.Scales()
	require.Len(t, scales, 3)
	for i, s := range scales {
		assert.Equal(i, s.Core().Index)
	}
	assert.Equal(scale.Input1, scales[0].Core().Equation)
	assert.Equal(scale.Output, scales[1].Core().Equation)
	assert.Equal(scale.Input2, scales[2].Core().Equation)

	a := scales[0].Core()
	assert.Equal(geom.Pt(100, 800), a.Start.Top)
	assert.Equal(geom.Pt(100, 100), a.End.Top)
	assert.Equal(geom.Pt(800, 800), scales[2].Core().Start.Top)

	c := scales[1].Core()
	assert.True(c.Fixed)
	assert.Equal(0.0, c.StartValue)
	assert.Equal(15.0, c.EndValue)
	assert.Equal(7.5, c.Value)
	assert.InDelta(100+2.0/3*700, c.Start.Top.X, 1e-9)

	assert.InDelta(7.5, alignedValue(t, n), 1e-9)
}

func TestAdditionValues(t *testing.T) {
	assert := assert.New(t)
	rec := &recorder{}
	n := newCatalogNomogram(t, "addition", WithNotifier(rec))
	a := mustScale(t, n, scale.Input1)
	b := mustScale(t, n, scale.Input2)
	c := mustScale(t, n, scale.Output)

	require.NoError(t, n.Fix(a))
	require.NoError(t, n.UpdateVariableValue(b, 3))
	require.NoError(t, n.Fix(b))
	require.NoError(t, n.UpdateVariableValue(a, 2))
	assert.InDelta(5, c.Core().Value, 1e-12)
	assert.InDelta(5, alignedValue(t, n), 1e-9)
	assert.Equal(4, rec.top)
	assert.Equal(4, rec.bottom)

	require.NoError(t, n.Fix(a))
	require.NoError(t, n.UpdateVariableValue(c, 10))
	assert.InDelta(8, b.Core().Value, 1e-12)
	assert.InDelta(10, alignedValue(t, n), 1e-9)

	err := n.UpdateVariableValue(a, 1)
	assert.True(errors.Is(err, ErrFixed))
	err = n.UpdateVariableValue(b, 11)
	assert.True(errors.Is(err, ErrOutOfBounds))
	assert.InDelta(8, b.Core().Value, 1e-12)
}

func TestAdditionCompanionRollback(t *testing.T) {
	assert := assert.New(t)
	rec := &recorder{}
	n := newCatalogNomogram(t, "addition", WithNotifier(rec))

	upper := 5.0
	require.NoError(t, n.UpdateRange(mustScale(t, n, scale.Input2), nil, &upper))
	assert.Equal(1, rec.builds)

	a := mustScale(t, n, scale.Input1)
	b := mustScale(t, n, scale.Input2)
	c := mustScale(t, n, scale.Output)
	assert.Equal(5.0, b.Core().EndValue)
	assert.Equal(10.0, c.Core().EndValue)
	assert.Equal(5.0, c.Core().Value)

	require.NoError(t, n.Fix(a))
	err := n.UpdateVariableValue(c, 10)
	assert.True(errors.Is(err, ErrCompanionOutOfBounds), "got %v", err)
	assert.Equal(5.0, c.Core().Value)
	assert.Equal(2.5, b.Core().Value)
}

func TestAdditionWithFactors(t *testing.T) {
	def := Definition{
		Name:     "weighted",
		Op:       Addition,
		Input1:   Initializer{Name: "A", Factor: 2, Exponent: 1, Range: &Range{Start: 0, End: 10}},
		Input2:   Initializer{Name: "B", Factor: 1, Exponent: 1, Range: &Range{Start: -5, End: 5}},
		Output:   Initializer{Name: "C", Factor: 2, Exponent: 1},
		Constant: 4,
	}
	n, err := New(def)
	require.NoError(t, err)
	require.NoError(t, n.Init(testScreen))

	c := mustScale(t, n, scale.Output).Core()
	assert.Equal(t, (2*0+1*-5+4)/2.0, c.StartValue)
	assert.Equal(t, (2*10+1*5+4)/2.0, c.EndValue)

	a := mustScale(t, n, scale.Input1)
	b := mustScale(t, n, scale.Input2)
	require.NoError(t, n.Fix(b))
	require.NoError(t, n.UpdateVariableValue(a, 3))
	assert.InDelta(t, (2*3+1*0+4)/2.0, c.Value, 1e-12)

	// the crossing on the middle scale matches the computed value
	mid := n.Scales()[1].Core()
	assert.InDelta(t, mid.Value, alignedValue(t, n), 1e-9)
}

func TestAdditionEquationHoldsAcrossEdits(t *testing.T) {
	def := Definition{
		Name:     "weighted",
		Op:       Addition,
		Input1:   Initializer{Name: "A", Factor: 2, Exponent: 1, Range: &Range{Start: 0, End: 10}},
		Input2:   Initializer{Name: "B", Factor: 1, Exponent: 1, Range: &Range{Start: -5, End: 5}},
		Output:   Initializer{Name: "C", Factor: 2, Exponent: 1},
		Constant: 4,
	}
	n, err := New(def)
	require.NoError(t, err)
	require.NoError(t, n.Init(testScreen))

	a := mustScale(t, n, scale.Input1)
	b := mustScale(t, n, scale.Input2)
	c := mustScale(t, n, scale.Output)

	edits := []struct {
		fix, edit scale.Scale
		value     float64
	}{
		{b, a, 3},
		{a, c, 6},
		{c, a, 5},
		{a, b, 4},
		{b, c, 10},
		{c, b, -3},
	}
	for i, e := range edits {
		require.NoError(t, n.Fix(e.fix), "edit %d", i)
		require.NoError(t, n.UpdateVariableValue(e.edit, e.value), "edit %d", i)

		av, bv, cv := a.Core().Value, b.Core().Value, c.Core().Value
		assert.InDelta(t, 2*av+1*bv+4, 2*cv, 1e-9, "edit %d: A=%v B=%v C=%v", i, av, bv, cv)
		assert.Equal(t, e.value, e.edit.Core().Value, "edit %d", i)
		assert.InDelta(t, cv, alignedValue(t, n), 1e-9, "edit %d", i)
	}
}

func TestMultiplication(t *testing.T) {
	assert := assert.New(t)
	n := newCatalogNomogram(t, "multiplication")
	a := mustScale(t, n, scale.Input1)
	b := mustScale(t, n, scale.Input2)
	c := mustScale(t, n, scale.Output)

	for _, s := range n.Scales() {
		assert.True(s.Core().Log)
	}
	assert.InDelta(10, c.Core().StartValue, 1e-9)
	assert.InDelta(150, c.Core().EndValue, 1e-9)
	assert.InDelta(math.Sqrt(20), a.Core().Value, 1e-9)

	require.NoError(t, n.Fix(a))
	require.NoError(t, n.UpdateVariableValue(b, 5))
	require.NoError(t, n.Fix(b))
	require.NoError(t, n.UpdateVariableValue(a, 4))
	assert.InDelta(20, c.Core().Value, 1e-9)
	assert.InDelta(c.Core().Value, n.ComputeVariableValue(c), 1e-9)

	mid := n.Scales()[1].Core()
	assert.InDelta(mid.Value, alignedValue(t, n), 1e-6*mid.Value)
}

func TestMultiplicationWithFactors(t *testing.T) {
	// C = 1.5 * 2A * 3B² / 4
	def := Definition{
		Name:     "scaled product",
		Op:       Multiplication,
		Input1:   Initializer{Name: "A", Factor: 2, Exponent: 1, Range: &Range{Start: 1, End: 10}},
		Input2:   Initializer{Name: "B", Factor: 3, Exponent: 2, Range: &Range{Start: 1, End: 5}},
		Output:   Initializer{Name: "C", Factor: 4, Exponent: 1},
		Constant: 1.5,
	}
	n, err := New(def)
	require.NoError(t, err)
	require.NoError(t, n.Init(testScreen))

	a := mustScale(t, n, scale.Input1)
	b := mustScale(t, n, scale.Input2)
	c := mustScale(t, n, scale.Output)
	product := func() float64 {
		bv := b.Core().Value
		return 2.25 * a.Core().Value * bv * bv
	}

	assert.InDelta(t, 2.25, c.Core().StartValue, 1e-9)
	assert.InDelta(t, 562.5, c.Core().EndValue, 1e-9)
	assert.InDelta(t, product(), c.Core().Value, 1e-9)
	assert.InDelta(t, c.Core().Value, alignedValue(t, n), 1e-6*c.Core().Value)

	require.NoError(t, n.Fix(b))
	require.NoError(t, n.UpdateVariableValue(a, 4))
	assert.InDelta(t, 45, c.Core().Value, 1e-9)
	assert.InDelta(t, c.Core().Value, alignedValue(t, n), 1e-6*c.Core().Value)

	require.NoError(t, n.Fix(a))
	require.NoError(t, n.UpdateVariableValue(c, 90))
	assert.InDelta(t, math.Sqrt(10), b.Core().Value, 1e-9)
	assert.InDelta(t, product(), c.Core().Value, 1e-9)
	assert.InDelta(t, 90, alignedValue(t, n), 1e-6*90)
}

func TestBodyMassIndex(t *testing.T) {
	n := newCatalogNomogram(t, "bmi")
	mass := mustScale(t, n, scale.Input1).Core()
	height := mustScale(t, n, scale.Input2).Core()
	bmi := mustScale(t, n, scale.Output)

	assert.InDelta(t, mass.Value/(height.Value*height.Value), bmi.Core().Value, 1e-9)
	assert.InDelta(t, 20, bmi.Core().StartValue, 1e-9)
	assert.InDelta(t, 37.5, bmi.Core().EndValue, 1e-9)

	require.NoError(t, n.Fix(mustScale(t, n, scale.Input2)))
	require.NoError(t, n.UpdateVariableValue(mustScale(t, n, scale.Input1), 72))
	assert.InDelta(t, 72/(height.Value*height.Value), bmi.Core().Value, 1e-9)

	mid := n.Scales()[1].Core()
	assert.InDelta(t, mid.Value, alignedValue(t, n), 1e-6*mid.Value)
}

func TestSecondDegree(t *testing.T) {
	assert := assert.New(t)
	n := newCatalogNomogram(t, "second-degree")

	scales := n.Scales()
	require.Len(t, scales, 3)
	x, ok := scales[1].(*scale.Curved)
	require.True(t, ok)
	assert.True(x.Converged)
	assert.True(x.Fixed)
	assert.Equal(0.0, x.StartValue)
	assert.InDelta(-10.916079783, x.EndValue, 1e-9)

	c := mustScale(t, n, scale.Input1)
	b := mustScale(t, n, scale.Input2)
	assert.Same(c, scales[0])
	assert.Same(b, scales[2])
	assert.Equal(scale.NegativeRoot(-5, 5), x.Value)

	require.NoError(t, n.Fix(b))
	require.NoError(t, n.UpdateVariableValue(c, -6))
	assert.InDelta(-6, x.Value, 1e-12)

	start, _ := c.PointAt(-6, scale.TopView)
	end, _ := b.PointAt(5, scale.TopView)
	assert.Equal(start, n.IndexLine.Start)
	assert.Equal(end, n.IndexLine.End)

	require.NoError(t, n.Fix(x))
	require.NoError(t, n.UpdateVariableValue(c, -2))
	// X² + BX + C = 0 with X = -6 and C = -2
	assert.InDelta(-(-2+36)/-6.0, b.Core().Value, 1e-12)
}

func TestSecondDegreeRange(t *testing.T) {
	assert := assert.New(t)
	rec := &recorder{}
	n := newCatalogNomogram(t, "second-degree", WithNotifier(rec))
	c := mustScale(t, n, scale.Input1)

	for _, v := range []float64{-61, 5, 0} {
		v := v
		err := n.UpdateRange(c, nil, &v)
		assert.True(errors.Is(err, ErrInvalidRange), "end %v: %v", v, err)
	}
	lower := -1.0
	assert.True(errors.Is(n.UpdateRange(c, &lower, nil), ErrInvalidRange))
	assert.True(errors.Is(n.UpdateRange(mustScale(t, n, scale.Output), nil, &lower), ErrInvalidRange))
	assert.Equal(0, rec.builds)

	upper := -30.0
	require.NoError(t, n.UpdateRange(c, nil, &upper))
	assert.Equal(1, rec.builds)
	assert.Equal(-30.0, mustScale(t, n, scale.Input1).Core().EndValue)
	assert.Equal(30.0, mustScale(t, n, scale.Input2).Core().EndValue)
	assert.InDelta(scale.NegativeRoot(-30, 30), mustScale(t, n, scale.Output).Core().EndValue, 1e-12)

	upper = 12
	require.NoError(t, n.UpdateRange(mustScale(t, n, scale.Input2), nil, &upper))
	assert.Equal(-12.0, mustScale(t, n, scale.Input1).Core().EndValue)
}

func TestUpdateRangeAddition(t *testing.T) {
	def, _ := Lookup("addition")
	n, err := New(def)
	require.NoError(t, err)
	require.NoError(t, n.Init(testScreen))
	a := mustScale(t, n, scale.Input1)

	same := 5.0
	err = n.UpdateRange(a, &same, nil)
	assert.True(t, errors.Is(err, ErrInvalidRange))

	lower, upper := -5.0, 20.0
	require.NoError(t, n.UpdateRange(a, &lower, &upper))
	a = mustScale(t, n, scale.Input1)
	assert.Equal(t, -5.0, a.Core().StartValue)
	assert.Equal(t, 20.0, a.Core().EndValue)
	assert.Equal(t, -5.0, mustScale(t, n, scale.Output).Core().StartValue)

	// the caller's definition is untouched
	assert.Equal(t, 0.0, def.Input1.Range.Start)
}

func TestUnknownScale(t *testing.T) {
	n := newCatalogNomogram(t, "addition")
	other := newCatalogNomogram(t, "addition")
	foreign := mustScale(t, other, scale.Input1)

	assert.True(t, errors.Is(n.UpdateVariableValue(foreign, 1), ErrUnknownScale))
	assert.True(t, errors.Is(n.Fix(foreign), ErrUnknownScale))
}

func TestIndexLineMoves(t *testing.T) {
	l := IndexLine{Start: geom.Pt(0, 0), End: geom.Pt(10, 10)}
	l.Translate(geom.Pt(5, -5))
	assert.Equal(t, IndexLine{Start: geom.Pt(5, -5), End: geom.Pt(15, 5)}, l)
	l.Zoom(2, geom.Pt(5, -5))
	assert.Equal(t, geom.Pt(25, 15), l.End)
}

func TestValidate(t *testing.T) {
	base, _ := Lookup("multiplication")
	tests := []struct {
		name   string
		mutate func(d *Definition)
	}{
		{"no range", func(d *Definition) { d.Input1.Range = nil }},
		{"empty range", func(d *Definition) { d.Input2.Range = &Range{Start: 3, End: 3} }},
		{"zero factor", func(d *Definition) { d.Output.Factor = 0 }},
		{"non positive range", func(d *Definition) { d.Input1.Range = &Range{Start: 0, End: 3} }},
		{"non positive constant", func(d *Definition) { d.Constant = 0 }},
		{"second degree start", func(d *Definition) {
			d.Op = SecondDegree
			d.Input1.Range = &Range{Start: -1, End: -10}
			d.Input2.Range = &Range{Start: 0, End: 10}
		}},
		{"second degree mirror", func(d *Definition) {
			d.Op = SecondDegree
			d.Input1.Range = &Range{Start: 0, End: -10}
			d.Input2.Range = &Range{Start: 0, End: 8}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base.clone()
			tt.mutate(&d)
			_, err := New(d)
			assert.True(t, errors.Is(err, ErrInvalidDefinition), "got %v", err)
		})
	}

	for _, d := range Catalog() {
		assert.NoError(t, d.Validate(), d.Name)
	}
}

func TestInitRejectsEmptyScreen(t *testing.T) {
	def, _ := Lookup("addition")
	n, err := New(def)
	require.NoError(t, err)
	assert.Error(t, n.Init(geom.Size{}))

	one := 1.0
	assert.True(t, errors.Is(n.UpdateRange(nil, nil, &one), ErrNotInitialized))
}
