package interact

import (
	"testing"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNomogram(t *testing.T, id string) *nomogram.Nomogram {
	t.Helper()
	def, ok := nomogram.Lookup(id)
	require.True(t, ok)
	n, err := nomogram.New(def, nomogram.WithZoomedScreen(geom.Size{Width: 400, Height: 400}))
	require.NoError(t, err)
	require.NoError(t, n.Init(geom.Size{Width: 900, Height: 900}))
	return n
}

func scaleOf(t *testing.T, n *nomogram.Nomogram, eq scale.Equation) scale.Scale {
	t.Helper()
	s, ok := n.Scale(eq)
	require.True(t, ok)
	return s
}

func TestTopPanDragsValue(t *testing.T) {
	assert := assert.New(t)
	n := newNomogram(t, "addition")
	a := scaleOf(t, n, scale.Input1).Core()
	b := scaleOf(t, n, scale.Input2).Core()
	top := NewTop(n)

	// B sits at (800, 450); grab it slightly above
	assert.Equal(Dragged, top.Pan(geom.Pt(800, 440), geom.Pt(0, -10)))
	assert.True(top.Updating(scale.Input2))
	assert.InDelta(5+10.0/70, b.Value, 1e-9)

	// the drag continues away from the hitbox
	assert.Equal(Dragged, top.Pan(geom.Pt(790, 310), geom.Pt(-10, -130)))
	assert.InDelta(7, b.Value, 1e-9)
	assert.InDelta(0.5, a.Value, 1e-9)

	// past the range of A the edit is dropped
	assert.Equal(Dragged, top.Pan(geom.Pt(800, 170), geom.Pt(10, -140)))
	assert.InDelta(7, b.Value, 1e-9)

	top.Release()
	assert.False(top.Updating(scale.Input2))

	start := n.IndexLine.Start
	assert.Equal(Moved, top.Pan(geom.Pt(300, 300), geom.Pt(10, -20)))
	assert.Equal(geom.Pt(110, 780), a.Start.Top)
	assert.Equal(start.Add(geom.Pt(10, -20)), n.IndexLine.Start)
	assert.InDelta(7, b.Value, 1e-9)
}

func TestTopPanIgnoresFixedScale(t *testing.T) {
	n := newNomogram(t, "addition")
	c := scaleOf(t, n, scale.Output)
	p, ok := c.PointAt(c.Core().Value, scale.TopView)
	require.True(t, ok)

	top := NewTop(n)
	assert.Equal(t, Moved, top.Pan(p, geom.Pt(5, 0)))
	assert.Equal(t, 7.5, c.Core().Value)
}

func TestTopPinch(t *testing.T) {
	assert := assert.New(t)
	n := newNomogram(t, "addition")
	a := scaleOf(t, n, scale.Input1).Core()
	end := n.IndexLine.End
	top := NewTop(n)

	top.PinchBegin(geom.Pt(450, 450))
	assert.Equal(Moved, top.Pinch(2))
	assert.Equal(geom.Pt(-250, 1150), a.Start.Top)
	assert.Equal(2.0, a.ZoomFactor(scale.TopView))
	assert.Equal(geom.ApplyZoom(end, 2, geom.Pt(450, 450)), n.IndexLine.End)

	// the centre registered at the start holds for the whole pinch
	assert.Equal(Moved, top.Pinch(0.5))
	assert.InDelta(100, a.Start.Top.X, 1e-9)
	assert.InDelta(800, a.Start.Top.Y, 1e-9)

	assert.Equal(Ignored, top.Pinch(1))
}

func TestTopLongPressFixes(t *testing.T) {
	n := newNomogram(t, "addition")
	a := scaleOf(t, n, scale.Input1)
	c := scaleOf(t, n, scale.Output)
	top := NewTop(n)

	s, outcome := top.LongPress(geom.Pt(0, 0))
	assert.Equal(t, Ignored, outcome)
	assert.Nil(t, s)

	s, outcome = top.LongPress(geom.Pt(105, 455))
	assert.Equal(t, Fixed, outcome)
	assert.Same(t, a, s)
	assert.True(t, a.Core().Fixed)
	assert.False(t, c.Core().Fixed)
}

func TestTopDragsCurvedScale(t *testing.T) {
	n := newNomogram(t, "second-degree")
	x, ok := scaleOf(t, n, scale.Output).(*scale.Curved)
	require.True(t, ok)
	b := scaleOf(t, n, scale.Input2)
	c := scaleOf(t, n, scale.Input1).Core()
	require.NoError(t, n.Fix(b))

	top := NewTop(n)
	p, ok := x.PointAt(x.Value, scale.TopView)
	require.True(t, ok)
	assert.Equal(t, Dragged, top.Pan(p, geom.Point{}))
	assert.True(t, top.Updating(scale.Output))

	target, ok := x.PointAt(-5.5, scale.TopView)
	require.True(t, ok)
	assert.Equal(t, Dragged, top.Pan(target, target.Sub(p)))
	assert.InDelta(t, -5.5, x.Value, 0.1)
	assert.InDelta(t, -(x.Value*x.Value + 5*x.Value), c.Value, 1e-9)
	assert.Equal(t, 5.0, b.Core().Value)
}

func TestZoomedPan(t *testing.T) {
	assert := assert.New(t)
	n := newNomogram(t, "addition")
	b := scaleOf(t, n, scale.Input2)
	a := scaleOf(t, n, scale.Input1).Core()

	_, err := b.Display(scale.ZoomedView)
	require.NoError(t, err)
	z := NewZoomed(n, b)
	assert.Same(b, z.Scale())

	assert.Equal(Ignored, z.Pan(geom.Pt(0, 0)))

	assert.Equal(Dragged, z.Pan(geom.Pt(200, 180)))
	assert.InDelta(5+20.0/70, b.Core().Value, 1e-9)
	assert.InDelta(7.5-b.Core().Value, a.Value, 1e-9)

	assert.Equal(Dragged, z.Pan(geom.Pt(210, 50)))
	assert.InDelta(5+150.0/70, b.Core().Value, 1e-9)

	z.Release()
	assert.Equal(Ignored, z.Pan(geom.Pt(0, 0)))

	assert.Equal(Moved, z.Pinch(2))
	assert.Equal(2.0, b.Core().ZoomFactor(scale.ZoomedView))
	assert.Equal(1.0, b.Core().ZoomFactor(scale.TopView))
}

func TestZoomedPanFixedScale(t *testing.T) {
	n := newNomogram(t, "addition")
	c := scaleOf(t, n, scale.Output)
	_, err := c.Display(scale.ZoomedView)
	require.NoError(t, err)

	z := NewZoomed(n, c)
	assert.Equal(t, Ignored, z.Pan(geom.Pt(200, 200)))
	assert.Equal(t, 7.5, c.Core().Value)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "dragged", Dragged.String())
	assert.Equal(t, "ignored", Outcome(42).String())
}
