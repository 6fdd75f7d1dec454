package render

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
)

const (
	borderWidth    = 2.0
	indexLineWidth = 1.5
)

// Canvas draws nomogram primitives through a pane
type Canvas struct {
	Pane   *Pane
	Theme  Theme
	Shaper *text.Shaper
}

// Background fills the widget and strokes its border
func (c *Canvas) Background(gtx layout.Context) {
	size := image.Pt(c.Pane.Width, c.Pane.Height)
	paint.FillShape(gtx.Ops, c.Theme.Background, clip.Rect{Max: size}.Op())

	w := float64(c.Pane.Width)
	h := float64(c.Pane.Height)
	corners := []f32.Point{{X: 0, Y: 0}, {X: float32(w), Y: 0}, {X: float32(w), Y: float32(h)}, {X: 0, Y: float32(h)}}
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(corners[0])
	for _, p := range corners[1:] {
		path.LineTo(p)
	}
	path.Close()
	paint.FillShape(gtx.Ops, c.Theme.Border, clip.Stroke{Path: path.End(), Width: borderWidth}.Op())
}

// IndexLine draws the index line between two view points
func (c *Canvas) IndexLine(gtx layout.Context, from, to geom.Point) {
	renderLine(gtx, c.Pane.ToScreen(from), c.Pane.ToScreen(to), indexLineWidth, c.Theme.IndexLine)
}

// Scale draws one scale. index is the left to right slot of the scale and
// picks its colour.
func (c *Canvas) Scale(gtx layout.Context, d scale.Drawing, index int) {
	accent := c.Theme.ScaleColor(index)

	if d.Line != nil {
		renderLine(gtx, c.Pane.ToScreen(d.Line.From), c.Pane.ToScreen(d.Line.To),
			c.Pane.Length(d.Line.Width), c.Theme.Axis)
	}
	if d.Curve != nil {
		renderCubic(gtx, c.Pane, *d.Curve, c.Pane.Length(2), c.Theme.Axis)
	}
	for _, t := range d.Ticks {
		renderLine(gtx, c.Pane.ToScreen(t.From), c.Pane.ToScreen(t.To), c.Pane.Length(t.Width), accent)
	}
	for _, t := range d.Texts {
		c.text(gtx, t, c.Theme.TextColor(t.Role, index))
	}

	m := d.Marker
	center := c.Pane.ToScreen(m.Center)
	radius := c.Pane.Length(m.Radius)
	if m.Filled {
		renderCircle(gtx, center, radius, accent)
	} else {
		renderRing(gtx, center, radius, c.Pane.Length(2), accent)
	}
}

func (c *Canvas) text(gtx layout.Context, t scale.Text, col color.NRGBA) {
	if c.Shaper == nil || t.Text == "" {
		return
	}
	pxPerSp := gtx.Metric.PxPerSp
	if pxPerSp == 0 {
		pxPerSp = 1
	}
	size := unit.Sp(float32(t.FontSize) * c.Pane.Scale / pxPerSp)

	// Create isolated rendering context
	macro := op.Record(gtx.Ops)
	stack := op.Offset(c.Pane.ToScreen(t.At).Round()).Push(gtx.Ops)

	material := op.Record(gtx.Ops)
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	label := widget.Label{Alignment: text.Start, MaxLines: 1}
	lgtx := gtx
	lgtx.Constraints.Min = image.Point{}
	label.Layout(lgtx, c.Shaper, font.Font{}, size, t.Text, material.Stop())

	stack.Pop()
	call := macro.Stop()
	call.Add(gtx.Ops)
}

// renderLine strokes a straight segment
func renderLine(gtx layout.Context, from, to f32.Point, width float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(from)
	path.LineTo(to)
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: width}.Op())
}

// renderCubic strokes a Bézier curve given in view coordinates
func renderCubic(gtx layout.Context, pane *Pane, curve geom.Cubic, width float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(pane.ToScreen(curve.P0))
	path.CubeTo(pane.ToScreen(curve.C1), pane.ToScreen(curve.C2), pane.ToScreen(curve.P3))
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: width}.Op())
}

// renderCircle renders a simple filled circle
func renderCircle(gtx layout.Context, center f32.Point, radius float32, col color.NRGBA) {
	paint.FillShape(gtx.Ops, col, clip.Ellipse(circleBounds(center, radius)).Op(gtx.Ops))
}

// renderRing renders the outline of a circle
func renderRing(gtx layout.Context, center f32.Point, radius, width float32, col color.NRGBA) {
	paint.FillShape(gtx.Ops, col, clip.Stroke{
		Path:  clip.Ellipse(circleBounds(center, radius)).Path(gtx.Ops),
		Width: width,
	}.Op())
}

func circleBounds(center f32.Point, radius float32) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(int(center.X-radius), int(center.Y-radius)),
		Max: image.Pt(int(center.X+radius), int(center.Y+radius)),
	}
}
