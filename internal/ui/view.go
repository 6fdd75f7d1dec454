package ui

import (
	"image"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/text"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/interact"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/render"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
)

const (
	longPressDelay = 500 * time.Millisecond
	longPressSlop  = 8 // pixels a long press may move
	scrollZoomStep = 0.1
)

// gestures is implemented by the overview and the detail view controllers
type gestures interface {
	pan(finger, translation geom.Point) interact.Outcome
	release()
	zoom(factor float64, center geom.Point) interact.Outcome
	longPress(finger geom.Point) (scale.Scale, interact.Outcome)
}

type topGestures struct{ *interact.Top }

func (g topGestures) pan(finger, translation geom.Point) interact.Outcome {
	return g.Pan(finger, translation)
}
func (g topGestures) release() { g.Release() }
func (g topGestures) zoom(factor float64, center geom.Point) interact.Outcome {
	g.PinchBegin(center)
	return g.Pinch(factor)
}
func (g topGestures) longPress(finger geom.Point) (scale.Scale, interact.Outcome) {
	return g.LongPress(finger)
}

type zoomedGestures struct{ *interact.Zoomed }

func (g zoomedGestures) pan(finger, _ geom.Point) interact.Outcome {
	return g.Pan(finger)
}
func (g zoomedGestures) release() { g.Release() }
func (g zoomedGestures) zoom(factor float64, _ geom.Point) interact.Outcome {
	return g.Pinch(factor)
}
func (g zoomedGestures) longPress(geom.Point) (scale.Scale, interact.Outcome) {
	return nil, interact.Ignored
}

// nomogramView draws one space of a nomogram in a widget and turns pointer
// events into gestures. The engine lays the nomogram out on a fixed
// surface of view units; the pane scales it to fit the widget.
type nomogramView struct {
	space   scale.Space
	surface geom.Size
	pane    *render.Pane
	theme   render.Theme
	shaper  *text.Shaper

	gestures gestures
	onFix    func(scale.Scale)

	pressed   bool
	pressAt   f32.Point
	pressTime time.Duration
	last      f32.Point
	moved     bool
}

func newNomogramView(space scale.Space, surface geom.Size, theme render.Theme, shaper *text.Shaper) *nomogramView {
	return &nomogramView{
		space:   space,
		surface: surface,
		pane:    render.NewPane(int(surface.Width), int(surface.Height), 1),
		theme:   theme,
		shaper:  shaper,
	}
}

// fit scales and centres the surface in a widget of the given pixel size
func (v *nomogramView) fit(size image.Point) {
	v.pane.UpdateScreenSize(size.X, size.Y)
	if v.surface.IsZero() || size.X == 0 || size.Y == 0 {
		return
	}
	s := math.Min(float64(size.X)/v.surface.Width, float64(size.Y)/v.surface.Height)
	v.pane.Scale = float32(s)
	v.pane.OffsetX = float32((float64(size.X) - v.surface.Width*s) / 2)
	v.pane.OffsetY = float32((float64(size.Y) - v.surface.Height*s) / 2)
}

func (v *nomogramView) handle(gtx layout.Context) bool {
	changed := false
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok || v.gestures == nil {
			continue
		}
		finger := v.pane.FromScreen(pe.Position)

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonSecondary {
				changed = v.fix(finger) || changed
				continue
			}
			v.pressed, v.moved = true, false
			v.pressAt, v.last, v.pressTime = pe.Position, pe.Position, pe.Time

		case pointer.Drag:
			if !v.pressed {
				continue
			}
			d := pe.Position.Sub(v.pressAt)
			if math.Hypot(float64(d.X), float64(d.Y)) >= longPressSlop {
				v.moved = true
			}
			if v.gestures.pan(finger, v.pane.Delta(pe.Position.Sub(v.last))) != interact.Ignored {
				changed = true
			}
			v.last = pe.Position

		case pointer.Release, pointer.Cancel:
			if v.pressed && !v.moved && pe.Kind == pointer.Release && pe.Time-v.pressTime >= longPressDelay {
				changed = v.fix(finger) || changed
			}
			v.pressed = false
			v.gestures.release()

		case pointer.Scroll:
			factor := 1 - float64(pe.Scroll.Y)*scrollZoomStep
			if factor <= 0 {
				continue
			}
			if v.gestures.zoom(factor, finger) != interact.Ignored {
				changed = true
			}
		}
	}
	return changed
}

func (v *nomogramView) fix(finger geom.Point) bool {
	s, outcome := v.gestures.longPress(finger)
	if outcome != interact.Fixed {
		return false
	}
	if v.onFix != nil {
		v.onFix(s)
	}
	return true
}

// Layout draws the scales of n, or only focus when it is not nil
func (v *nomogramView) Layout(gtx layout.Context, n *nomogram.Nomogram, focus scale.Scale) layout.Dimensions {
	size := gtx.Constraints.Max
	v.fit(size)
	if v.handle(gtx) {
		gtx.Execute(op.InvalidateCmd{})
	}

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, v)

	canvas := &render.Canvas{Pane: v.pane, Theme: v.theme, Shaper: v.shaper}
	canvas.Background(gtx)
	if n == nil {
		return layout.Dimensions{Size: size}
	}

	scales := n.Scales()
	if focus != nil {
		scales = []scale.Scale{focus}
	}
	for _, s := range scales {
		d, err := s.Display(v.space)
		if err != nil {
			continue
		}
		canvas.Scale(gtx, d, s.Core().Index)
	}
	if v.space == scale.TopView {
		canvas.IndexLine(gtx, n.IndexLine.Start, n.IndexLine.End)
	}
	return layout.Dimensions{Size: size}
}
