package interact

import (
	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/sirupsen/logrus"
)

// Zoomed handles the gestures of the detail view of one scale. The view
// keeps the value at its centre, so a pan only ever drags the value.
type Zoomed struct {
	n        *nomogram.Nomogram
	s        scale.Scale
	updating bool
	opts     options
}

// NewZoomed returns a controller for the detail view of s
func NewZoomed(n *nomogram.Nomogram, s scale.Scale, opts ...Option) *Zoomed {
	o := defaults(opts)
	o.log = o.log.WithFields(logrus.Fields{"view": scale.ZoomedView, "scale": s.Core().Name})
	return &Zoomed{n: n, s: s, opts: o}
}

// Scale returns the scale shown in the view
func (z *Zoomed) Scale() scale.Scale {
	return z.s
}

// Pan drags the value when the finger grabbed it
func (z *Zoomed) Pan(finger geom.Point) Outcome {
	core := z.s.Core()
	if core.Fixed {
		return Ignored
	}
	if !z.updating {
		p, ok := z.s.PointAt(core.Value, scale.ZoomedView)
		if !ok || !geom.InHitboxWithin(p, finger, z.opts.hitbox) {
			return Ignored
		}
		z.updating = true
	}

	drag(z.n, z.s, finger, scale.ZoomedView, z.opts.log)
	for _, s := range z.n.Scales() {
		s.HandleMovement(scale.ZoomedView)
	}
	return Dragged
}

// Release ends a pan
func (z *Zoomed) Release() {
	z.updating = false
}

// Pinch zooms the view about its centre
func (z *Zoomed) Pinch(factor float64) Outcome {
	if factor <= 0 || factor == 1 {
		return Ignored
	}
	z.s.Zoom(factor, geom.Point{}, scale.ZoomedView)
	z.s.HandleMovement(scale.ZoomedView)
	return Moved
}
