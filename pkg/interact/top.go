// Package interact turns decoded pointer gestures into nomogram edits.
//
// Top drives the overview where every scale is drawn: a pan either drags the
// value of an unfixed scale or moves the whole nomogram, a pinch zooms it and
// a long press fixes a scale. Zoomed drives the detail view of one scale.
package interact

import (
	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/sirupsen/logrus"
)

// Outcome tells the caller what a gesture did
type Outcome int

const (
	// Ignored means the gesture changed nothing
	Ignored Outcome = iota
	// Dragged means a value was edited
	Dragged
	// Moved means the scales were translated or zoomed
	Moved
	// Fixed means a scale was fixed
	Fixed
)

func (o Outcome) String() string {
	switch o {
	case Dragged:
		return "dragged"
	case Moved:
		return "moved"
	case Fixed:
		return "fixed"
	default:
		return "ignored"
	}
}

// Option configures a controller
type Option func(*options)

type options struct {
	hitbox float64
	log    *logrus.Entry
}

func defaults(opts []Option) options {
	o := options{hitbox: geom.HitboxTolerance, log: scale.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHitbox sets the distance under which the finger grabs a value
func WithHitbox(tolerance float64) Option {
	return func(o *options) { o.hitbox = tolerance }
}

// WithLogger sets the log entry of the controller
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Top handles the gestures of the overview
type Top struct {
	n          *nomogram.Nomogram
	updating   map[scale.Equation]bool
	zoomCenter geom.Point
	opts       options
}

// NewTop returns a controller for the overview of n
func NewTop(n *nomogram.Nomogram, opts ...Option) *Top {
	o := defaults(opts)
	o.log = o.log.WithField("view", scale.TopView)
	return &Top{n: n, updating: make(map[scale.Equation]bool), opts: o}
}

// SetNomogram swaps the controlled nomogram, after a rebuild for instance
func (t *Top) SetNomogram(n *nomogram.Nomogram) {
	t.n = n
	t.Release()
}

// Updating reports whether the value of the scale playing eq is being dragged
func (t *Top) Updating(eq scale.Equation) bool {
	return t.updating[eq]
}

func (t *Top) dragging() bool {
	for _, v := range t.updating {
		if v {
			return true
		}
	}
	return false
}

// Pan handles a pan step: finger is the current position and translation
// the movement since the previous step.
//
// An unfixed scale whose value lies under the finger, or which is already
// being dragged, takes the value under the finger. When no value is being
// dragged the whole nomogram follows the finger.
func (t *Top) Pan(finger, translation geom.Point) Outcome {
	for _, s := range t.n.Scales() {
		core := s.Core()
		if core.Fixed {
			continue
		}
		if !t.updating[core.Equation] {
			p, ok := s.PointAt(core.Value, scale.TopView)
			if !ok || !geom.InHitboxWithin(p, finger, t.opts.hitbox) {
				continue
			}
		}
		t.updating[core.Equation] = true
		drag(t.n, s, finger, scale.TopView, t.opts.log)
	}

	if t.dragging() {
		// dragging slides the detail views
		for _, s := range t.n.Scales() {
			s.HandleMovement(scale.ZoomedView)
		}
		return Dragged
	}

	for _, s := range t.n.Scales() {
		s.Translate(translation, scale.TopView)
	}
	t.n.IndexLine.Translate(translation)
	for _, s := range t.n.Scales() {
		s.HandleMovement(scale.TopView)
	}
	return Moved
}

// Release ends a pan
func (t *Top) Release() {
	for eq := range t.updating {
		t.updating[eq] = false
	}
}

// PinchBegin registers the zoom centre for the whole pinch
func (t *Top) PinchBegin(center geom.Point) {
	t.zoomCenter = center
}

// Pinch zooms the scales and the index line by factor, relative to the
// previous pinch step
func (t *Top) Pinch(factor float64) Outcome {
	if factor <= 0 || factor == 1 {
		return Ignored
	}
	for _, s := range t.n.Scales() {
		s.Zoom(factor, t.zoomCenter, scale.TopView)
	}
	for _, s := range t.n.Scales() {
		s.HandleMovement(scale.TopView)
	}
	t.n.IndexLine.Zoom(factor, t.zoomCenter)
	return Moved
}

// LongPress fixes the unfixed scale whose value lies under the finger
func (t *Top) LongPress(finger geom.Point) (scale.Scale, Outcome) {
	for _, s := range t.n.Scales() {
		core := s.Core()
		if core.Fixed {
			continue
		}
		p, ok := s.PointAt(core.Value, scale.TopView)
		if !ok || !geom.InHitboxWithin(p, finger, t.opts.hitbox) {
			continue
		}
		if err := t.n.Fix(s); err != nil {
			t.opts.log.WithError(err).Warn("cannot fix scale")
			return nil, Ignored
		}
		return s, Fixed
	}
	return nil, Ignored
}

// drag moves the value of s to the finger. A straight scale takes the value
// of the projection of the finger; a curved scale edits the free straight
// scale instead, since the curve only approximates its variable.
func drag(n *nomogram.Nomogram, s scale.Scale, finger geom.Point, space scale.Space, log *logrus.Entry) {
	switch s := s.(type) {
	case *scale.Straight:
		p, err := s.Projection(finger, space)
		if err != nil {
			log.WithError(err).Debug("no projection")
			return
		}
		v, err := s.ValueAt(p, space)
		if err != nil {
			log.WithError(err).Debug("no value under the finger")
			return
		}
		update(n, s, v, log)

	case *scale.Curved:
		for _, other := range n.Scales() {
			oc := other.Core()
			if oc.Fixed || oc.Equation == s.Equation {
				continue
			}
			v, err := s.ValueFromProjection(finger, space)
			if err != nil {
				log.WithError(err).Debug("no value under the finger")
				continue
			}
			update(n, other, v, log)
		}
	}
}

// update applies a dragged value; values past the range are dropped
func update(n *nomogram.Nomogram, s scale.Scale, v float64, log *logrus.Entry) {
	if err := n.UpdateVariableValue(s, v); err != nil {
		log.WithFields(logrus.Fields{"scale": s.Core().Name, "value": v}).WithError(err).Debug("drag rejected")
	}
}
