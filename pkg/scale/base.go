// Package scale implements the calibrated axes of a nomogram: straight
// scales with linear or logarithmic value mapping, curved scales fitted with
// a cubic Bézier, and the graduation engine that keeps their tick marks in
// step with zoom and pan.
package scale

import (
	"io"
	"math"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/sirupsen/logrus"
)

// Scale is the behaviour shared by straight and curved scales
type Scale interface {
	// Core exposes the state common to every scale kind
	Core() *Base

	// BuildScale recomputes geometry and the top view graduations
	BuildScale()

	// Display recentres the zoomed view when needed and returns the
	// primitives that draw the scale in the given space
	Display(space Space) (Drawing, error)

	// PointAt maps a value to coordinates; ok is false when the value has
	// no representable position
	PointAt(value float64, space Space) (geom.Point, bool)

	Translate(delta geom.Point, space Space)
	Zoom(factor float64, center geom.Point, space Space)

	// HandleMovement resynchronises the graduation set after a move
	HandleMovement(space Space)
}

// Config describes a scale at construction time
type Config struct {
	Name     string
	Unit     string
	Factor   float64
	Exponent float64

	Value      float64
	StartValue float64
	EndValue   float64

	Start Point
	End   Point

	Fixed    bool
	Equation Equation
	Log      bool // logarithmic value mapping

	Screen       geom.Size // top view surface
	ZoomedScreen geom.Size // detail view surface, may be set later

	Measurer TextMeasurer
	Logger   *logrus.Entry
}

// graduator is implemented by each scale kind to plug its own geometry into
// the shared graduation engine
type graduator interface {
	graduation(value float64, space Space) (Graduation, bool)
	reappears(border geom.Line, space Space) bool
}

// Base holds the state and behaviour shared by straight and curved scales
type Base struct {
	Name     string
	Unit     string
	Factor   float64
	Exponent float64

	Value      float64
	StartValue float64
	EndValue   float64

	Start Point
	End   Point

	Fixed    bool
	Equation Equation
	Log      bool

	// Index is the left to right slot of the scale: 0, 1 or 2
	Index int

	direction float64
	zoom      [2]float64
	zoomLevel [2]int
	grads     [2]Orders
	screens   [2]geom.Size

	measurer TextMeasurer
	log      *logrus.Entry
	shape    graduator
}

func newBase(cfg Config) Base {
	b := Base{
		Name:       cfg.Name,
		Unit:       cfg.Unit,
		Factor:     cfg.Factor,
		Exponent:   cfg.Exponent,
		Value:      cfg.Value,
		StartValue: cfg.StartValue,
		EndValue:   cfg.EndValue,
		Start:      cfg.Start,
		End:        cfg.End,
		Fixed:      cfg.Fixed,
		Equation:   cfg.Equation,
		Log:        cfg.Log,
		Index:      -1,
		direction:  1,
		zoom:       [2]float64{1, 1},
		zoomLevel:  [2]int{1, 1},
		screens:    [2]geom.Size{cfg.Screen, cfg.ZoomedScreen},
		measurer:   cfg.Measurer,
		log:        cfg.Logger,
	}
	if b.measurer == nil {
		b.measurer = EstimateText{}
	}
	if b.log == nil {
		b.log = Discard()
	}
	b.log = b.log.WithField("scale", b.Name)
	return b
}

// Discard returns a log entry that drops everything
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Core implements Scale
func (b *Base) Core() *Base {
	return b
}

// Direction is 1 when values grow from start to end and -1 otherwise
func (b *Base) Direction() float64 {
	return b.direction
}

func (b *Base) updateDirection() {
	b.direction = 1
	if b.StartValue > b.EndValue {
		b.direction = -1
	}
}

// IsInsideBounds reports whether v lies within the scale range, in either order
func (b *Base) IsInsideBounds(v float64) bool {
	lo, hi := b.StartValue, b.EndValue
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// Screen returns the surface size used for a space.
// The auxiliary space shares the detail view surface.
func (b *Base) Screen(space Space) geom.Size {
	if space == TopView {
		return b.screens[0]
	}
	return b.screens[1]
}

// SetScreen records the surface size of a view
func (b *Base) SetScreen(space Space, size geom.Size) {
	if space == TopView {
		b.screens[0] = size
		return
	}
	b.screens[1] = size
}

// ZoomFactor returns the accumulated zoom of a view
func (b *Base) ZoomFactor(space Space) float64 {
	if v, ok := space.view(); ok {
		return b.zoom[v]
	}
	return 1
}

// ZoomLevel returns the graduation refinement depth of a view, starting at 1
func (b *Base) ZoomLevel(space Space) int {
	if v, ok := space.view(); ok {
		return b.zoomLevel[v]
	}
	return 0
}

// Graduations returns a copy of the graduation orders of a view
func (b *Base) Graduations(space Space) Orders {
	v, ok := space.view()
	if !ok {
		return Orders{}
	}
	o := b.grads[v]
	o.First.Graduations = append([]Graduation(nil), o.First.Graduations...)
	o.Second.Graduations = append([]Graduation(nil), o.Second.Graduations...)
	return o
}

// ends returns the start and end coordinates in a space
func (b *Base) ends(space Space) (geom.Point, geom.Point, error) {
	start, err := b.Start.At(space)
	if err != nil {
		return geom.Point{}, geom.Point{}, err
	}
	end, err := b.End.At(space)
	if err != nil {
		return geom.Point{}, geom.Point{}, err
	}
	return start, end, nil
}

// IsInsideScreen reports whether p lies on the surface of the given space
func (b *Base) IsInsideScreen(p geom.Point, space Space) bool {
	return geom.InsideScreen(p, b.Screen(space), 0.1)
}

// GraduationInsideScreen is false only when the graduation hitbox lies
// entirely off the surface of the given space
func (b *Base) GraduationInsideScreen(g Graduation, space Space) bool {
	return !g.HitBox().Outside(b.Screen(space))
}

// Translate moves the scale and its graduations within one space
func (b *Base) Translate(delta geom.Point, space Space) {
	pan := func(p geom.Point) geom.Point { return geom.ApplyPan(p, delta) }
	b.Start.update(space, pan)
	b.End.update(space, pan)
	b.eachGraduation(space, pan)
}

// Zoom scales the scale and its graduations about center.
// The detail view always zooms about its own centre.
func (b *Base) Zoom(factor float64, center geom.Point, space Space) {
	if space == ZoomedView {
		center = b.Screen(ZoomedView).Center()
	}
	if v, ok := space.view(); ok {
		b.zoom[v] *= factor
	}
	zoom := func(p geom.Point) geom.Point { return geom.ApplyZoom(p, factor, center) }
	b.Start.update(space, zoom)
	b.End.update(space, zoom)
	b.eachGraduation(space, zoom)
}

func (b *Base) eachGraduation(space Space, f func(geom.Point) geom.Point) {
	v, ok := space.view()
	if !ok {
		return
	}
	orders := &b.grads[v]
	for i := range orders.First.Graduations {
		orders.First.Graduations[i].Point = f(orders.First.Graduations[i].Point)
	}
	for i := range orders.Second.Graduations {
		orders.Second.Graduations[i].Point = f(orders.Second.Graduations[i].Point)
	}
}

// DisplayedValue rounds the value to a precision that follows the zoom:
// the closer the view, the more decimals are shown.
func (b *Base) DisplayedValue(space Space) float64 {
	span := math.Abs(b.EndValue - b.StartValue)
	magnitude := math.Round(math.Log10(span/b.ZoomFactor(space))) - 3
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return b.Value
	}
	if magnitude >= 0 {
		return Round(b.Value, 0)
	}
	return Round(b.Value, int(-magnitude))
}

// copyTopGraduations seeds the detail view with the top view graduations
func (b *Base) copyTopGraduations() {
	top := b.Graduations(TopView)
	b.grads[1] = top
	b.zoomLevel[1] = b.zoomLevel[0]
}
