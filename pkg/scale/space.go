package scale

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/nomograph/pkg/geom"
)

// Space selects the coordinate system a scale's geometry is expressed in
type Space int

const (
	// TopView is the primary, full nomogram view
	TopView Space = iota
	// ZoomedView is the detail view centred on one scale's value
	ZoomedView
	// BezierAux is the hidden copy of the straight scales a curved scale
	// uses to map values while the zoomed view moves independently
	BezierAux
)

// String returns the space name
func (s Space) String() string {
	switch s {
	case TopView:
		return "top"
	case ZoomedView:
		return "zoomed"
	case BezierAux:
		return "bezier-aux"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}

// view returns the graduation slot of a space; BezierAux carries no graduations
func (s Space) view() (int, bool) {
	switch s {
	case TopView:
		return 0, true
	case ZoomedView:
		return 1, true
	}
	return 0, false
}

// Errors returned by coordinate lookups
var (
	ErrNoAuxSpace   = errors.New("scale: no auxiliary coordinates")
	ErrUnknownSpace = errors.New("scale: unknown space")
	ErrNoPoint      = errors.New("scale: value has no position")
)

// Point is one logical scale position carried in every space at once.
// Aux is only present on the straight scales that back a curved scale.
type Point struct {
	Top    geom.Point
	Zoomed geom.Point
	Aux    *geom.Point
}

// Same returns a Point with identical top and zoomed coordinates and no
// auxiliary copy
func Same(p geom.Point) Point {
	return Point{Top: p, Zoomed: p}
}

// SameWithAux returns a Point with identical coordinates in all three spaces
func SameWithAux(p geom.Point) Point {
	aux := p
	return Point{Top: p, Zoomed: p, Aux: &aux}
}

// At returns the coordinates in the given space
func (p Point) At(space Space) (geom.Point, error) {
	switch space {
	case TopView:
		return p.Top, nil
	case ZoomedView:
		return p.Zoomed, nil
	case BezierAux:
		if p.Aux == nil {
			return geom.Point{}, ErrNoAuxSpace
		}
		return *p.Aux, nil
	}
	return geom.Point{}, fmt.Errorf("%w: %d", ErrUnknownSpace, int(space))
}

// Set replaces the coordinates in the given space
func (p *Point) Set(space Space, q geom.Point) error {
	switch space {
	case TopView:
		p.Top = q
	case ZoomedView:
		p.Zoomed = q
	case BezierAux:
		if p.Aux == nil {
			return ErrNoAuxSpace
		}
		aux := q
		p.Aux = &aux
	default:
		return fmt.Errorf("%w: %d", ErrUnknownSpace, int(space))
	}
	return nil
}

// update applies f to the coordinates of one space; absent aux copies are left alone
func (p *Point) update(space Space, f func(geom.Point) geom.Point) {
	if q, err := p.At(space); err == nil {
		_ = p.Set(space, f(q))
	}
}

// Equation tags the role a scale plays in the governing equation
type Equation int

const (
	Input1 Equation = iota
	Input2
	Output
)

// String returns the equation tag name
func (e Equation) String() string {
	switch e {
	case Input1:
		return "input1"
	case Input2:
		return "input2"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("Equation(%d)", int(e))
	}
}
