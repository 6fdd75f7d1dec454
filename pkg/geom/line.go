package geom

import "math"

// Line is the infinite line through P0 and P1.
// Some callers also treat it as the segment P0..P1 (see Cubic.IntersectLine).
type Line struct {
	P0 Point
	P1 Point
}

// Ln is shorthand for Line{P0: p0, P1: p1}
func Ln(p0, p1 Point) Line {
	return Line{P0: p0, P1: p1}
}

// Direction returns P1 - P0
func (l Line) Direction() Point {
	return l.P1.Sub(l.P0)
}

// Sarrus expands the determinant
//
//	| x0  x1  -1 |
//	| y0  y1  -1 |
//	|  1   1   1 |
//
// written for an unknown point (X, Y) in place of the third column, and
// returns the coefficients of X and Y and the independent term, so that
// coefX*X + coefY*Y + indep = 0 holds for every point of the line.
func Sarrus(l Line) (coefX, coefY, indep float64) {
	coefX = l.P0.Y - l.P1.Y
	coefY = l.P1.X - l.P0.X
	indep = l.P0.X*l.P1.Y - l.P0.Y*l.P1.X
	return coefX, coefY, indep
}

// parallelEpsilon is the relative determinant below which two lines are
// considered parallel
const parallelEpsilon = 1e-12

// Intersect returns the intersection point of two infinite lines.
// ok is false when the lines are parallel, coincident or degenerate.
func Intersect(l1, l2 Line) (p Point, ok bool) {
	a1, b1, c1 := Sarrus(l1)
	a2, b2, c2 := Sarrus(l2)

	det := a1*b2 - a2*b1
	scale := (math.Abs(a1) + math.Abs(b1)) * (math.Abs(a2) + math.Abs(b2))
	if scale == 0 || math.Abs(det) <= parallelEpsilon*scale {
		return Point{}, false
	}

	p = Point{
		X: (b1*c2 - b2*c1) / det,
		Y: (a2*c1 - a1*c2) / det,
	}
	if !p.IsFinite() {
		return Point{}, false
	}
	return p, true
}
