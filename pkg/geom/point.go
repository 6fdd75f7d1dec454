// Package geom holds the plane geometry used by nomogram scales: points,
// affine zoom and pan, line intersection, hitboxes and cubic Bézier curves.
package geom

import "math"

// Point represents a 2D coordinate in screen units.
// Y grows downward, as on every drawing surface the scales are laid out on.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul scales both components by s
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of p and q seen as vectors
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// IsFinite reports whether neither component is NaN or infinite
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// ApplyZoom scales a point about a center: p' = (p - center) * scale + center
func ApplyZoom(p Point, scale float64, center Point) Point {
	return p.Sub(center).Mul(scale).Add(center)
}

// ApplyPan translates a point: p' = p + translation
func ApplyPan(p Point, translation Point) Point {
	return p.Add(translation)
}

// isFinite returns true if x is neither infinite nor NaN.
func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
