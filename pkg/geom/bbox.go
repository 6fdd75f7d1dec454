package geom

// HitboxTolerance is the default touch radius around a target point
const HitboxTolerance = 40.0

// InHitbox reports whether p is strictly closer than HitboxTolerance to target
func InHitbox(target, p Point) bool {
	return InHitboxWithin(target, p, HitboxTolerance)
}

// InHitboxWithin reports whether p is strictly closer than tolerance to target
func InHitboxWithin(target, p Point, tolerance float64) bool {
	return Distance(target, p) < tolerance
}

// Size represents the dimensions of a drawing surface or a text extent
type Size struct {
	Width  float64
	Height float64
}

// Center returns the middle of a surface of this size
func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// IsZero reports whether the size has no area
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Point // Minimum (top-left) corner
	Max Point // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Point{X: 1e9, Y: 1e9},
		Max: Point{X: -1e9, Y: -1e9},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a point
func (bb *BoundingBox) Expand(p Point) {
	if p.X < bb.Min.X {
		bb.Min.X = p.X
	}
	if p.Y < bb.Min.Y {
		bb.Min.Y = p.Y
	}
	if p.X > bb.Max.X {
		bb.Max.X = p.X
	}
	if p.Y > bb.Max.Y {
		bb.Max.Y = p.Y
	}
}

// Contains checks if a point is within the bounding box
func (bb BoundingBox) Contains(p Point) bool {
	return p.X >= bb.Min.X && p.X <= bb.Max.X &&
		p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// Intersects checks if two bounding boxes intersect
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Outside reports whether the box lies entirely outside a screen of the given size
func (bb BoundingBox) Outside(screen Size) bool {
	return bb.Max.X < 0 || bb.Min.X > screen.Width ||
		bb.Max.Y < 0 || bb.Min.Y > screen.Height
}

// InsideScreen reports whether p lies on a screen of the given size,
// allowing tolerance units of slack on every border.
func InsideScreen(p Point, screen Size, tolerance float64) bool {
	return !(p.X < -tolerance ||
		p.X > screen.Width+tolerance ||
		p.Y < -tolerance ||
		p.Y > screen.Height+tolerance)
}

// ScreenBorders returns the top, bottom, left and right borders of a screen
func ScreenBorders(screen Size) [4]Line {
	w, h := screen.Width, screen.Height
	return [4]Line{
		{P0: Pt(0, 0), P1: Pt(w, 0)},
		{P0: Pt(0, h), P1: Pt(w, h)},
		{P0: Pt(0, 0), P1: Pt(0, h)},
		{P0: Pt(w, 0), P1: Pt(w, h)},
	}
}
