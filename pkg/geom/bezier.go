package geom

// Cubic is a cubic Bézier curve from P0 to P3 with control points C1 and C2
type Cubic struct {
	P0 Point
	C1 Point
	C2 Point
	P3 Point
}

// BezierCoeffs converts the four control values of one coordinate into the
// polynomial coefficients of t^3, t^2, t and 1.
func BezierCoeffs(p0, p1, p2, p3 float64) [4]float64 {
	return [4]float64{
		-p0 + 3*p1 - 3*p2 + p3,
		3*p0 - 6*p1 + 3*p2,
		-3*p0 + 3*p1,
		p0,
	}
}

func evalCoeffs(z [4]float64, t float64) float64 {
	return ((z[0]*t+z[1])*t+z[2])*t + z[3]
}

// At evaluates the curve at parameter t
func (c Cubic) At(t float64) Point {
	bx := BezierCoeffs(c.P0.X, c.C1.X, c.C2.X, c.P3.X)
	by := BezierCoeffs(c.P0.Y, c.C1.Y, c.C2.Y, c.P3.Y)
	return Point{X: evalCoeffs(bx, t), Y: evalCoeffs(by, t)}
}

// Zoom scales every control point about center
func (c Cubic) Zoom(scale float64, center Point) Cubic {
	return Cubic{
		P0: ApplyZoom(c.P0, scale, center),
		C1: ApplyZoom(c.C1, scale, center),
		C2: ApplyZoom(c.C2, scale, center),
		P3: ApplyZoom(c.P3, scale, center),
	}
}

// Pan translates every control point
func (c Cubic) Pan(translation Point) Cubic {
	return Cubic{
		P0: ApplyPan(c.P0, translation),
		C1: ApplyPan(c.C1, translation),
		C2: ApplyPan(c.C2, translation),
		P3: ApplyPan(c.P3, translation),
	}
}

// IntersectLine returns the first intersection between the curve and the
// segment l.P0..l.P1.
//
// The line equation A*x + B*y + C = 0 is substituted with the curve
// polynomials, giving a cubic in t. A root is accepted when t lies in [0, 1]
// and the resulting point lies on the segment. The segment parameter is
// measured along x, or along y for a vertical segment.
func (c Cubic) IntersectLine(l Line) (Point, bool) {
	lx0, ly0 := l.P0.X, l.P0.Y
	lx1, ly1 := l.P1.X, l.P1.Y

	A := ly1 - ly0
	B := lx0 - lx1
	C := lx0*(ly0-ly1) + ly0*(lx1-lx0)

	bx := BezierCoeffs(c.P0.X, c.C1.X, c.C2.X, c.P3.X)
	by := BezierCoeffs(c.P0.Y, c.C1.Y, c.C2.Y, c.P3.Y)

	roots := CubicRoots(
		A*bx[0]+B*by[0],
		A*bx[1]+B*by[1],
		A*bx[2]+B*by[2],
		A*bx[3]+B*by[3]+C,
	)

	for _, t := range roots {
		if t == NoRoot {
			continue
		}
		p := Point{X: evalCoeffs(bx, t), Y: evalCoeffs(by, t)}

		var s float64
		if lx1-lx0 != 0 {
			s = (p.X - lx0) / (lx1 - lx0)
		} else {
			s = (p.Y - ly0) / (ly1 - ly0)
		}

		if t >= 0 && t <= 1 && s >= 0 && s <= 1 && p.IsFinite() {
			return p, true
		}
	}
	return Point{}, false
}
