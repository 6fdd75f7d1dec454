package geom

import (
	"math"
	"sort"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func nearPt(a, b Point) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func TestApplyZoomAndPan(t *testing.T) {
	cases := []struct {
		p, center Point
		scale     float64
		want      Point
	}{
		{Pt(10, 10), Pt(0, 0), 2, Pt(20, 20)},
		{Pt(10, 10), Pt(10, 10), 5, Pt(10, 10)},
		{Pt(0, 0), Pt(50, 100), 0.5, Pt(25, 50)},
	}
	for _, tc := range cases {
		if got := ApplyZoom(tc.p, tc.scale, tc.center); !nearPt(got, tc.want) {
			t.Fatalf("ApplyZoom(%v, %v, %v) = %v, want %v", tc.p, tc.scale, tc.center, got, tc.want)
		}
	}

	if got := ApplyPan(Pt(1, 2), Pt(-3, 4)); got != Pt(-2, 6) {
		t.Fatalf("ApplyPan = %v, want (-2, 6)", got)
	}
}

func TestSarrusSatisfiedByEndpoints(t *testing.T) {
	l := Ln(Pt(3, -2), Pt(7, 11))
	a, b, c := Sarrus(l)
	for _, p := range []Point{l.P0, l.P1} {
		if v := a*p.X + b*p.Y + c; !near(v, 0) {
			t.Fatalf("line equation at %v = %v, want 0", p, v)
		}
	}
}

func TestIntersect(t *testing.T) {
	cases := []struct {
		name   string
		l1, l2 Line
		want   Point
		ok     bool
	}{
		{"diagonals", Ln(Pt(0, 0), Pt(10, 10)), Ln(Pt(0, 10), Pt(10, 0)), Pt(5, 5), true},
		{"vertical first", Ln(Pt(4, 0), Pt(4, 100)), Ln(Pt(0, 20), Pt(10, 20)), Pt(4, 20), true},
		{"horizontal first", Ln(Pt(0, 20), Pt(10, 20)), Ln(Pt(4, 0), Pt(4, 100)), Pt(4, 20), true},
		{"extended", Ln(Pt(0, 0), Pt(1, 1)), Ln(Pt(10, 0), Pt(10, 1)), Pt(10, 10), true},
		{"parallel", Ln(Pt(0, 0), Pt(10, 0)), Ln(Pt(0, 5), Pt(10, 5)), Point{}, false},
		{"degenerate", Ln(Pt(1, 1), Pt(1, 1)), Ln(Pt(0, 5), Pt(10, 5)), Point{}, false},
	}
	for _, tc := range cases {
		got, ok := Intersect(tc.l1, tc.l2)
		if ok != tc.ok {
			t.Fatalf("%s: Intersect ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && !nearPt(got, tc.want) {
			t.Fatalf("%s: Intersect = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInHitbox(t *testing.T) {
	if !InHitbox(Pt(0, 0), Pt(39, 0)) {
		t.Fatalf("InHitbox at distance 39 = false, want true")
	}
	if InHitbox(Pt(0, 0), Pt(40, 0)) {
		t.Fatalf("InHitbox at distance 40 = true, want false")
	}
	if !InHitboxWithin(Pt(0, 0), Pt(3, 4), 5.5) {
		t.Fatalf("InHitboxWithin(5.5) at distance 5 = false, want true")
	}
}

func TestBoundingBoxOutside(t *testing.T) {
	screen := Size{Width: 100, Height: 100}
	bb := NewBoundingBox()
	bb.Expand(Pt(-20, 10))
	bb.Expand(Pt(-5, 30))
	if !bb.Outside(screen) {
		t.Fatalf("box %v should be outside %v", bb, screen)
	}
	bb.Expand(Pt(1, 30))
	if bb.Outside(screen) {
		t.Fatalf("box %v should overlap %v", bb, screen)
	}
}

func TestCubicRoots(t *testing.T) {
	cases := []struct {
		name       string
		a, b, c, d float64
		want       []float64
	}{
		// (t-0.2)(t-0.5)(t-0.9)
		{"three real", 1, -1.6, 0.73, -0.09, []float64{0.2, 0.5, 0.9}},
		// t^3 = 0.125, with a complex pair
		{"one real", 1, 0, 0, -0.125, []float64{0.5}},
		// (t-0.5)(t-2)(t+1): only 0.5 in [0, 1]
		{"filtered", 1, -1.5, -1.5, 1, []float64{0.5}},
		// (t-0.3)(t-0.7) with no cubic term
		{"quadratic", 0, 1, -1, 0.21, []float64{0.3, 0.7}},
		{"linear", 0, 0, 4, -1, []float64{0.25}},
		{"linear outside", 0, 0, 1, -2, nil},
	}
	for _, tc := range cases {
		roots := CubicRoots(tc.a, tc.b, tc.c, tc.d)
		var got []float64
		for _, r := range roots {
			if r != NoRoot {
				got = append(got, r)
			}
		}
		sort.Float64s(got)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: CubicRoots = %v, want %v", tc.name, roots, tc.want)
		}
		for i := range got {
			if math.Abs(got[i]-tc.want[i]) > 1e-6 {
				t.Fatalf("%s: CubicRoots = %v, want %v", tc.name, roots, tc.want)
			}
		}
	}
}

func TestCubicIntersectLine(t *testing.T) {
	arch := Cubic{P0: Pt(0, 0), C1: Pt(0, 100), C2: Pt(100, 100), P3: Pt(100, 0)}
	flat := Cubic{P0: Pt(0, 0), C1: Pt(1, 0), C2: Pt(2, 0), P3: Pt(3, 0)}

	cases := []struct {
		name  string
		curve Cubic
		line  Line
		check func(Point) bool
		ok    bool
	}{
		{"vertical through flat", flat, Ln(Pt(1.5, -1), Pt(1.5, 1)),
			func(p Point) bool { return nearPt(p, Pt(1.5, 0)) }, true},
		{"horizontal through arch", arch, Ln(Pt(-10, 50), Pt(110, 50)),
			func(p Point) bool { return math.Abs(p.Y-50) < 1e-6 }, true},
		{"apex", arch, Ln(Pt(50, -10), Pt(50, 200)),
			func(p Point) bool { return nearPt(p, Pt(50, 75)) }, true},
		{"above arch", arch, Ln(Pt(-10, 200), Pt(110, 200)), nil, false},
		{"segment too short", arch, Ln(Pt(200, 50), Pt(300, 50)), nil, false},
	}
	for _, tc := range cases {
		got, ok := tc.curve.IntersectLine(tc.line)
		if ok != tc.ok {
			t.Fatalf("%s: IntersectLine ok = %v, want %v (point %v)", tc.name, ok, tc.ok, got)
		}
		if ok && !tc.check(got) {
			t.Fatalf("%s: IntersectLine = %v", tc.name, got)
		}
	}
}

func TestCubicZoomPanMatchesPoints(t *testing.T) {
	c := Cubic{P0: Pt(0, 0), C1: Pt(10, 40), C2: Pt(60, 40), P3: Pt(80, 0)}
	center := Pt(20, 20)
	z := c.Zoom(3, center)
	if got, want := z.At(0.3), ApplyZoom(c.At(0.3), 3, center); !nearPt(got, want) {
		t.Fatalf("zoomed curve At(0.3) = %v, want %v", got, want)
	}
	p := c.Pan(Pt(5, -5))
	if got, want := p.At(0.7), ApplyPan(c.At(0.7), Pt(5, -5)); !nearPt(got, want) {
		t.Fatalf("panned curve At(0.7) = %v, want %v", got, want)
	}
}
