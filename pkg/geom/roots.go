package geom

import "math"

// NoRoot marks a slot of CubicRoots that holds no root in [0, 1]
const NoRoot = -1.0

// CubicRoots solves a*t^3 + b*t^2 + c*t + d = 0 with Cardano's method and
// returns up to three real roots. Every root outside [0, 1], and every
// member of a complex conjugate pair, is reported as NoRoot.
//
// A vanishing cubic coefficient degrades to the quadratic or linear equation.
func CubicRoots(a, b, c, d float64) [3]float64 {
	t := [3]float64{NoRoot, NoRoot, NoRoot}

	A := b / a
	B := c / a
	C := d / a
	if !isFinite(A) || !isFinite(B) || !isFinite(C) {
		return quadraticRoots(b, c, d)
	}

	Q := (3*B - A*A) / 9
	R := (9*A*B - 27*C - 2*A*A*A) / 54
	D := Q*Q*Q + R*R

	if D >= 0 {
		sq := math.Sqrt(D)
		S := sign(R+sq) * math.Pow(math.Abs(R+sq), 1.0/3)
		T := sign(R-sq) * math.Pow(math.Abs(R-sq), 1.0/3)

		t[0] = -A/3 + (S + T)
		t[1] = -A/3 - (S+T)/2
		t[2] = t[1]

		// Complex pair
		if im := math.Abs(math.Sqrt(3) * (S - T) / 2); im != 0 {
			t[1] = NoRoot
			t[2] = NoRoot
		}
	} else {
		// acos domain can be overshot by rounding
		arg := math.Max(-1, math.Min(1, R/math.Sqrt(-(Q*Q*Q))))
		th := math.Acos(arg)
		m := 2 * math.Sqrt(-Q)
		t[0] = m*math.Cos(th/3) - A/3
		t[1] = m*math.Cos((th+2*math.Pi)/3) - A/3
		t[2] = m*math.Cos((th+4*math.Pi)/3) - A/3
	}

	return unitInterval(t)
}

// quadraticRoots solves a*t^2 + b*t + c = 0, with the same reporting
// convention as CubicRoots
func quadraticRoots(a, b, c float64) [3]float64 {
	t := [3]float64{NoRoot, NoRoot, NoRoot}

	sc1 := b / a
	sc0 := c / a
	if !isFinite(sc0) || !isFinite(sc1) {
		// Linear: b*t + c = 0
		if r := -c / b; isFinite(r) {
			t[0] = r
		}
		return unitInterval(t)
	}

	disc := sc1*sc1 - 4*sc0
	switch {
	case disc < 0:
		return t
	case disc == 0:
		t[0] = -0.5 * sc1
	default:
		// Numerically stable pair
		r1 := -0.5 * (sc1 + math.Copysign(math.Sqrt(disc), sc1))
		t[0] = r1
		if r2 := sc0 / r1; isFinite(r2) {
			t[1] = r2
		}
	}
	return unitInterval(t)
}

func unitInterval(t [3]float64) [3]float64 {
	for i, r := range t {
		if !(r >= 0 && r <= 1) {
			t[i] = NoRoot
		}
	}
	return t
}

// sign returns -1 for negative x and 1 otherwise (including zero)
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
