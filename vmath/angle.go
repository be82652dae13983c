package vmath

import "math"

const (
	FullTurn    = 360.0
	HalfTurn    = 180.0
	degToRad    = math.Pi / HalfTurn
	snapEpsilon = 1e-9
)

// NormalizeAngle wraps degrees into [0, 360)
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, FullTurn)
	if deg < 0 {
		deg += FullTurn
	}
	// Mod of a tiny negative can land exactly on 360
	if deg >= FullTurn {
		deg -= FullTurn
	}
	return deg
}

// MirrorAngle applies a parent mirror state to a relative angle
// X mirror maps a to 180-a, then Y mirror maps the result to 360-a
func MirrorAngle(deg float64, xFlip, yFlip bool) float64 {
	if xFlip {
		deg = HalfTurn - deg
	}
	if yFlip {
		deg = FullTurn - deg
	}
	return deg
}

// ComposeAngle returns the absolute angle of a child given its parent's absolute state
func ComposeAngle(parentDeg float64, parentXFlip, parentYFlip bool, relDeg float64) float64 {
	return NormalizeAngle(parentDeg + MirrorAngle(relDeg, parentXFlip, parentYFlip))
}

// Direction returns cos and sin of an angle in degrees, exact on the axes
// On the y-down plane the screen-space heading is (cos, -sin), so 90 points up
func Direction(deg float64) (cos, sin float64) {
	switch deg {
	case 0:
		return 1, 0
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	case 270:
		return 0, -1
	}
	r := deg * degToRad
	return snap(math.Cos(r)), snap(math.Sin(r))
}

// snap zeroes values within rounding noise so axis-aligned rotations stay exact
func snap(v float64) float64 {
	if math.Abs(v) < snapEpsilon {
		return 0
	}
	return v
}
