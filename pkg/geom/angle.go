package geom

import "math"

// NormalizeAngle reduces angle to a single turn. With useZeroBoundary the
// result lies in [0, 360); otherwise in (0, 360], so that a multiple of 360
// maps to 360. Start angles use the zero boundary and end angles do not,
// which keeps a full circle distinct from a zero-span arc.
func NormalizeAngle(angle float64, useZeroBoundary bool) float64 {
	n := math.Mod(angle, 360.0)
	switch {
	case n < 0:
		n += 360.0
		// A tiny negative remainder can round up to a full turn.
		if n == 360.0 && useZeroBoundary {
			n = 0
		}
	case n == 0:
		// Mod keeps the sign, so -360 would otherwise come back as -0.
		n = 0
		if !useZeroBoundary {
			n = 360.0
		}
	}
	return n
}

// IncludesAngle reports whether angle lies on the counterclockwise span from
// start to end. The span wraps through 0 when start > end.
func IncludesAngle(angle, start, end float64) bool {
	a := NormalizeAngle(angle, true)
	switch {
	case start <= end && a >= start && a <= end:
		return true
	case start > end && (a >= start || a <= end):
		return true
	case end == 360.0 && a == 0:
		return true
	}
	return false
}

// AngleDifference returns the counterclockwise angle from start to end.
func AngleDifference(start, end float64) float64 {
	start = NormalizeAngle(start, true)
	end = NormalizeAngle(end, true)
	if end < start {
		end += 360.0
	}
	return NormalizeAngle(end-start, true)
}

// AngleAtPoint returns the direction of p as seen from center, in [0, 360).
// p does not need to lie on any particular circle.
func AngleAtPoint(p, center Point) float64 {
	rad := math.Atan2(p.Y-center.Y, p.X-center.X)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	deg := rad * 180.0 / math.Pi
	if deg >= 360.0 {
		deg = 0
	}
	return deg
}

// PointAtAngle returns the point at angle degrees on the circle with the
// given center and radius.
func PointAtAngle(angle float64, center Point, radius float64) Point {
	rad := angle * math.Pi / 180.0
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}
