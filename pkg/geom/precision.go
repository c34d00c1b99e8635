package geom

import "gonum.org/v1/gonum/floats/scalar"

// Precision is the number of decimal places kept when comparing computed
// values. Two values are equal at a precision when their difference rounds
// to zero.
type Precision int

// DefaultPrecision is used by every shape predicate.
const DefaultPrecision Precision = 15

// Round rounds x to p decimal places.
func (p Precision) Round(x float64) float64 {
	return scalar.Round(x, int(p))
}

// Equal reports whether a and b agree to p decimal places.
func (p Precision) Equal(a, b float64) bool {
	if a == b {
		return true
	}
	return p.Round(a-b) == 0
}

// EqualPoints reports whether a and b coincide to p decimal places.
func (p Precision) EqualPoints(a, b Point) bool {
	return p.Round(a.Distance(b)) == 0
}

// EqualPoints reports whether a and b coincide at DefaultPrecision.
func EqualPoints(a, b Point) bool {
	return DefaultPrecision.EqualPoints(a, b)
}

// DedupPoints returns pts with points coinciding at precision p collapsed
// to their first occurrence. Order is preserved.
func DedupPoints(pts []Point, p Precision) []Point {
	out := make([]Point, 0, len(pts))
	for _, pt := range pts {
		if !containsPoint(out, pt, p) {
			out = append(out, pt)
		}
	}
	return out
}

// RemovePoints returns pts without the first occurrence of each point in
// drop, matching at precision p.
func RemovePoints(pts []Point, drop []Point, p Precision) []Point {
	out := append([]Point(nil), pts...)
	for _, d := range drop {
		for i, pt := range out {
			if p.EqualPoints(pt, d) {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

func containsPoint(pts []Point, pt Point, p Precision) bool {
	for _, q := range pts {
		if p.EqualPoints(q, pt) {
			return true
		}
	}
	return false
}
