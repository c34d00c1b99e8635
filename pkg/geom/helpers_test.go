package geom

import (
	"fmt"
	"math"
	"sort"
	"testing"
)

const tol = 1e-9

func approx(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= tol
}

func approxPoint(a, b Point) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y)
}

// samePoints compares two point sets ignoring order.
func samePoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]Point(nil), a...)
	b = append([]Point(nil), b...)
	less := func(pts []Point) func(i, j int) bool {
		return func(i, j int) bool {
			if !approx(pts[i].X, pts[j].X) {
				return pts[i].X < pts[j].X
			}
			return pts[i].Y < pts[j].Y
		}
	}
	sort.Slice(a, less(a))
	sort.Slice(b, less(b))
	for i := range a {
		if !approxPoint(a[i], b[i]) {
			return false
		}
	}
	return true
}

func assertPoints(t *testing.T, got, want []Point) {
	t.Helper()
	if !samePoints(got, want) {
		t.Errorf("points = %v, want %v", got, want)
	}
}

// sameValue compares derived fields, treating NaN as equal to NaN.
func sameValue(a, b any) bool {
	return fmt.Sprintf("%+v", a) == fmt.Sprintf("%+v", b)
}
