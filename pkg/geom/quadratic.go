package geom

import (
	"math"
	"sort"
)

// QuadraticRoots returns the distinct real roots of a·x² + b·x + c = 0 in
// ascending order. A discriminant that rounds to zero at DefaultPrecision
// yields a single double root. When a is zero the equation is solved as
// linear; when a and b are both zero there are no isolated roots.
func QuadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}

	disc := b*b - 4*a*c
	if DefaultPrecision.Round(disc) == 0 {
		return []float64{-b / (2 * a)}
	}
	if disc < 0 {
		return nil
	}

	// Citardauq form avoids cancellation when b² ≫ 4ac.
	q := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	r1 := q / a
	if q == 0 {
		return []float64{r1}
	}
	r2 := c / q
	roots := []float64{r1, r2}
	sort.Float64s(roots)
	if roots[0] == roots[1] {
		return roots[:1]
	}
	return roots
}
