// Package kernel defines the abstract 2D region kernel interface.
// Implementations (sdfx) provide area modeling and boolean operations
// behind this interface so that clearance and containment analysis can
// swap backends without changing the rest of the system.
package kernel

import (
	"math"

	"github.com/chazu/planar/pkg/geom"
)

// Region is an opaque handle to a closed area of the plane.
// Implementations wrap their internal representation.
type Region interface {
	// Distance returns the signed distance from p to the region boundary:
	// negative inside, positive outside.
	Distance(p geom.Point) float64

	// Bounds returns the axis-aligned bounding box.
	Bounds() (min, max geom.Point)
}

// Kernel is the abstract region kernel interface.
type Kernel interface {
	// Primitives
	Polygon(vertices []geom.Point) (Region, error)
	Circle(center geom.Point, radius float64) (Region, error)

	// Boolean operations
	Union(a, b Region) Region
	Difference(a, b Region) Region
	Intersection(a, b Region) Region

	// Transforms
	Translate(r Region, v geom.Vector) Region
	Rotate(r Region, degrees float64) Region // about the origin
}

// Contains reports whether p lies inside r or on its boundary.
func Contains(r Region, p geom.Point) bool {
	return r.Distance(p) <= 0
}

// Gap returns the smallest distance from the boundary of r to any of the
// samples, regardless of which side they lie on. It is +Inf for no samples.
func Gap(r Region, samples []geom.Point) float64 {
	gap := math.Inf(1)
	for _, p := range samples {
		gap = math.Min(gap, math.Abs(r.Distance(p)))
	}
	return gap
}
