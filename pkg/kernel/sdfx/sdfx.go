// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxRegion wraps an sdf.SDF2 to implement kernel.Region.
type sdfxRegion struct {
	s sdf.SDF2
}

// Distance evaluates the signed distance field at p.
func (r *sdfxRegion) Distance(p geom.Point) float64 {
	return r.s.Evaluate(p.V2())
}

// Bounds returns the axis-aligned bounding box.
func (r *sdfxRegion) Bounds() (min, max geom.Point) {
	bb := r.s.BoundingBox()
	return geom.PointFromV2(bb.Min), geom.PointFromV2(bb.Max)
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF2 from a kernel.Region.
func unwrap(r kernel.Region) sdf.SDF2 {
	return r.(*sdfxRegion).s
}

// wrap creates a kernel.Region from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Region {
	return &sdfxRegion{s: s}
}

// Polygon creates a region bounded by the given vertices. A closing vertex
// equal to the first is dropped; sdfx closes the loop itself.
func (k *SdfxKernel) Polygon(vertices []geom.Point) (kernel.Region, error) {
	n := len(vertices)
	if n > 1 && geom.EqualPoints(vertices[0], vertices[n-1]) {
		n--
	}
	if n < 3 {
		return nil, fmt.Errorf("sdfx polygon: need at least 3 vertices, got %d", n)
	}
	vs := make([]v2.Vec, n)
	for i := 0; i < n; i++ {
		vs[i] = vertices[i].V2()
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx polygon: %w", err)
	}
	return wrap(s), nil
}

// Circle creates a disk of the given radius centred on center.
func (k *SdfxKernel) Circle(center geom.Point, radius float64) (kernel.Region, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx circle: %w", err)
	}
	return wrap(sdf.Transform2D(s, sdf.Translate2d(center.V2()))), nil
}

// Union returns the union of two regions.
func (k *SdfxKernel) Union(a, b kernel.Region) kernel.Region {
	return wrap(sdf.Union2D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Region) kernel.Region {
	return wrap(sdf.Difference2D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two regions.
func (k *SdfxKernel) Intersection(a, b kernel.Region) kernel.Region {
	return wrap(sdf.Intersect2D(unwrap(a), unwrap(b)))
}

// Translate moves a region by v.
func (k *SdfxKernel) Translate(r kernel.Region, v geom.Vector) kernel.Region {
	m := sdf.Translate2d(v2.Vec{X: v.X, Y: v.Y})
	return wrap(sdf.Transform2D(unwrap(r), m))
}

// Rotate rotates a region counter-clockwise about the origin by degrees.
func (k *SdfxKernel) Rotate(r kernel.Region, degrees float64) kernel.Region {
	m := sdf.Rotate2d(degrees * math.Pi / 180.0)
	return wrap(sdf.Transform2D(unwrap(r), m))
}
