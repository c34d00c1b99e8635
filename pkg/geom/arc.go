package geom

import (
	"fmt"
	"math"
)

// Arc is a counterclockwise span of a circle. StartAngle lies in [0, 360)
// and EndAngle in (0, 360], so an arc from 0 to 360 is a full circle while
// an arc whose ends coincide at any other angle has zero span.
type Arc struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Angle      float64 `json:"angle"` // counterclockwise span from StartAngle to EndAngle
	StartPoint Point   `json:"start_point"`
	EndPoint   Point   `json:"end_point"`
}

// NewArc returns the arc of the circle (center, radius) running
// counterclockwise from start to end degrees.
func NewArc(center Point, radius, start, end float64) Arc {
	a := Arc{
		Center:     center,
		Radius:     radius,
		StartAngle: NormalizeAngle(start, true),
		EndAngle:   NormalizeAngle(end, false),
	}
	if a.StartAngle <= a.EndAngle {
		a.Angle = a.EndAngle - a.StartAngle
	} else {
		a.Angle = a.EndAngle - a.StartAngle + 360.0
	}
	a.StartPoint = PointAtAngle(a.StartAngle, center, radius)
	a.EndPoint = PointAtAngle(a.EndAngle, center, radius)
	return a
}

// NewCircle returns the full-circle arc.
func NewCircle(center Point, radius float64) Arc {
	return NewArc(center, radius, 0, 360)
}

// NewArcThroughPoints returns the arc of the circle (center, radius) running
// counterclockwise from the direction of start to the direction of end.
func NewArcThroughPoints(center Point, radius float64, start, end Point) Arc {
	return NewArc(center, radius, AngleAtPoint(start, center), AngleAtPoint(end, center))
}

// WithAngles returns the arc redefined over a new span.
func (a Arc) WithAngles(start, end float64) Arc { return NewArc(a.Center, a.Radius, start, end) }

// WithCenter returns the arc moved to a new center.
func (a Arc) WithCenter(c Point) Arc { return NewArc(c, a.Radius, a.StartAngle, a.EndAngle) }

// WithRadius returns the arc redefined on a circle of a new radius.
func (a Arc) WithRadius(r float64) Arc { return NewArc(a.Center, r, a.StartAngle, a.EndAngle) }

func (Arc) isShape()   {}
func (Arc) Kind() Kind { return KindArc }

// MidAngle returns the angle halfway along the span.
func (a Arc) MidAngle() float64 {
	return NormalizeAngle(a.StartAngle+a.Angle/2, true)
}

// MidPoint returns the point halfway along the span.
func (a Arc) MidPoint() Point { return a.PointAtAngle(a.MidAngle()) }

// PointAtAngle returns the point of the arc's circle at angle degrees.
func (a Arc) PointAtAngle(angle float64) Point {
	return PointAtAngle(angle, a.Center, a.Radius)
}

// Length returns the arc length of the span.
func (a Arc) Length() float64 {
	return a.Angle * math.Pi / 180.0 * a.Radius
}

// Circumference returns the perimeter of the full circle.
func (a Arc) Circumference() float64 { return 2 * math.Pi * a.Radius }

// XCoordinates returns the x coordinates where the full circle crosses the
// horizontal line at y, ignoring the span.
func (a Arc) XCoordinates(y float64) []float64 {
	dy := y - a.Center.Y
	return QuadraticRoots(1, -2*a.Center.X, a.Center.X*a.Center.X+dy*dy-a.Radius*a.Radius)
}

// YCoordinates returns the y coordinates where the full circle crosses the
// vertical line at x, ignoring the span.
func (a Arc) YCoordinates(x float64) []float64 {
	dx := x - a.Center.X
	return QuadraticRoots(1, -2*a.Center.Y, a.Center.Y*a.Center.Y+dx*dx-a.Radius*a.Radius)
}

// IsSeparateCircles reports whether the two circles are too far apart to meet.
func (a Arc) IsSeparateCircles(o Arc) bool {
	return a.Center.Distance(o.Center) > a.Radius+o.Radius
}

// IsContainedCircles reports whether one circle lies strictly inside the other.
func (a Arc) IsContainedCircles(o Arc) bool {
	return a.Center.Distance(o.Center) < math.Abs(a.Radius-o.Radius)
}

// IsEqualCircle reports whether the two arcs share a center and radius.
func (a Arc) IsEqualCircle(o Arc) bool {
	return DefaultPrecision.EqualPoints(a.Center, o.Center) &&
		DefaultPrecision.Equal(a.Radius, o.Radius)
}

// IsPointOnCircle reports whether p lies on the arc's full circle at
// the given precision.
func (a Arc) IsPointOnCircle(p Point, prec Precision) bool {
	return prec.Equal(a.Center.Distance(p), a.Radius)
}

// IncludesAngle reports whether angle lies within the span.
func (a Arc) IncludesAngle(angle float64) bool {
	return IncludesAngle(angle, a.StartAngle, a.EndAngle)
}

// IncludesAngleAtPoint reports whether the direction of p from the center
// lies within the span.
func (a Arc) IncludesAngleAtPoint(p Point) bool {
	return a.IncludesAngle(AngleAtPoint(p, a.Center))
}

// ThroughPoint reports whether p lies on the arc.
func (a Arc) ThroughPoint(p Point) bool {
	return a.IsPointOnCircle(p, DefaultPrecision) && a.IncludesAngleAtPoint(p)
}

// RadialVector returns the vector from the center to p.
func (a Arc) RadialVector(p Point) Vector { return p.Sub(a.Center) }

// RadialUnitVector returns the unit vector from the center toward p.
func (a Arc) RadialUnitVector(p Point) Vector { return a.RadialVector(p).Normalize() }

// RadialDistance returns the signed distance of p outside the circle;
// negative inside.
func (a Arc) RadialDistance(p Point) float64 {
	return a.Center.Distance(p) - a.Radius
}

// Overlaps reports whether the two arcs lie on the same circle and share
// some part of their spans.
func (a Arc) Overlaps(o Arc) bool {
	if !a.IsEqualCircle(o) {
		return false
	}
	return a.IncludesAngle(o.StartAngle) || a.IncludesAngle(o.EndAngle) ||
		o.IncludesAngle(a.StartAngle) || o.IncludesAngle(a.EndAngle)
}

// OverlapAngle returns the span, in degrees, shared by the two arcs.
func (a Arc) OverlapAngle(o Arc) float64 {
	if !a.IsEqualCircle(o) {
		return 0
	}
	switch {
	case a.IncludesAngle(o.StartAngle) && a.IncludesAngle(o.EndAngle) && o.Angle <= a.Angle:
		return o.Angle
	case o.IncludesAngle(a.StartAngle) && o.IncludesAngle(a.EndAngle):
		return a.Angle
	case a.IncludesAngle(o.StartAngle):
		return AngleDifference(o.StartAngle, a.EndAngle)
	case a.IncludesAngle(o.EndAngle):
		return AngleDifference(a.StartAngle, o.EndAngle)
	}
	return 0
}

// IntersectionsArc returns the points where the two arcs cross. Arcs on
// the same circle report none; use Overlaps for that case.
func (a Arc) IntersectionsArc(o Arc) []Point {
	if a.IsSeparateCircles(o) || a.IsContainedCircles(o) || a.IsEqualCircle(o) {
		return nil
	}

	// Solve from a fixed circle so the result does not depend on operand order.
	c0, c1 := a, o
	if circleBefore(o, a) {
		c0, c1 = o, a
	}

	d := c0.Center.Distance(c1.Center)
	r0, r1 := c0.Radius, c1.Radius
	along := (r0*r0 - r1*r1 + d*d) / (2 * d)
	hh := r0*r0 - along*along
	var h float64
	if DefaultPrecision.Round(hh) > 0 {
		h = math.Sqrt(hh)
	}

	axis := c1.Center.Sub(c0.Center)
	mid := c0.Center.Add(axis.Scale(along / d))

	var candidates []Point
	if h == 0 {
		candidates = []Point{mid}
	} else {
		off := axis.Perpendicular().Scale(h / d)
		candidates = []Point{mid.Add(off), mid.Add(off.Neg())}
	}

	var pts []Point
	for _, p := range candidates {
		if a.IncludesAngleAtPoint(p) && o.IncludesAngleAtPoint(p) {
			pts = append(pts, p)
		}
	}
	return pts
}

func circleBefore(a, b Arc) bool {
	if a.Center.X != b.Center.X {
		return a.Center.X < b.Center.X
	}
	if a.Center.Y != b.Center.Y {
		return a.Center.Y < b.Center.Y
	}
	return a.Radius < b.Radius
}

// IntersectionsLinear returns the points where l crosses the arc and lies
// within its own bounded extent.
func (a Arc) IntersectionsLinear(l Linear) []Point {
	l = derefLinear(l)
	e := l.Carrier()

	var candidates []Point
	if e.IsVertical {
		for _, y := range a.YCoordinates(e.XConstant) {
			candidates = append(candidates, Point{X: e.XConstant, Y: y})
		}
	} else {
		m, c := e.Slope, e.YIntercept
		cx, cy := a.Center.X, a.Center.Y
		qa := m*m + 1
		qb := 2 * (m*c - m*cy - cx)
		qc := (c-cy)*(c-cy) + cx*cx - a.Radius*a.Radius
		for _, x := range QuadraticRoots(qa, qb, qc) {
			candidates = append(candidates, Point{X: x, Y: e.Y(x)})
		}
	}

	var pts []Point
	for _, p := range candidates {
		if p.IsFinite() && a.IncludesAngleAtPoint(p) && l.claims(p) {
			pts = append(pts, p)
		}
	}
	return pts
}

// InterferesArc reports whether the two arcs cross or overlap.
func (a Arc) InterferesArc(o Arc) bool {
	return len(a.IntersectionsArc(o)) > 0 || a.Overlaps(o)
}

// Intersections dispatches to the pairwise rule for other.
func (a Arc) Intersections(other Shape) ([]Point, error) { return Intersect(a, other) }

// Interferes dispatches to the pairwise rule for other.
func (a Arc) Interferes(other Shape) (bool, error) { return Interfere(a, other) }

// ChordAngle returns the angle, in degrees, subtended by a chord of the
// given length on a circle of the given radius.
func ChordAngle(chord, radius float64) (float64, error) {
	if chord > 2*radius {
		return 0, fmt.Errorf("%w: chord %g exceeds diameter %g", ErrInvalidArgument, chord, 2*radius)
	}
	return 2 * math.Asin(0.5*chord/radius) * 180.0 / math.Pi, nil
}

// ArcLength returns the length of the arc cut off by a chord of the given
// length on a circle of the given radius.
func ArcLength(chord, radius float64) (float64, error) {
	angle, err := ChordAngle(chord, radius)
	if err != nil {
		return 0, err
	}
	return angle / 360.0 * 2 * math.Pi * radius, nil
}
