package geom

import (
	"fmt"
	"math"
)

// Polygon is a closed polyline enclosing an area.
type Polygon struct {
	Polyline
}

// NewPolygon returns the polygon through points, appending the first point
// when the chain is not already closed.
func NewPolygon(points ...Point) Polygon {
	pts := append([]Point(nil), points...)
	if len(pts) > 0 && !EqualPoints(pts[0], pts[len(pts)-1]) {
		pts = append(pts, pts[0])
	}
	return Polygon{Polyline: NewPolyline(pts...)}
}

func (Polygon) Kind() Kind { return KindPolygon }

// Intersections dispatches to the pairwise rule for other.
func (pg Polygon) Intersections(other Shape) ([]Point, error) { return Intersect(pg, other) }

// Interferes dispatches to the pairwise rule for other.
func (pg Polygon) Interferes(other Shape) (bool, error) { return Interfere(pg, other) }

// Area returns the enclosed area.
func (pg Polygon) Area() float64 {
	return math.Abs(pg.signedArea())
}

// IsCounterClockwise reports whether the vertices wind counterclockwise.
func (pg Polygon) IsCounterClockwise() bool {
	return pg.signedArea() > 0
}

func (pg Polygon) signedArea() float64 {
	var sum float64
	for _, s := range pg.Segments {
		sum += s.Point1.X*s.Point2.Y - s.Point2.X*s.Point1.Y
	}
	return sum / 2
}

// EnclosesPoint reports whether p lies strictly inside the polygon. A ray
// is cast from p along +X and the boundary crossings counted. An edge is
// crossed when its end points lie on opposite sides of the ray, with a
// vertex on the ray counted as below it, so a vertex is counted once or
// not at all.
func (pg Polygon) EnclosesPoint(p Point) bool {
	if pg.ThroughPoint(p) {
		return false
	}
	inside := false
	for _, s := range pg.Segments {
		p1, p2 := s.Point1, s.Point2
		if (p1.Y > p.Y) == (p2.Y > p.Y) {
			continue
		}
		x := p1.X + (p.Y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y)
		if x > p.X {
			inside = !inside
		}
	}
	return inside
}

// EnclosesSegment reports whether s lies inside the polygon. The segment
// may touch the boundary only at its own end points, and both end points
// must be enclosed.
func (pg Polygon) EnclosesSegment(s LineSegment) bool {
	return pg.enclosesSpan(s, s.Point1, s.Point2)
}

// EnclosesArc reports whether a lies inside the polygon, by the same rule
// as EnclosesSegment applied to the arc's start and end points.
func (pg Polygon) EnclosesArc(a Arc) bool {
	return pg.enclosesSpan(a, a.StartPoint, a.EndPoint)
}

func (pg Polygon) enclosesSpan(s Shape, p1, p2 Point) bool {
	pts := RemovePoints(pg.Polyline.intersections(s), []Point{p1, p2}, DefaultPrecision)
	return len(pts) == 0 && pg.EnclosesPoint(p1) && pg.EnclosesPoint(p2)
}

// EnclosesPolyline reports whether every segment of pl is enclosed or
// lies along the polygon's boundary. The polygon's own boundary is
// therefore enclosed by it.
func (pg Polygon) EnclosesPolyline(pl Polyline) bool {
	for _, s := range pl.Segments {
		if !pg.EnclosesSegment(s) && !pg.Polyline.Overlaps(s) {
			return false
		}
	}
	return true
}

// Encloses reports whether other lies inside the polygon. Lines and rays
// are unbounded and never enclosed.
func (pg Polygon) Encloses(other Shape) (bool, error) {
	o, err := resolve(other)
	if err != nil {
		return false, err
	}
	switch o := o.(type) {
	case LineSegment:
		return pg.EnclosesSegment(o), nil
	case Arc:
		return pg.EnclosesArc(o), nil
	case Polygon:
		return pg.EnclosesPolyline(o.Polyline), nil
	case Polyline:
		return pg.EnclosesPolyline(o), nil
	case Line, Ray:
		return false, nil
	}
	return false, fmt.Errorf("%w: cannot test enclosure of %s", ErrInvalidArgument, o.Kind())
}

// interferes reports whether other touches the boundary or lies inside.
// Two polygons also interfere when either encloses the other.
func (pg Polygon) interferes(other Shape) bool {
	if pg.Polyline.interferes(other) {
		return true
	}
	if ok, _ := pg.Encloses(other); ok {
		return true
	}
	if o, ok := other.(Polygon); ok {
		return o.EnclosesPolyline(pg.Polyline)
	}
	return false
}
