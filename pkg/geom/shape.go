package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for arguments outside a function's domain,
// such as a shape that is not one of the supported variants.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind enumerates the supported shape variants.
type Kind int

const (
	KindLine Kind = iota
	KindLineSegment
	KindRay
	KindArc
	KindPolyline
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindLineSegment:
		return "segment"
	case KindRay:
		return "ray"
	case KindArc:
		return "arc"
	case KindPolyline:
		return "polyline"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Shape is implemented by Line, LineSegment, Ray, Arc, Polyline and Polygon
// (and pointers to them). The set is closed: Intersections and Interferes
// reject anything else with ErrInvalidArgument.
type Shape interface {
	Kind() Kind
	ThroughPoint(p Point) bool
	Intersections(other Shape) ([]Point, error)
	Interferes(other Shape) (bool, error)
	isShape()
}

// resolve maps s onto one of the six value variants.
func resolve(s Shape) (Shape, error) {
	switch v := s.(type) {
	case Line:
		return v, nil
	case LineSegment:
		return v, nil
	case Ray:
		return v, nil
	case Arc:
		return v, nil
	case Polyline:
		return v, nil
	case Polygon:
		return v, nil
	case *Line:
		if v != nil {
			return *v, nil
		}
	case *LineSegment:
		if v != nil {
			return *v, nil
		}
	case *Ray:
		if v != nil {
			return *v, nil
		}
	case *Arc:
		if v != nil {
			return *v, nil
		}
	case *Polyline:
		if v != nil {
			return *v, nil
		}
	case *Polygon:
		if v != nil {
			return *v, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported shape %T", ErrInvalidArgument, s)
}

// Intersect returns the points where a and b cross or touch. Shapes that
// overlap along a shared extent report no points for that extent; use
// Interfere to detect any contact at all.
func Intersect(a, b Shape) ([]Point, error) {
	ra, err := resolve(a)
	if err != nil {
		return nil, err
	}
	rb, err := resolve(b)
	if err != nil {
		return nil, err
	}

	switch a := ra.(type) {
	case Polyline:
		return a.intersections(rb), nil
	case Polygon:
		return a.Polyline.intersections(rb), nil
	case Arc:
		switch b := rb.(type) {
		case Arc:
			return a.IntersectionsArc(b), nil
		case Polyline:
			return b.intersections(a), nil
		case Polygon:
			return b.Polyline.intersections(a), nil
		case Linear:
			return a.IntersectionsLinear(b), nil
		}
	case Linear:
		switch b := rb.(type) {
		case Arc:
			return b.IntersectionsLinear(a), nil
		case Polyline:
			return b.intersections(a), nil
		case Polygon:
			return b.Polyline.intersections(a), nil
		case Linear:
			return IntersectLinear(a, b), nil
		}
	}
	return nil, fmt.Errorf("%w: no intersection rule for %s and %s", ErrInvalidArgument, ra.Kind(), rb.Kind())
}

// Interfere reports whether a and b touch in any way: a point intersection,
// an overlap, or (for polygons) enclosure of one by the other.
func Interfere(a, b Shape) (bool, error) {
	ra, err := resolve(a)
	if err != nil {
		return false, err
	}
	rb, err := resolve(b)
	if err != nil {
		return false, err
	}

	if pg, ok := ra.(Polygon); ok {
		return pg.interferes(rb), nil
	}
	if pg, ok := rb.(Polygon); ok {
		return pg.interferes(ra), nil
	}

	switch a := ra.(type) {
	case Polyline:
		return a.interferes(rb), nil
	case Arc:
		switch b := rb.(type) {
		case Arc:
			return a.InterferesArc(b), nil
		case Polyline:
			return b.interferes(a), nil
		case Linear:
			return len(a.IntersectionsLinear(b)) > 0, nil
		}
	case Linear:
		switch b := rb.(type) {
		case Arc:
			return len(b.IntersectionsLinear(a)) > 0, nil
		case Polyline:
			return b.interferes(a), nil
		case Linear:
			return InterferesLinear(a, b), nil
		}
	}
	return false, fmt.Errorf("%w: no interference rule for %s and %s", ErrInvalidArgument, ra.Kind(), rb.Kind())
}

// mustIntersect is Intersect for operands already known to be resolved.
func mustIntersect(a, b Shape) []Point {
	pts, err := Intersect(a, b)
	if err != nil {
		panic(err)
	}
	return pts
}

// mustInterfere is Interfere for operands already known to be resolved.
func mustInterfere(a, b Shape) bool {
	ok, err := Interfere(a, b)
	if err != nil {
		panic(err)
	}
	return ok
}
