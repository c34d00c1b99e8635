package geom

// Polyline is an ordered chain of line segments through Points.
type Polyline struct {
	Points   []Point       `json:"points"`
	Segments []LineSegment `json:"segments"`
	IsClosed bool          `json:"is_closed"`
}

// NewPolyline returns the chain through points. Fewer than two points give
// a polyline with no segments.
func NewPolyline(points ...Point) Polyline {
	pl := Polyline{Points: append([]Point(nil), points...)}
	if len(points) < 2 {
		return pl
	}
	pl.Segments = make([]LineSegment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		pl.Segments = append(pl.Segments, NewLineSegment(points[i-1], points[i]))
	}
	pl.IsClosed = EqualPoints(points[0], points[len(points)-1])
	return pl
}

func (Polyline) isShape()   {}
func (Polyline) Kind() Kind { return KindPolyline }

// Length returns the total length of the segments.
func (pl Polyline) Length() float64 {
	var sum float64
	for _, s := range pl.Segments {
		sum += s.Length
	}
	return sum
}

// ThroughPoint reports whether any segment passes through p.
func (pl Polyline) ThroughPoint(p Point) bool {
	for _, s := range pl.Segments {
		if s.ThroughPoint(p) {
			return true
		}
	}
	return false
}

// Overlaps reports whether any segment overlaps other. Only the line family
// and chains built from it can overlap a polyline.
func (pl Polyline) Overlaps(other Shape) bool {
	o, err := resolve(other)
	if err != nil {
		return false
	}
	for _, s := range pl.Segments {
		switch o := o.(type) {
		case Linear:
			if OverlapsLinear(s, o) {
				return true
			}
		case Polyline:
			if o.Overlaps(s) {
				return true
			}
		case Polygon:
			if o.Polyline.Overlaps(s) {
				return true
			}
		}
	}
	return false
}

// Intersections dispatches to the pairwise rule for other.
func (pl Polyline) Intersections(other Shape) ([]Point, error) { return Intersect(pl, other) }

// Interferes dispatches to the pairwise rule for other.
func (pl Polyline) Interferes(other Shape) (bool, error) { return Interfere(pl, other) }

// intersections collects the crossings of every segment with other. A
// polyline that overlaps other has no well defined crossing set and
// reports none.
func (pl Polyline) intersections(other Shape) []Point {
	if pl.Overlaps(other) {
		return nil
	}
	var pts []Point
	for _, s := range pl.Segments {
		pts = append(pts, mustIntersect(s, other)...)
	}
	return DedupPoints(pts, DefaultPrecision)
}

// interferes reports whether any segment interferes with other.
func (pl Polyline) interferes(other Shape) bool {
	for _, s := range pl.Segments {
		if mustInterfere(s, other) {
			return true
		}
	}
	return false
}
