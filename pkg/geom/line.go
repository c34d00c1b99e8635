package geom

import (
	"math"
	"strconv"
)

// Bound says how much of its carrier line a linear shape claims.
type Bound int

const (
	Unbounded Bound = iota // Line
	OneSided               // Ray
	TwoSided               // LineSegment
)

func (b Bound) String() string {
	switch b {
	case Unbounded:
		return "unbounded"
	case OneSided:
		return "one-sided"
	case TwoSided:
		return "two-sided"
	default:
		return "unknown"
	}
}

// Equation is the slope-intercept form shared by the line family.
// A vertical line has an infinite Slope, a NaN YIntercept and a defined
// XConstant; every other line has a NaN XConstant.
type Equation struct {
	Slope        float64 `json:"slope"`
	YIntercept   float64 `json:"y_intercept"`
	XConstant    float64 `json:"x_constant"`
	Direction    Vector  `json:"direction"` // unit vector along increasing x (or +y if vertical)
	IsHorizontal bool    `json:"is_horizontal"`
	IsVertical   bool    `json:"is_vertical"`
}

// EquationFromSlope returns the equation of the line through p with the
// given slope. Pass ±Inf for a vertical line.
func EquationFromSlope(p Point, slope float64) Equation {
	e := Equation{
		Slope:        slope,
		IsHorizontal: slope == 0,
		IsVertical:   math.IsInf(slope, 0),
		XConstant:    math.NaN(),
		YIntercept:   math.NaN(),
	}
	if e.IsVertical {
		e.XConstant = p.X
		e.Direction = Vector{X: 0, Y: 1}
	} else {
		e.YIntercept = p.Y - slope*p.X
		e.Direction = Vector{X: 1, Y: slope}.Normalize()
	}
	return e
}

// EquationFromPoints returns the equation of the line through p1 and p2.
func EquationFromPoints(p1, p2 Point) Equation {
	return EquationFromSlope(p1, (p2.Y-p1.Y)/(p2.X-p1.X))
}

// EquationFromDirection returns the equation of the line through p along d.
func EquationFromDirection(p Point, d Vector) Equation {
	return EquationFromSlope(p, d.Y/d.X)
}

// Y evaluates the line at x. It is NaN for a vertical line.
func (e Equation) Y(x float64) float64 {
	if e.IsVertical {
		return math.NaN()
	}
	if e.IsHorizontal {
		return e.YIntercept
	}
	return e.Slope*x + e.YIntercept
}

// X evaluates the line at y. It is NaN for a horizontal line.
func (e Equation) X(y float64) float64 {
	switch {
	case e.IsHorizontal:
		return math.NaN()
	case e.IsVertical:
		return e.XConstant
	default:
		return (y - e.YIntercept) / e.Slope
	}
}

// IsParallel reports whether the two lines have the same slope. A vertical
// line is parallel only to another vertical line.
func (e Equation) IsParallel(o Equation) bool {
	if e.IsVertical || o.IsVertical {
		return e.IsVertical && o.IsVertical
	}
	return DefaultPrecision.Equal(e.Slope, o.Slope)
}

// IsPerpendicular reports whether the two lines meet at a right angle.
func (e Equation) IsPerpendicular(o Equation) bool {
	return (e.IsHorizontal && o.IsVertical) ||
		(e.IsVertical && o.IsHorizontal) ||
		(!e.IsVertical && !o.IsVertical && DefaultPrecision.Equal(e.Slope*o.Slope, -1))
}

// Collinear reports whether the two equations describe the same infinite line.
func (e Equation) Collinear(o Equation) bool {
	if !e.IsParallel(o) {
		return false
	}
	if e.IsVertical {
		return DefaultPrecision.Equal(e.XConstant, o.XConstant)
	}
	return DefaultPrecision.Equal(e.YIntercept, o.YIntercept)
}

// onLine reports whether p satisfies the equation.
func (e Equation) onLine(p Point) bool {
	if e.IsVertical {
		return DefaultPrecision.Equal(p.X, e.XConstant)
	}
	return DefaultPrecision.Equal(p.Y, e.Y(p.X))
}

// Linear is the line family: Line, LineSegment and Ray.
type Linear interface {
	Shape
	// Carrier returns the infinite line the shape lies on.
	Carrier() Equation
	Bound() Bound
	Overlaps(other Linear) bool
	OverlapLength(other Linear) float64

	// claims reports whether p, assumed to be on the carrier, lies within
	// the bounded extent. It never recomputes the line equation, so points
	// produced by an intersection solve are not rejected for round-off.
	claims(p Point) bool
	extent() float64
	endpoints() []Point
}

// ---------------------------------------------------------------------------
// Line
// ---------------------------------------------------------------------------

// Line is an infinite straight line.
type Line struct {
	Equation
}

// NewLine returns the line through p1 and p2.
func NewLine(p1, p2 Point) Line {
	return Line{Equation: EquationFromPoints(p1, p2)}
}

// NewLineFromSlope returns the line through p with the given slope.
func NewLineFromSlope(p Point, slope float64) Line {
	return Line{Equation: EquationFromSlope(p, slope)}
}

// NewLineFromDirection returns the line through p along d.
func NewLineFromDirection(p Point, d Vector) Line {
	return Line{Equation: EquationFromDirection(p, d)}
}

func (Line) isShape()            {}
func (Line) Kind() Kind          { return KindLine }
func (Line) Bound() Bound        { return Unbounded }
func (l Line) Carrier() Equation { return l.Equation }
func (Line) claims(Point) bool   { return true }
func (Line) extent() float64     { return math.Inf(1) }
func (Line) endpoints() []Point  { return nil }

// Length is infinite.
func (Line) Length() float64 { return math.Inf(1) }

// ThroughPoint reports whether p lies on the line.
func (l Line) ThroughPoint(p Point) bool { return l.onLine(p) }

// Overlaps reports whether other lies on the same infinite line.
func (l Line) Overlaps(other Linear) bool { return OverlapsLinear(l, other) }

// OverlapLength returns the length of the shared extent with other.
func (l Line) OverlapLength(other Linear) float64 { return OverlapLength(l, other) }

// Intersections dispatches to the pairwise rule for other.
func (l Line) Intersections(other Shape) ([]Point, error) { return Intersect(l, other) }

// Interferes dispatches to the pairwise rule for other.
func (l Line) Interferes(other Shape) (bool, error) { return Interfere(l, other) }

// ---------------------------------------------------------------------------
// LineSegment
// ---------------------------------------------------------------------------

// LineSegment is the part of a line between two end points, inclusive.
type LineSegment struct {
	Equation
	Point1 Point   `json:"point1"`
	Point2 Point   `json:"point2"`
	Length float64 `json:"length"`
}

// NewLineSegment returns the segment from p1 to p2.
func NewLineSegment(p1, p2 Point) LineSegment {
	return LineSegment{
		Equation: EquationFromPoints(p1, p2),
		Point1:   p1,
		Point2:   p2,
		Length:   p1.Distance(p2),
	}
}

// WithPoint1 returns the segment redefined with a new first end point.
func (s LineSegment) WithPoint1(p Point) LineSegment { return NewLineSegment(p, s.Point2) }

// WithPoint2 returns the segment redefined with a new second end point.
func (s LineSegment) WithPoint2(p Point) LineSegment { return NewLineSegment(s.Point1, p) }

func (LineSegment) isShape()              {}
func (LineSegment) Kind() Kind            { return KindLineSegment }
func (LineSegment) Bound() Bound          { return TwoSided }
func (s LineSegment) Carrier() Equation   { return s.Equation }
func (s LineSegment) claims(p Point) bool { return s.BetweenEndPoints(p) }
func (s LineSegment) extent() float64     { return s.Length }
func (s LineSegment) endpoints() []Point  { return []Point{s.Point1, s.Point2} }

// BetweenEndPoints reports whether p projects onto the segment.
func (s LineSegment) BetweenEndPoints(p Point) bool {
	return BetweenPoints(p, s.Point1, s.Point2)
}

// ThroughPoint reports whether p lies on the segment.
func (s LineSegment) ThroughPoint(p Point) bool {
	return s.onLine(p) && s.BetweenEndPoints(p)
}

// Overlaps reports whether other shares a stretch or an end point with s
// on the same infinite line.
func (s LineSegment) Overlaps(other Linear) bool { return OverlapsLinear(s, other) }

// OverlapLength returns the length of the shared extent with other.
func (s LineSegment) OverlapLength(other Linear) float64 { return OverlapLength(s, other) }

// Intersections dispatches to the pairwise rule for other.
func (s LineSegment) Intersections(other Shape) ([]Point, error) { return Intersect(s, other) }

// IntersectionsExcluding is Intersections with the given points removed.
func (s LineSegment) IntersectionsExcluding(other Shape, exclude []Point) ([]Point, error) {
	pts, err := Intersect(s, other)
	if err != nil {
		return nil, err
	}
	return RemovePoints(pts, exclude, DefaultPrecision), nil
}

// Interferes dispatches to the pairwise rule for other.
func (s LineSegment) Interferes(other Shape) (bool, error) { return Interfere(s, other) }

// ---------------------------------------------------------------------------
// Ray
// ---------------------------------------------------------------------------

// Ray is the half line starting at Origin and running along Direction.
// Direction is the ray's own heading; the carrier's unit direction is
// available as r.Equation.Direction.
type Ray struct {
	Equation
	Origin    Point  `json:"origin"`
	Direction Vector `json:"direction"`
}

// NewRay returns the ray from origin along dir.
func NewRay(origin Point, dir Vector) Ray {
	return Ray{
		Equation:  EquationFromDirection(origin, dir),
		Origin:    origin,
		Direction: dir,
	}
}

// WithOrigin returns the ray redefined with a new origin.
func (r Ray) WithOrigin(p Point) Ray { return NewRay(p, r.Direction) }

// WithDirection returns the ray redefined with a new heading.
func (r Ray) WithDirection(d Vector) Ray { return NewRay(r.Origin, d) }

func (Ray) isShape()              {}
func (Ray) Kind() Kind            { return KindRay }
func (Ray) Bound() Bound          { return OneSided }
func (r Ray) Carrier() Equation   { return r.Equation }
func (r Ray) claims(p Point) bool { return r.OnRaySide(p) }
func (Ray) extent() float64       { return math.Inf(1) }
func (r Ray) endpoints() []Point  { return []Point{r.Origin} }

// Length is infinite.
func (Ray) Length() float64 { return math.Inf(1) }

// OnRaySide reports whether p lies in the closed half plane ahead of Origin.
func (r Ray) OnRaySide(p Point) bool {
	return Onside(p, r.Origin, r.Direction)
}

// ThroughPoint reports whether p lies on the ray.
func (r Ray) ThroughPoint(p Point) bool {
	return r.onLine(p) && r.OnRaySide(p)
}

// Overlaps reports whether other shares a stretch or the origin with r on
// the same infinite line.
func (r Ray) Overlaps(other Linear) bool { return OverlapsLinear(r, other) }

// OverlapLength returns the length of the shared extent with other.
func (r Ray) OverlapLength(other Linear) float64 { return OverlapLength(r, other) }

// Intersections dispatches to the pairwise rule for other.
func (r Ray) Intersections(other Shape) ([]Point, error) { return Intersect(r, other) }

// Interferes dispatches to the pairwise rule for other.
func (r Ray) Interferes(other Shape) (bool, error) { return Interfere(r, other) }

// ---------------------------------------------------------------------------
// Shared line family rules
// ---------------------------------------------------------------------------

// BetweenPoints loosely reports whether p lies between p1 and p2: the
// vectors from each end point to p must be within 90 degrees of the
// vector toward the other end point. Collinearity is not checked, and the
// end points themselves count as between.
func BetweenPoints(p, p1, p2 Point) bool {
	return Onside(p, p1, p2.Sub(p1)) && Onside(p, p2, p1.Sub(p2))
}

// Onside reports whether p lies on the dir side of p0. Lying on p0 counts.
func Onside(p, p0 Point, dir Vector) bool {
	return DefaultPrecision.Round(dir.Dot(p.Sub(p0))) >= 0
}

func derefLinear(l Linear) Linear {
	switch v := l.(type) {
	case *Line:
		return *v
	case *LineSegment:
		return *v
	case *Ray:
		return *v
	}
	return l
}

// OverlapsLinear reports whether a and b lie on the same infinite line and,
// when both are bounded, share either a stretch of it or an end point.
func OverlapsLinear(a, b Linear) bool {
	a, b = derefLinear(a), derefLinear(b)
	if !a.Carrier().Collinear(b.Carrier()) {
		return false
	}
	switch a := a.(type) {
	case LineSegment:
		switch b := b.(type) {
		case LineSegment:
			return a.BetweenEndPoints(b.Point1) || a.BetweenEndPoints(b.Point2) ||
				b.BetweenEndPoints(a.Point1) || b.BetweenEndPoints(a.Point2)
		case Ray:
			return b.OnRaySide(a.Point1) || b.OnRaySide(a.Point2)
		}
	case Ray:
		switch b := b.(type) {
		case LineSegment:
			return a.OnRaySide(b.Point1) || a.OnRaySide(b.Point2)
		case Ray:
			return SameDirection(a.Direction, b.Direction) || a.OnRaySide(b.Origin)
		}
	}
	return true
}

// OverlapLength returns the length of the stretch shared by a and b: zero
// if they do not overlap or touch only at an end point, +Inf when the shared
// stretch is unbounded.
func OverlapLength(a, b Linear) float64 {
	a, b = derefLinear(a), derefLinear(b)
	if !OverlapsLinear(a, b) {
		return 0
	}
	var length float64
	switch a := a.(type) {
	case LineSegment:
		switch b := b.(type) {
		case LineSegment:
			length = segmentOverlap(a, b)
		case Ray:
			length = segmentRayOverlap(a, b)
		default:
			length = a.Length
		}
	case Ray:
		switch b := b.(type) {
		case LineSegment:
			length = segmentRayOverlap(b, a)
		case Ray:
			if SameDirection(a.Direction, b.Direction) {
				return math.Inf(1)
			}
			length = a.Origin.Distance(b.Origin)
		default:
			return math.Inf(1)
		}
	default:
		return math.Min(a.extent(), b.extent())
	}
	length = DefaultPrecision.Round(length)
	if length < 0 {
		return 0
	}
	return length
}

func segmentOverlap(a, b LineSegment) float64 {
	span := math.Max(a.Length, b.Length)
	for _, d := range []float64{
		a.Point1.Distance(b.Point1),
		a.Point1.Distance(b.Point2),
		a.Point2.Distance(b.Point1),
		a.Point2.Distance(b.Point2),
	} {
		span = math.Max(span, d)
	}
	return a.Length + b.Length - span
}

func segmentRayOverlap(s LineSegment, r Ray) float64 {
	on1, on2 := r.OnRaySide(s.Point1), r.OnRaySide(s.Point2)
	switch {
	case on1 && on2:
		return s.Length
	case on1:
		return r.Origin.Distance(s.Point1)
	case on2:
		return r.Origin.Distance(s.Point2)
	}
	return 0
}

// IntersectLinear returns the intersection of a and b. Collinear bounded
// shapes that touch only at an end point report that end point; collinear
// shapes sharing a stretch report nothing.
func IntersectLinear(a, b Linear) []Point {
	a, b = derefLinear(a), derefLinear(b)
	if a.Bound() != Unbounded && b.Bound() != Unbounded && OverlapsLinear(a, b) {
		if OverlapLength(a, b) == 0 {
			return []Point{sharedVertex(a, b)}
		}
		return nil
	}

	ea, eb := a.Carrier(), b.Carrier()
	if ea.IsParallel(eb) {
		return nil
	}
	// Solve in a fixed order so that the result does not depend on which
	// operand came first.
	if solveBefore(eb, ea) {
		ea, eb = eb, ea
	}

	var x, y float64
	switch {
	case ea.IsVertical:
		x = ea.XConstant
		y = eb.Y(x)
	case eb.IsVertical:
		x = eb.XConstant
		y = ea.Y(x)
	default:
		x = (eb.YIntercept - ea.YIntercept) / (ea.Slope - eb.Slope)
		y = ea.Y(x)
	}
	// A line through two coincident points has no direction to solve with.
	p := Point{X: x, Y: y}
	if p.IsFinite() && a.claims(p) && b.claims(p) {
		return []Point{p}
	}
	return nil
}

// solveBefore orders equations by increasing steepness.
func solveBefore(e, o Equation) bool {
	ae, ao := math.Abs(e.Slope), math.Abs(o.Slope)
	if ae != ao {
		return ae < ao
	}
	if e.Slope != o.Slope {
		return e.Slope < o.Slope
	}
	return e.YIntercept < o.YIntercept
}

// sharedVertex returns the end point of a closest to an end point of b.
func sharedVertex(a, b Linear) Point {
	best := math.Inf(1)
	var vertex Point
	for _, pa := range a.endpoints() {
		for _, pb := range b.endpoints() {
			if d := pa.Distance(pb); d < best {
				best, vertex = d, pa
			}
		}
	}
	return vertex
}

// InterferesLinear reports whether a and b intersect or overlap.
func InterferesLinear(a, b Linear) bool {
	return len(IntersectLinear(a, b)) > 0 || OverlapsLinear(a, b)
}

// IsCoincident reports whether pl overlaps the line l.
func IsCoincident(l Linear, pl Polyline) bool {
	return pl.Overlaps(l)
}

// LinesEqual reports whether a and b overlap; it is the equality used for
// grouping linear shapes by carrier.
func LinesEqual(a, b Linear) bool {
	return OverlapsLinear(a, b)
}

// LineKey returns a key identifying the carrier of l, suitable for
// bucketing linear shapes before comparing them with LinesEqual.
func LineKey(l Linear) string {
	e := l.Carrier()
	if e.IsVertical {
		return "x=" + formatKey(e.XConstant)
	}
	return "m=" + formatKey(e.Slope) + ",c=" + formatKey(e.YIntercept)
}

func formatKey(v float64) string {
	return strconv.FormatFloat(DefaultPrecision.Round(v), 'g', -1, 64)
}
