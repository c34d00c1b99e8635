package geom

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Point is a location in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a displacement in the plane.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p displaced by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// V2 converts p to an sdfx vector.
func (p Point) V2() v2.Vec {
	return v2.Vec{X: p.X, Y: p.Y}
}

// PointFromV2 converts an sdfx vector to a Point.
func PointFromV2(v v2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

// Scale returns v multiplied by k.
func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

// Dot returns the scalar product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product of v and w.
func (v Vector) Cross(w Vector) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the magnitude of v.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Perpendicular returns v rotated 90 degrees clockwise.
func (v Vector) Perpendicular() Vector {
	return Vector{X: v.Y, Y: -v.X}
}

// AngleBetween returns the signed angle in degrees from v to w, in (-180, 180].
func AngleBetween(v, w Vector) float64 {
	return math.Atan2(v.Cross(w), v.Dot(w)) * 180.0 / math.Pi
}

// SameDirection reports whether v and w point the same way.
func SameDirection(v, w Vector) bool {
	return AngleBetween(v, w) == 0.0
}

// RotateVector rotates v counterclockwise by angle degrees. The sine and
// cosine are rounded to DefaultPrecision so that quarter turns are exact.
func RotateVector(v Vector, angle float64) Vector {
	if angle == 0 {
		return v
	}
	rad := angle * math.Pi / 180.0
	cos := DefaultPrecision.Round(math.Cos(rad))
	sin := DefaultPrecision.Round(math.Sin(rad))
	return Vector{
		X: cos*v.X - sin*v.Y,
		Y: sin*v.X + cos*v.Y,
	}
}
