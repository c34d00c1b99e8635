package geom

// NewRectangle returns the w by h rectangle centered on center and rotated
// counterclockwise by angle degrees.
func NewRectangle(center Point, w, h, angle float64) Polygon {
	hw, hh := w/2, h/2
	corner := func(x, y float64) Point {
		return center.Add(RotateVector(Vector{X: x, Y: y}, angle))
	}
	return NewPolygon(
		corner(-hw, -hh),
		corner(hw, -hh),
		corner(hw, hh),
		corner(-hw, hh),
	)
}

// NewTriangle returns the triangle p1, p2, p3.
func NewTriangle(p1, p2, p3 Point) Polygon {
	return NewPolygon(p1, p2, p3)
}
