package kernel

// Outline is a sampled shape boundary suitable for rendering or export.
// Points is flat: two floats per vertex (x,y).
type Outline struct {
	Points []float64 `json:"points"` // [x0,y0, x1,y1, ...]
	Closed bool      `json:"closed"` // last vertex joins the first
	Name   string    `json:"name"`   // which drawing shape this came from
}

// PointCount returns the number of vertices.
func (o *Outline) PointCount() int {
	return len(o.Points) / 2
}

// SegmentCount returns the number of edges drawn between vertices.
func (o *Outline) SegmentCount() int {
	n := o.PointCount()
	switch {
	case n < 2:
		return 0
	case o.Closed:
		return n
	default:
		return n - 1
	}
}

// IsEmpty returns true if the outline has no geometry.
func (o *Outline) IsEmpty() bool {
	return len(o.Points) == 0
}
