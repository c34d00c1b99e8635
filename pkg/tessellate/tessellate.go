// Package tessellate walks a drawing and samples its shapes into point
// outlines, builds kernel regions for the closed shapes, and measures the
// gaps between shapes that do not touch.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/planar/pkg/drawing"
	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/kernel"
)

// DefaultArcSegments is the number of chords used to sample a full circle.
const DefaultArcSegments = 64

// UnboundedReach is how far lines and rays are sampled from their anchor.
const UnboundedReach = 1000.0

// maxEdgeSamples caps densification of a single edge.
const maxEdgeSamples = 4096

// ---------------------------------------------------------------------------
// Sampling
// ---------------------------------------------------------------------------

// Flatten samples a shape into points along its path. Lines are clipped to
// UnboundedReach on either side of their anchor and rays to UnboundedReach
// past their origin. Arcs use arcSegments chords per full turn.
func Flatten(s geom.Shape, arcSegments int) ([]geom.Point, error) {
	if arcSegments <= 0 {
		arcSegments = DefaultArcSegments
	}

	switch v := s.(type) {
	case geom.Line:
		anchor := geom.Pt(0, v.YIntercept)
		if v.IsVertical {
			anchor = geom.Pt(v.XConstant, 0)
		}
		reach := v.Equation.Direction.Scale(UnboundedReach)
		return []geom.Point{anchor.Add(reach.Neg()), anchor.Add(reach)}, nil
	case geom.LineSegment:
		return []geom.Point{v.Point1, v.Point2}, nil
	case geom.Ray:
		end := v.Origin.Add(v.Direction.Normalize().Scale(UnboundedReach))
		return []geom.Point{v.Origin, end}, nil
	case geom.Arc:
		return flattenArc(v, arcSegments), nil
	case geom.Polyline:
		return append([]geom.Point(nil), v.Points...), nil
	case geom.Polygon:
		return append([]geom.Point(nil), v.Points...), nil

	case *geom.Line:
		return flattenPtr(v, arcSegments)
	case *geom.LineSegment:
		return flattenPtr(v, arcSegments)
	case *geom.Ray:
		return flattenPtr(v, arcSegments)
	case *geom.Arc:
		return flattenPtr(v, arcSegments)
	case *geom.Polyline:
		return flattenPtr(v, arcSegments)
	case *geom.Polygon:
		return flattenPtr(v, arcSegments)

	default:
		return nil, fmt.Errorf("tessellate: cannot flatten %T: %w", s, geom.ErrInvalidArgument)
	}
}

func flattenPtr[T geom.Shape](p *T, arcSegments int) ([]geom.Point, error) {
	if p == nil {
		return nil, fmt.Errorf("tessellate: cannot flatten nil %T: %w", p, geom.ErrInvalidArgument)
	}
	return Flatten(*p, arcSegments)
}

func flattenArc(a geom.Arc, arcSegments int) []geom.Point {
	if a.Angle == 0 {
		return []geom.Point{a.StartPoint}
	}
	n := int(math.Ceil(float64(arcSegments) * a.Angle / 360.0))
	if n < 1 {
		n = 1
	}
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, a.PointAtAngle(a.StartAngle+a.Angle*float64(i)/float64(n)))
	}
	if a.Angle == 360 {
		// A full turn ends exactly where it starts.
		pts[n] = pts[0]
	}
	return pts
}

// Densify inserts points along each edge of the path so that no two
// consecutive points are further apart than step.
func Densify(pts []geom.Point, step float64) []geom.Point {
	if len(pts) < 2 || step <= 0 {
		return pts
	}
	out := []geom.Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		n := int(math.Ceil(a.Distance(b) / step))
		if n > maxEdgeSamples {
			n = maxEdgeSamples
		}
		for j := 1; j < n; j++ {
			out = append(out, a.Add(b.Sub(a).Scale(float64(j)/float64(n))))
		}
		out = append(out, b)
	}
	return out
}

// isClosed reports whether a shape bounds an area.
func isClosed(s geom.Shape) bool {
	switch v := s.(type) {
	case geom.Polygon:
		return true
	case geom.Polyline:
		return v.IsClosed
	case geom.Arc:
		return v.Angle == 360
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Outlines
// ---------------------------------------------------------------------------

// Outlines walks the drawing from its roots and produces one outline per
// shape. Shapes reachable through several layers appear once. The drawing
// is never mutated.
func Outlines(d *drawing.Drawing, arcSegments int) ([]*kernel.Outline, error) {
	if d == nil {
		return nil, nil
	}

	var outlines []*kernel.Outline
	visited := make(map[drawing.NodeID]bool)

	for _, rootID := range d.Roots {
		root := d.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(d, root, arcSegments, visited)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		outlines = append(outlines, collected...)
	}

	return outlines, nil
}

// walkNode recursively traverses a node and its children, collecting outlines.
func walkNode(d *drawing.Drawing, n *drawing.Node, arcSegments int, visited map[drawing.NodeID]bool) ([]*kernel.Outline, error) {
	if visited[n.ID] {
		return nil, nil
	}
	visited[n.ID] = true

	switch n.Kind {
	case drawing.NodeShape:
		o, err := outline(n, arcSegments)
		if err != nil {
			return nil, err
		}
		return []*kernel.Outline{o}, nil

	case drawing.NodeGroup:
		var outlines []*kernel.Outline
		for _, child := range d.Children(n) {
			collected, err := walkNode(d, child, arcSegments, visited)
			if err != nil {
				return nil, err
			}
			outlines = append(outlines, collected...)
		}
		return outlines, nil

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// outline samples a single shape node.
func outline(n *drawing.Node, arcSegments int) (*kernel.Outline, error) {
	s := n.Shape()
	if s == nil {
		return nil, fmt.Errorf("shape node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	pts, err := Flatten(s, arcSegments)
	if err != nil {
		return nil, err
	}

	closed := isClosed(s)
	if closed && len(pts) > 1 && geom.EqualPoints(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}

	o := &kernel.Outline{
		Points: make([]float64, 0, 2*len(pts)),
		Closed: closed,
		Name:   n.Name,
	}
	if o.Name == "" {
		o.Name = n.ID.Short()
	}
	for _, p := range pts {
		o.Points = append(o.Points, p.X, p.Y)
	}
	return o, nil
}

// ---------------------------------------------------------------------------
// Regions
// ---------------------------------------------------------------------------

// Regions builds a kernel region for every closed shape in the drawing:
// polygons, closed polylines and full circles.
func Regions(d *drawing.Drawing, k kernel.Kernel) (map[drawing.NodeID]kernel.Region, error) {
	regions := make(map[drawing.NodeID]kernel.Region)
	if d == nil {
		return regions, nil
	}
	for _, n := range d.Shapes() {
		s := n.Shape()
		if s == nil || !isClosed(s) {
			continue
		}
		r, err := region(k, s)
		if err != nil {
			return nil, fmt.Errorf("tessellate: region for %q: %w", n.Name, err)
		}
		regions[n.ID] = r
	}
	return regions, nil
}

func region(k kernel.Kernel, s geom.Shape) (kernel.Region, error) {
	switch v := s.(type) {
	case geom.Arc:
		return k.Circle(v.Center, v.Radius)
	case geom.Polygon:
		return k.Polygon(v.Points)
	case geom.Polyline:
		return k.Polygon(v.Points)
	default:
		return nil, fmt.Errorf("%s is not closed: %w", s.Kind(), geom.ErrInvalidArgument)
	}
}

// Coverage returns the union of every closed shape's region, or nil when
// the drawing has none.
func Coverage(d *drawing.Drawing, k kernel.Kernel) (kernel.Region, error) {
	if d == nil {
		return nil, nil
	}
	regions, err := Regions(d, k)
	if err != nil {
		return nil, err
	}
	var union kernel.Region
	for _, n := range d.Shapes() {
		r, ok := regions[n.ID]
		if !ok {
			continue
		}
		if union == nil {
			union = r
		} else {
			union = k.Union(union, r)
		}
	}
	return union, nil
}

// ---------------------------------------------------------------------------
// Clearance
// ---------------------------------------------------------------------------

// Clearance warns about every pair of shapes that do not interfere but come
// closer than clearance. Pairs sharing an AllowContact layer are skipped.
// Gaps to closed shapes are measured against their kernel region; gaps
// between open shapes are measured between densified samples.
func Clearance(d *drawing.Drawing, k kernel.Kernel, clearance float64, arcSegments int) ([]drawing.ValidationWarning, error) {
	if d == nil || clearance <= 0 {
		return nil, nil
	}

	regions, err := Regions(d, k)
	if err != nil {
		return nil, err
	}

	shapes := d.Shapes()
	samples := make(map[drawing.NodeID][]geom.Point, len(shapes))
	for _, n := range shapes {
		s := n.Shape()
		if s == nil {
			continue
		}
		pts, err := Flatten(s, arcSegments)
		if err != nil {
			return nil, fmt.Errorf("tessellate: sampling %q: %w", n.Name, err)
		}
		samples[n.ID] = Densify(pts, clearance/2)
	}

	allowed := drawing.ContactAllowed(d)
	var warnings []drawing.ValidationWarning
	for i := 0; i < len(shapes); i++ {
		a := shapes[i]
		if a.Shape() == nil {
			continue
		}
		for j := i + 1; j < len(shapes); j++ {
			b := shapes[j]
			if b.Shape() == nil || allowed(a.ID, b.ID) {
				continue
			}
			touching, err := geom.Interfere(a.Shape(), b.Shape())
			if err != nil {
				return nil, fmt.Errorf("tessellate: %q and %q: %w", a.Name, b.Name, err)
			}
			if touching {
				continue
			}
			gap := pairGap(regions[a.ID], regions[b.ID], samples[a.ID], samples[b.ID])
			if gap < clearance {
				warnings = append(warnings, drawing.ValidationWarning{
					NodeID:  a.ID,
					Message: fmt.Sprintf("shapes %q and %q are %.4g apart, below clearance %g", a.Name, b.Name, gap, clearance),
				})
			}
		}
	}
	return warnings, nil
}

// pairGap estimates the distance between two shapes. Either region may be nil.
func pairGap(ra, rb kernel.Region, sa, sb []geom.Point) float64 {
	if ra == nil && rb == nil {
		gap := math.Inf(1)
		for _, p := range sa {
			for _, q := range sb {
				gap = math.Min(gap, p.Distance(q))
			}
		}
		return gap
	}
	gap := math.Inf(1)
	if ra != nil {
		gap = math.Min(gap, kernel.Gap(ra, sb))
	}
	if rb != nil {
		gap = math.Min(gap, kernel.Gap(rb, sa))
	}
	return gap
}
