package drawing

import (
	"fmt"
	"math"

	"github.com/chazu/planar/pkg/geom"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
func validateGeometry(d *Drawing) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range d.Shapes() {
		s := node.Shape()
		if s == nil {
			continue // reported by Tier 1
		}
		e, w := validateShape(node, s, d.Defaults.Precision)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}
	warnings = append(warnings, validateDuplicateShapes(d)...)

	return errs, warnings
}

// validateShape checks a single shape for degenerate or non-finite geometry.
func validateShape(node *Node, s geom.Shape, prec geom.Precision) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning
	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("%s %q: ", s.Kind(), node.Name) + fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	warn := func(format string, args ...any) {
		warnings = append(warnings, ValidationWarning{
			NodeID:  node.ID,
			Message: fmt.Sprintf("%s %q: ", s.Kind(), node.Name) + fmt.Sprintf(format, args...),
		})
	}

	if !finite(definingValues(s)...) {
		fail("non-finite coordinate")
		return errs, warnings
	}

	switch v := s.(type) {
	case geom.Line:
		if math.IsNaN(v.Slope) {
			fail("defining points coincide")
		}
	case geom.LineSegment:
		if prec.EqualPoints(v.Point1, v.Point2) {
			fail("zero length")
		}
	case geom.Ray:
		if v.Direction.Length() == 0 {
			fail("zero direction")
		}
	case geom.Arc:
		if v.Radius <= 0 {
			fail("radius %.4f must be positive", v.Radius)
		}
		if v.Angle == 0 {
			warn("zero span")
		}
	case geom.Polygon:
		if n := len(geom.DedupPoints(v.Points, prec)); n < 3 {
			fail("needs at least 3 distinct vertices, has %d", n)
		} else if prec.Round(v.Area()) == 0 {
			warn("zero area")
		}
	case geom.Polyline:
		if len(v.Segments) == 0 {
			fail("needs at least 2 points, has %d", len(v.Points))
		}
		for i, seg := range v.Segments {
			if prec.EqualPoints(seg.Point1, seg.Point2) {
				warn("repeated vertex at index %d", i+1)
			}
		}
	}
	return errs, warnings
}

// definingValues returns the numbers a shape was constructed from.
func definingValues(s geom.Shape) []float64 {
	var vs []float64
	addPoints := func(pts ...geom.Point) {
		for _, p := range pts {
			vs = append(vs, p.X, p.Y)
		}
	}
	switch v := s.(type) {
	case geom.Line:
		if v.IsVertical {
			vs = append(vs, v.XConstant)
		} else if !math.IsNaN(v.Slope) {
			vs = append(vs, v.Slope, v.YIntercept)
		}
	case geom.LineSegment:
		addPoints(v.Point1, v.Point2)
	case geom.Ray:
		addPoints(v.Origin)
		vs = append(vs, v.Direction.X, v.Direction.Y)
	case geom.Arc:
		addPoints(v.Center)
		vs = append(vs, v.Radius, v.StartAngle, v.EndAngle)
	case geom.Polygon:
		addPoints(v.Points...)
	case geom.Polyline:
		addPoints(v.Points...)
	}
	return vs
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// validateDuplicateShapes warns when two differently named shapes have the
// same geometry.
func validateDuplicateShapes(d *Drawing) []ValidationWarning {
	var warnings []ValidationWarning
	seen := make(map[ContentHash]*Node)
	for _, node := range d.Shapes() {
		if first, ok := seen[node.ContentHash]; ok {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("shape %q duplicates the geometry of %q", node.Name, first.Name),
			})
			continue
		}
		seen[node.ContentHash] = node
	}
	return warnings
}

// ---------------------------------------------------------------------------
// Tier 3: interference warnings
// ---------------------------------------------------------------------------

// validateInterference warns about every pair of shapes that touch, except
// pairs that share a layer with AllowContact. Shapes in skip are ignored.
func validateInterference(d *Drawing, skip map[NodeID]bool) []ValidationWarning {
	allowed := ContactAllowed(d)
	shapes := d.Shapes()

	var warnings []ValidationWarning
	for i := 0; i < len(shapes); i++ {
		a := shapes[i]
		if skip[a.ID] || a.Shape() == nil {
			continue
		}
		for j := i + 1; j < len(shapes); j++ {
			b := shapes[j]
			if skip[b.ID] || b.Shape() == nil || allowed(a.ID, b.ID) {
				continue
			}
			ok, err := geom.Interfere(a.Shape(), b.Shape())
			if err != nil || !ok {
				continue
			}
			warnings = append(warnings, ValidationWarning{
				NodeID:  a.ID,
				Message: fmt.Sprintf("shapes %q and %q interfere", a.Name, b.Name),
			})
		}
	}
	return warnings
}

// ContactAllowed returns a predicate reporting whether two shapes share a
// layer declared with AllowContact.
func ContactAllowed(d *Drawing) func(a, b NodeID) bool {
	contact := contactGroups(d)
	return func(a, b NodeID) bool {
		return shareGroup(contact[a], contact[b])
	}
}

// contactGroups maps each shape to the AllowContact layers that contain it,
// directly or through nested layers.
func contactGroups(d *Drawing) map[NodeID]map[NodeID]bool {
	out := make(map[NodeID]map[NodeID]bool)
	for _, g := range d.Groups() {
		gd, ok := g.Data.(GroupData)
		if !ok || !gd.AllowContact {
			continue
		}
		visited := make(map[NodeID]bool)
		var walk func(n *Node)
		walk = func(n *Node) {
			for _, c := range d.Children(n) {
				if visited[c.ID] {
					continue
				}
				visited[c.ID] = true
				if c.Kind == NodeShape {
					if out[c.ID] == nil {
						out[c.ID] = make(map[NodeID]bool)
					}
					out[c.ID][g.ID] = true
				}
				walk(c)
			}
		}
		walk(g)
	}
	return out
}

func shareGroup(a, b map[NodeID]bool) bool {
	for id := range a {
		if b[id] {
			return true
		}
	}
	return false
}
