package tessellate_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/planar/pkg/drawing"
	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/kernel"
	"github.com/chazu/planar/pkg/kernel/sdfx"
	"github.com/chazu/planar/pkg/tessellate"
)

// newKernel returns a fresh sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New()
}

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

// addShape adds a shape to the builder or fails the test.
func addShape(t *testing.T, b *drawing.Builder, name string, s geom.Shape) {
	t.Helper()
	if _, err := b.AddShape(name, s, drawing.SourceRef{}); err != nil {
		t.Fatalf("AddShape(%s) failed: %v", name, err)
	}
}

// plateDrawing is a 10x10 plate with a hole, grouped in a layer, plus a
// free slot segment.
func plateDrawing(t *testing.T) *drawing.Drawing {
	t.Helper()
	b := drawing.NewBuilder()
	addShape(t, b, "slot", geom.NewLineSegment(geom.Pt(20, 0), geom.Pt(21, 0)))
	addShape(t, b, "plate", geom.NewRectangle(geom.Pt(0, 0), 10, 10, 0))
	addShape(t, b, "hole", geom.NewCircle(geom.Pt(0, 0), 1))
	if _, err := b.AddGroup("body", drawing.GroupData{}, drawing.SourceRef{}, "plate", "hole"); err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}
	return b.Build()
}

func TestFlatten(t *testing.T) {
	s45 := math.Sqrt2 / 2
	tests := []struct {
		name  string
		shape geom.Shape
		want  []geom.Point
	}{
		{
			name:  "horizontal line",
			shape: geom.NewLine(geom.Pt(0, 2), geom.Pt(1, 2)),
			want:  []geom.Point{geom.Pt(-1000, 2), geom.Pt(1000, 2)},
		},
		{
			name:  "vertical line",
			shape: geom.NewLine(geom.Pt(3, 0), geom.Pt(3, 1)),
			want:  []geom.Point{geom.Pt(3, -1000), geom.Pt(3, 1000)},
		},
		{
			name:  "segment",
			shape: geom.NewLineSegment(geom.Pt(1, 2), geom.Pt(3, 4)),
			want:  []geom.Point{geom.Pt(1, 2), geom.Pt(3, 4)},
		},
		{
			name:  "ray",
			shape: geom.NewRay(geom.Pt(1, 1), geom.Vec(0, 2)),
			want:  []geom.Point{geom.Pt(1, 1), geom.Pt(1, 1001)},
		},
		{
			name:  "quarter arc",
			shape: geom.NewArc(geom.Pt(0, 0), 1, 0, 90),
			want:  []geom.Point{geom.Pt(1, 0), geom.Pt(s45, s45), geom.Pt(0, 1)},
		},
		{
			name:  "zero span arc",
			shape: geom.NewArc(geom.Pt(0, 0), 2, 90, 90),
			want:  []geom.Point{geom.Pt(0, 2)},
		},
		{
			name:  "pointer segment",
			shape: &geom.LineSegment{Point1: geom.Pt(0, 0), Point2: geom.Pt(0, 5)},
			want:  []geom.Point{geom.Pt(0, 0), geom.Pt(0, 5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tessellate.Flatten(tt.shape, 8)
			if err != nil {
				t.Fatalf("Flatten failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Flatten returned %d points %v, want %v", len(got), got, tt.want)
			}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFlattenFullCircle(t *testing.T) {
	pts, err := tessellate.Flatten(geom.NewCircle(geom.Pt(5, 5), 2), 16)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if len(pts) != 17 {
		t.Fatalf("expected 17 points, got %d", len(pts))
	}
	if pts[0] != pts[16] {
		t.Errorf("circle samples not closed: %v vs %v", pts[0], pts[16])
	}
	for _, p := range pts {
		if d := p.Distance(geom.Pt(5, 5)); math.Abs(d-2) > 1e-9 {
			t.Errorf("sample %v is %v from centre, want 2", p, d)
		}
	}
}

func TestFlattenCopiesVertices(t *testing.T) {
	pg := geom.NewTriangle(geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(0, 3))
	pts, err := tessellate.Flatten(pg, 0)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if len(pts) != 4 {
		t.Fatalf("expected 4 points (closing vertex included), got %d", len(pts))
	}
	pts[0] = geom.Pt(99, 99)
	if pg.Points[0] != geom.Pt(0, 0) {
		t.Error("Flatten must not alias the polygon's vertices")
	}
}

func TestFlattenRejects(t *testing.T) {
	var nilSeg *geom.LineSegment
	for name, s := range map[string]geom.Shape{"nil shape": nil, "nil pointer": nilSeg} {
		t.Run(name, func(t *testing.T) {
			_, err := tessellate.Flatten(s, 8)
			if !errors.Is(err, geom.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestDensify(t *testing.T) {
	pts := tessellate.Densify([]geom.Point{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 0.5)}, 0.25)
	want := []geom.Point{
		geom.Pt(0, 0), geom.Pt(0.25, 0), geom.Pt(0.5, 0), geom.Pt(0.75, 0), geom.Pt(1, 0),
		geom.Pt(1, 0.25), geom.Pt(1, 0.5),
	}
	if len(pts) != len(want) {
		t.Fatalf("Densify returned %v, want %v", pts, want)
	}
	for i := range pts {
		if !near(pts[i], want[i]) {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}

	single := []geom.Point{geom.Pt(1, 1)}
	if got := tessellate.Densify(single, 0.1); len(got) != 1 {
		t.Errorf("single point densified to %v", got)
	}
}

func TestOutlines(t *testing.T) {
	d := plateDrawing(t)

	outlines, err := tessellate.Outlines(d, 16)
	if err != nil {
		t.Fatalf("Outlines failed: %v", err)
	}
	if len(outlines) != 3 {
		t.Fatalf("expected 3 outlines, got %d", len(outlines))
	}

	tests := []struct {
		name   string
		points int
		closed bool
	}{
		{"slot", 2, false},
		{"plate", 4, true},
		{"hole", 16, true},
	}
	for i, tt := range tests {
		o := outlines[i]
		if o.Name != tt.name {
			t.Errorf("outline %d name = %q, want %q", i, o.Name, tt.name)
			continue
		}
		if o.PointCount() != tt.points {
			t.Errorf("%s: PointCount() = %d, want %d", tt.name, o.PointCount(), tt.points)
		}
		if o.Closed != tt.closed {
			t.Errorf("%s: Closed = %v, want %v", tt.name, o.Closed, tt.closed)
		}
	}
}

func TestOutlinesNilDrawing(t *testing.T) {
	outlines, err := tessellate.Outlines(nil, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outlines) != 0 {
		t.Fatalf("expected 0 outlines, got %d", len(outlines))
	}
}

func TestOutlinesSharedShape(t *testing.T) {
	b := drawing.NewBuilder()
	addShape(t, b, "hub", geom.NewCircle(geom.Pt(0, 0), 1))
	if _, err := b.AddGroup("inner", drawing.GroupData{}, drawing.SourceRef{}, "hub"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddGroup("outer", drawing.GroupData{}, drawing.SourceRef{}, "inner", "hub"); err != nil {
		t.Fatal(err)
	}

	outlines, err := tessellate.Outlines(b.Build(), 8)
	if err != nil {
		t.Fatalf("Outlines failed: %v", err)
	}
	if len(outlines) != 1 {
		t.Fatalf("expected the shared shape once, got %d outlines", len(outlines))
	}
}

func TestRegions(t *testing.T) {
	d := plateDrawing(t)

	regions, err := tessellate.Regions(d, newKernel())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected regions for plate and hole, got %d", len(regions))
	}
	if _, ok := regions[d.MustLookup("slot").ID]; ok {
		t.Error("open segment must not have a region")
	}

	plate := regions[d.MustLookup("plate").ID]
	if !kernel.Contains(plate, geom.Pt(4, 4)) || kernel.Contains(plate, geom.Pt(6, 0)) {
		t.Error("plate region has the wrong extent")
	}
	hole := regions[d.MustLookup("hole").ID]
	if d := hole.Distance(geom.Pt(0, 0)); math.Abs(d+1) > 1e-9 {
		t.Errorf("hole centre distance = %v, want -1", d)
	}
}

func TestCoverage(t *testing.T) {
	d := plateDrawing(t)

	cover, err := tessellate.Coverage(d, newKernel())
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}
	if cover == nil {
		t.Fatal("expected a coverage region")
	}
	min, max := cover.Bounds()
	if min.X > -5+1e-9 || max.Y < 5-1e-9 {
		t.Errorf("coverage bounds = %v..%v, want to span the plate", min, max)
	}

	empty := drawing.NewBuilder()
	addShape(t, empty, "guide", geom.NewLine(geom.Pt(0, 0), geom.Pt(1, 1)))
	cover, err = tessellate.Coverage(empty.Build(), newKernel())
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}
	if cover != nil {
		t.Error("drawing without closed shapes should have no coverage")
	}
}

func TestClearance(t *testing.T) {
	tests := []struct {
		name   string
		shapes map[string]geom.Shape
		allow  []string
		want   []string // substrings, one per warning
	}{
		{
			name: "segment close to plate",
			shapes: map[string]geom.Shape{
				"plate": geom.NewRectangle(geom.Pt(0, 0), 10, 10, 0),
				"rail":  geom.NewLineSegment(geom.Pt(5.1, -2), geom.Pt(5.1, 2)),
				"far":   geom.NewLineSegment(geom.Pt(20, 0), geom.Pt(21, 0)),
			},
			want: []string{`shapes "plate" and "rail"`},
		},
		{
			name: "allowed contact",
			shapes: map[string]geom.Shape{
				"plate": geom.NewRectangle(geom.Pt(0, 0), 10, 10, 0),
				"rail":  geom.NewLineSegment(geom.Pt(5.1, -2), geom.Pt(5.1, 2)),
			},
			allow: []string{"plate", "rail"},
		},
		{
			name: "parallel segments",
			shapes: map[string]geom.Shape{
				"a": geom.NewLineSegment(geom.Pt(0, 0), geom.Pt(10, 0)),
				"b": geom.NewLineSegment(geom.Pt(0, 0.1), geom.Pt(10, 0.1)),
			},
			want: []string{`shapes "a" and "b" are 0.1 apart`},
		},
		{
			name: "hole inside plate interferes",
			shapes: map[string]geom.Shape{
				"plate": geom.NewRectangle(geom.Pt(0, 0), 10, 10, 0),
				"hole":  geom.NewCircle(geom.Pt(0, 0), 1),
			},
		},
		{
			name: "segment inside circle near its rim",
			shapes: map[string]geom.Shape{
				"ring": geom.NewCircle(geom.Pt(0, 0), 5),
				"bar":  geom.NewLineSegment(geom.Pt(-0.5, 4.9), geom.Pt(0.5, 4.9)),
			},
			want: []string{`shapes "bar" and "ring"`},
		},
		{
			name: "touching shapes are not clearance findings",
			shapes: map[string]geom.Shape{
				"a": geom.NewLineSegment(geom.Pt(0, 0), geom.Pt(10, 0)),
				"b": geom.NewLineSegment(geom.Pt(5, -1), geom.Pt(5, 1)),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := drawing.NewBuilder()
			for name, s := range tt.shapes {
				addShape(t, b, name, s)
			}
			if len(tt.allow) > 0 {
				if _, err := b.AddGroup("contact", drawing.GroupData{AllowContact: true}, drawing.SourceRef{}, tt.allow...); err != nil {
					t.Fatal(err)
				}
			}

			warnings, err := tessellate.Clearance(b.Build(), newKernel(), 0.25, 32)
			if err != nil {
				t.Fatalf("Clearance failed: %v", err)
			}
			if len(warnings) != len(tt.want) {
				t.Fatalf("got %d warnings %v, want %d", len(warnings), warnings, len(tt.want))
			}
			for i, w := range tt.want {
				if !strings.Contains(warnings[i].Message, w) {
					t.Errorf("warning %q does not contain %q", warnings[i].Message, w)
				}
			}
		})
	}
}

func TestClearanceDisabled(t *testing.T) {
	warnings, err := tessellate.Clearance(plateDrawing(t), newKernel(), 0, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warnings != nil {
		t.Fatalf("expected no warnings with zero clearance, got %v", warnings)
	}
}
