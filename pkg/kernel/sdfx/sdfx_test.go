package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/kernel"
)

func square(t *testing.T, k *SdfxKernel, x0, y0, size float64) kernel.Region {
	t.Helper()
	r, err := k.Polygon([]geom.Point{
		geom.Pt(x0, y0), geom.Pt(x0+size, y0),
		geom.Pt(x0+size, y0+size), geom.Pt(x0, y0+size),
	})
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	return r
}

func TestPolygon(t *testing.T) {
	k := New()
	sq := square(t, k, 0, 0, 10)

	tests := []struct {
		name string
		p    geom.Point
		want float64
	}{
		{"centre", geom.Pt(5, 5), -5},
		{"near edge", geom.Pt(1, 5), -1},
		{"on edge", geom.Pt(10, 5), 0},
		{"outside", geom.Pt(13, 5), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sq.Distance(tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	min, max := sq.Bounds()
	if math.Abs(min.X) > 1e-9 || math.Abs(min.Y) > 1e-9 {
		t.Errorf("bounds min = %v, want (0,0)", min)
	}
	if math.Abs(max.X-10) > 1e-9 || math.Abs(max.Y-10) > 1e-9 {
		t.Errorf("bounds max = %v, want (10,10)", max)
	}
}

func TestPolygonClosingVertex(t *testing.T) {
	k := New()
	r, err := k.Polygon([]geom.Point{
		geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(0, 4), geom.Pt(0, 0),
	})
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	if !kernel.Contains(r, geom.Pt(1, 1)) {
		t.Error("triangle should contain (1,1)")
	}
	if kernel.Contains(r, geom.Pt(3, 3)) {
		t.Error("triangle should not contain (3,3)")
	}
}

func TestPolygonTooFewVertices(t *testing.T) {
	k := New()
	if _, err := k.Polygon([]geom.Point{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(0, 0)}); err == nil {
		t.Fatal("expected error for degenerate polygon")
	}
}

func TestCircle(t *testing.T) {
	k := New()
	c, err := k.Circle(geom.Pt(3, 4), 2)
	if err != nil {
		t.Fatalf("Circle failed: %v", err)
	}
	if d := c.Distance(geom.Pt(3, 4)); math.Abs(d+2) > 1e-9 {
		t.Errorf("centre distance = %v, want -2", d)
	}
	if d := c.Distance(geom.Pt(8, 4)); math.Abs(d-3) > 1e-9 {
		t.Errorf("outside distance = %v, want 3", d)
	}
	min, max := c.Bounds()
	if math.Abs(min.X-1) > 1e-9 || math.Abs(max.Y-6) > 1e-9 {
		t.Errorf("bounds = %v..%v, want (1,2)..(5,6)", min, max)
	}
}

func TestCircleInvalidRadius(t *testing.T) {
	k := New()
	if _, err := k.Circle(geom.Pt(0, 0), -1); err == nil {
		t.Fatal("expected error for negative radius")
	}
}

func TestDifference(t *testing.T) {
	k := New()
	plate := square(t, k, 0, 0, 10)
	hole, err := k.Circle(geom.Pt(5, 5), 2)
	if err != nil {
		t.Fatalf("Circle failed: %v", err)
	}
	diff := k.Difference(plate, hole)

	if kernel.Contains(diff, geom.Pt(5, 5)) {
		t.Error("difference should not contain the hole centre")
	}
	if !kernel.Contains(diff, geom.Pt(1, 1)) {
		t.Error("difference should contain (1,1)")
	}
}

func TestUnion(t *testing.T) {
	k := New()
	a := square(t, k, 0, 0, 10)
	b := square(t, k, 20, 0, 10)
	u := k.Union(a, b)

	for _, p := range []geom.Point{geom.Pt(5, 5), geom.Pt(25, 5)} {
		if !kernel.Contains(u, p) {
			t.Errorf("union should contain %v", p)
		}
	}
	if kernel.Contains(u, geom.Pt(15, 5)) {
		t.Error("union should not contain the gap")
	}
	min, max := u.Bounds()
	if min.X > 1e-9 || max.X < 30-1e-9 {
		t.Errorf("union bounds = %v..%v, want x in [0,30]", min, max)
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	a := square(t, k, 0, 0, 10)
	b := square(t, k, 5, 5, 10)
	in := k.Intersection(a, b)

	if !kernel.Contains(in, geom.Pt(7, 7)) {
		t.Error("intersection should contain (7,7)")
	}
	if kernel.Contains(in, geom.Pt(2, 2)) {
		t.Error("intersection should not contain (2,2)")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	moved := k.Translate(square(t, k, 0, 0, 10), geom.Vec(100, 0))

	if kernel.Contains(moved, geom.Pt(5, 5)) {
		t.Error("translated square should not contain (5,5)")
	}
	if !kernel.Contains(moved, geom.Pt(105, 5)) {
		t.Error("translated square should contain (105,5)")
	}
	min, _ := moved.Bounds()
	if math.Abs(min.X-100) > 1e-9 {
		t.Errorf("translated min.X = %v, want 100", min.X)
	}
}

func TestRotate(t *testing.T) {
	k := New()
	bar, err := k.Polygon([]geom.Point{
		geom.Pt(0, 0), geom.Pt(20, 0), geom.Pt(20, 2), geom.Pt(0, 2),
	})
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	rot := k.Rotate(bar, 90)

	if !kernel.Contains(rot, geom.Pt(-1, 10)) {
		t.Error("rotated bar should contain (-1,10)")
	}
	if kernel.Contains(rot, geom.Pt(10, 1)) {
		t.Error("rotated bar should not contain (10,1)")
	}
}
