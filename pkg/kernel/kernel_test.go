package kernel

import (
	"math"
	"testing"

	"github.com/chazu/planar/pkg/geom"
)

// --- Outline helper method tests ---

func TestOutlinePointCount(t *testing.T) {
	tests := []struct {
		name   string
		points []float64
		want   int
	}{
		{"empty", nil, 0},
		{"one point", []float64{1, 2}, 1},
		{"square", []float64{0, 0, 1, 0, 1, 1, 0, 1}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Outline{Points: tt.points}
			if got := o.PointCount(); got != tt.want {
				t.Errorf("PointCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOutlineSegmentCount(t *testing.T) {
	square := []float64{0, 0, 1, 0, 1, 1, 0, 1}
	tests := []struct {
		name   string
		points []float64
		closed bool
		want   int
	}{
		{"empty", nil, false, 0},
		{"single point closed", []float64{1, 1}, true, 0},
		{"open square", square, false, 3},
		{"closed square", square, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Outline{Points: tt.points, Closed: tt.closed}
			if got := o.SegmentCount(); got != tt.want {
				t.Errorf("SegmentCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOutlineIsEmpty(t *testing.T) {
	t.Run("empty outline", func(t *testing.T) {
		if !(&Outline{}).IsEmpty() {
			t.Error("IsEmpty() = false for empty outline, want true")
		}
	})
	t.Run("non-empty outline", func(t *testing.T) {
		if (&Outline{Points: []float64{1, 2}}).IsEmpty() {
			t.Error("IsEmpty() = true for non-empty outline, want false")
		}
	})
}

// --- Interface check with a stub kernel ---

// diskRegion is an exact circle, enough to exercise the helpers.
type diskRegion struct {
	c geom.Point
	r float64
}

func (d diskRegion) Distance(p geom.Point) float64 { return d.c.Distance(p) - d.r }
func (d diskRegion) Bounds() (min, max geom.Point) {
	return geom.Pt(d.c.X-d.r, d.c.Y-d.r), geom.Pt(d.c.X+d.r, d.c.Y+d.r)
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. Only Circle and Translate do real work.
type stubKernel struct{}

func (stubKernel) Polygon([]geom.Point) (Region, error) { return diskRegion{}, nil }
func (stubKernel) Circle(c geom.Point, r float64) (Region, error) {
	return diskRegion{c: c, r: r}, nil
}
func (stubKernel) Union(a, _ Region) Region        { return a }
func (stubKernel) Difference(a, _ Region) Region   { return a }
func (stubKernel) Intersection(a, _ Region) Region { return a }
func (stubKernel) Translate(r Region, v geom.Vector) Region {
	d := r.(diskRegion)
	return diskRegion{c: d.c.Add(v), r: d.r}
}
func (stubKernel) Rotate(r Region, _ float64) Region { return r }

var _ Region = diskRegion{}
var _ Kernel = stubKernel{}

func TestContains(t *testing.T) {
	var k Kernel = stubKernel{}
	r, err := k.Circle(geom.Pt(0, 0), 1)
	if err != nil {
		t.Fatal(err)
	}
	r = k.Translate(r, geom.Vec(5, 0))
	tests := []struct {
		p    geom.Point
		want bool
	}{
		{geom.Pt(5, 0), true},
		{geom.Pt(6, 0), true},
		{geom.Pt(0, 0), false},
	}
	for _, tt := range tests {
		if got := Contains(r, tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	min, max := r.Bounds()
	if min != geom.Pt(4, -1) || max != geom.Pt(6, 1) {
		t.Errorf("Bounds() = %v, %v", min, max)
	}
}

func TestGap(t *testing.T) {
	r := diskRegion{c: geom.Pt(0, 0), r: 1}
	tests := []struct {
		name    string
		samples []geom.Point
		want    float64
	}{
		{"clear", []geom.Point{geom.Pt(3, 0), geom.Pt(0, 2)}, 1},
		{"inside", []geom.Point{geom.Pt(3, 0), geom.Pt(0.2, 0)}, 0.8},
		{"on boundary", []geom.Point{geom.Pt(0, -1)}, 0},
		{"none", nil, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gap(r, tt.samples)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("Gap() = %v, want +Inf", got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Gap() = %v, want %v", got, tt.want)
			}
		})
	}
}
