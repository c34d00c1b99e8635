package drawing

import (
	"math"
	"testing"

	"github.com/chazu/planar/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDrawing(t *testing.T) {
	d := New()
	require.NotNil(t, d.Nodes)
	require.NotNil(t, d.NameIndex)
	assert.Equal(t, DefaultClearance, d.Defaults.Clearance)
	assert.Equal(t, geom.DefaultPrecision, d.Defaults.Precision)
	assert.Equal(t, "mm", d.Defaults.Units)
	assert.Zero(t, d.NodeCount())
}

func TestAddNodeAndLookup(t *testing.T) {
	d := New()
	seg := geom.NewLineSegment(geom.Pt(0, 0), geom.Pt(1, 0))
	id := NewNodeID("shape/edge")
	d.AddNode(&Node{ID: id, Kind: NodeShape, Name: "edge", Data: ShapeData{Shape: seg}})
	d.AddRoot(id)

	assert.Equal(t, 1, d.NodeCount())
	found := d.Lookup("edge")
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, seg.Point2, found.Shape().(geom.LineSegment).Point2)
	assert.Equal(t, id, d.MustLookup("edge").ID)
	assert.Same(t, found, d.Get(id))
	assert.Nil(t, d.Lookup("missing"))
	assert.Panics(t, func() { d.MustLookup("missing") })
}

func TestShapesAndGroupsSorted(t *testing.T) {
	b := NewBuilder()
	for _, name := range []string{"c", "a", "b"} {
		_, err := b.AddShape(name, geom.NewCircle(geom.Pt(0, 0), 1), SourceRef{})
		require.NoError(t, err)
	}
	_, err := b.AddGroup("z", GroupData{}, SourceRef{}, "a")
	require.NoError(t, err)
	_, err = b.AddGroup("y", GroupData{}, SourceRef{}, "b")
	require.NoError(t, err)
	d := b.Build()

	var names []string
	for _, n := range d.Shapes() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	names = names[:0]
	for _, n := range d.Groups() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"y", "z"}, names)

	kids := d.Children(d.MustLookup("z"))
	require.Len(t, kids, 1)
	assert.Equal(t, "a", kids[0].Name)
}

func TestNodeIDs(t *testing.T) {
	a := NewNodeID("shape/a")
	assert.Equal(t, a, NewNodeID("shape/a"), "IDs are deterministic")
	assert.NotEqual(t, a, NewNodeID("shape/b"))
	assert.Len(t, a.String(), 16)
	assert.Len(t, a.Short(), 8)
	assert.True(t, ZeroID.IsZero())
	assert.False(t, a.IsZero())
}

func TestHashShape(t *testing.T) {
	p := func(x, y float64) geom.Point { return geom.Pt(x, y) }
	tests := []struct {
		name  string
		a, b  geom.Shape
		equal bool
	}{
		{"same segment", geom.NewLineSegment(p(0, 0), p(1, 1)), geom.NewLineSegment(p(0, 0), p(1, 1)), true},
		{"reversed segment", geom.NewLineSegment(p(0, 0), p(1, 1)), geom.NewLineSegment(p(1, 1), p(0, 0)), false},
		{"same carrier lines", geom.NewLine(p(0, 0), p(1, 1)), geom.NewLine(p(2, 2), p(3, 3)), true},
		{"arc vs circle", geom.NewArc(p(0, 0), 1, 0, 90), geom.NewCircle(p(0, 0), 1), false},
		{"polyline vs polygon", geom.NewPolyline(p(0, 0), p(1, 0), p(0, 1), p(0, 0)), geom.NewPolygon(p(0, 0), p(1, 0), p(0, 1)), false},
		{"vertical lines", geom.NewLine(p(2, 0), p(2, 1)), geom.NewLine(p(2, 5), p(2, 9)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, HashShape(tt.a) == HashShape(tt.b))
		})
	}
}

func TestQueries(t *testing.T) {
	d := New()
	d.AddQuery(PointsQuery(QueryIntersections, []string{"a", "b"}, []geom.Point{geom.Pt(1, 1)}))
	d.AddQuery(BoolQuery(QueryEncloses, []string{"a", "b"}, true))
	d.AddQuery(LengthQuery(QueryOverlapLength, []string{"a", "b"}, 2.5))
	unbounded := LengthQuery(QueryOverlapLength, []string{"a", "b"}, math.Inf(1))

	require.Len(t, d.Queries, 3)
	assert.Equal(t, "intersections", d.Queries[0].Kind.String())
	require.NotNil(t, d.Queries[1].Holds)
	assert.True(t, *d.Queries[1].Holds)
	require.NotNil(t, d.Queries[2].Length)
	assert.Equal(t, 2.5, *d.Queries[2].Length)
	assert.True(t, unbounded.Unbounded)
	assert.Nil(t, unbounded.Length)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "shape", NodeShape.String())
	assert.Equal(t, "group", NodeGroup.String())
	assert.Equal(t, "unknown", NodeKind(9).String())
	assert.Equal(t, "overlap-length", QueryOverlapLength.String())
	assert.Equal(t, "unknown", QueryKind(9).String())
}
