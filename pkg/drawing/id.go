package drawing

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/chazu/planar/pkg/geom"
)

// NodeID identifies a node. It is derived from the node's path
// ("shape/outline", "layer/holes") so that re-evaluating the same program
// yields the same IDs.
type NodeID uint64

// ZeroID is the unset NodeID.
const ZeroID NodeID = 0

// NewNodeID returns the ID for a node path.
func NewNodeID(path string) NodeID {
	return NodeID(xxhash.Sum64String(path))
}

func (id NodeID) String() string { return fmt.Sprintf("%016x", uint64(id)) }

// Short returns the first eight hex digits, for messages.
func (id NodeID) Short() string { return id.String()[:8] }

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

// ContentHash fingerprints a node's geometry. Two shapes defined by the
// same parameters hash equal regardless of their names.
type ContentHash uint64

func (h ContentHash) String() string { return fmt.Sprintf("%016x", uint64(h)) }

// HashShape returns the content hash of a shape's defining parameters.
func HashShape(s geom.Shape) ContentHash {
	d := xxhash.New()
	var buf []byte
	putFloat := func(vs ...float64) {
		for _, v := range vs {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	putPoints := func(pts []geom.Point) {
		for _, p := range pts {
			putFloat(p.X, p.Y)
		}
	}

	buf = append(buf, s.Kind().String()...)
	switch v := s.(type) {
	case geom.Line:
		buf = append(buf, geom.LineKey(v)...)
	case geom.LineSegment:
		putPoints([]geom.Point{v.Point1, v.Point2})
	case geom.Ray:
		putPoints([]geom.Point{v.Origin})
		putFloat(v.Direction.X, v.Direction.Y)
	case geom.Arc:
		putPoints([]geom.Point{v.Center})
		putFloat(v.Radius, v.StartAngle, v.EndAngle)
	case geom.Polyline:
		putPoints(v.Points)
	case geom.Polygon:
		putPoints(v.Points)
	}
	_, _ = d.Write(buf)
	return ContentHash(d.Sum64())
}
