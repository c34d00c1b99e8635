package drawing

import (
	"math"

	"github.com/chazu/planar/pkg/geom"
)

// QueryKind enumerates the geometric questions a program can ask.
type QueryKind int

const (
	QueryIntersections QueryKind = iota
	QueryInterferes
	QueryEncloses
	QueryThroughPoint
	QueryOverlapLength
)

func (k QueryKind) String() string {
	switch k {
	case QueryIntersections:
		return "intersections"
	case QueryInterferes:
		return "interferes"
	case QueryEncloses:
		return "encloses"
	case QueryThroughPoint:
		return "through-point"
	case QueryOverlapLength:
		return "overlap-length"
	default:
		return "unknown"
	}
}

// Query records one geometric question and its answer. Exactly one of
// Points, Holds and Length is meaningful, depending on Kind. An overlap of
// infinite length is reported with Unbounded set and Length nil.
type Query struct {
	Kind      QueryKind    `json:"kind"`
	Operands  []string     `json:"operands"`
	Points    []geom.Point `json:"points,omitempty"`
	Holds     *bool        `json:"holds,omitempty"`
	Length    *float64     `json:"length,omitempty"`
	Unbounded bool         `json:"unbounded,omitempty"`
	Source    SourceRef    `json:"source"`
}

// PointsQuery returns a query answered with a point set.
func PointsQuery(kind QueryKind, operands []string, pts []geom.Point) Query {
	return Query{Kind: kind, Operands: operands, Points: pts}
}

// BoolQuery returns a query answered yes or no.
func BoolQuery(kind QueryKind, operands []string, holds bool) Query {
	return Query{Kind: kind, Operands: operands, Holds: &holds}
}

// LengthQuery returns a query answered with a length.
func LengthQuery(kind QueryKind, operands []string, length float64) Query {
	if math.IsInf(length, 1) {
		return Query{Kind: kind, Operands: operands, Unbounded: true}
	}
	return Query{Kind: kind, Operands: operands, Length: &length}
}

// At returns q located at src.
func (q Query) At(src SourceRef) Query {
	q.Source = src
	return q
}
