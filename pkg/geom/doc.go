// Package geom is the 2D geometry kernel for Planar.
//
// It defines infinite lines, line segments, rays, circular arcs, polylines
// and polygons, and answers intersection, overlap and interference queries
// between every pair of them. Shapes are immutable values; the With* methods
// return a redefined copy with all derived fields recomputed.
//
// All angles are in degrees, measured counterclockwise from the +X axis.
package geom
