// Package drawing defines the drawing model for Planar.
// A drawing is an immutable DAG of named shapes and layers produced by one
// evaluation of a Planar program, plus the geometric queries it asked.
package drawing
