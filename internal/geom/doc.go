// Package geom holds the rigid-body maths shared by the placement engine:
// poses built on gonum r3 vectors and quaternions, oriented boxes with
// separating-axis overlap, line and ray slab tests, and 2D polygon
// distance queries for irregular floor boundaries.
//
// Coordinate convention: right-handed, Z up. A surface's local frame has X
// and Y spanning the plane and +Z along the surface normal.
package geom
