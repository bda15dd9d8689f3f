package surface

import (
	"math"

	"github.com/banshee-data/roomsurface/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Strategy supplies the role-specific parts of a Grid: how baseline
// clearance is derived from the boundary, where the blocking column sits
// along the surface normal, and whether distances are propagated at all.
type Strategy interface {
	Kind() Kind
	// EdgeClearance returns the baseline clearance of a cell centre and
	// whether the centre lies inside the placeable boundary.
	EdgeClearance(p r2.Vec, size r2.Vec) (float64, bool)
	// Column returns the [lo, hi] interval along the surface normal in which
	// an obstacle blocks the cells beneath it.
	Column(p Params) (lo, hi float64)
	// TracksClearance reports whether BlockArea runs the propagator.
	TracksClearance() bool
}

// DeskStrategy treats the surface as a rectangle with continuous clearance.
type DeskStrategy struct{}

func (DeskStrategy) Kind() Kind { return KindDesk }

func (DeskStrategy) EdgeClearance(p, size r2.Vec) (float64, bool) {
	return geom.RectEdgeDistance(p, size), true
}

// Column is the half-line above the surface: anything resting on or hovering
// over the desk blocks it, furniture underneath does not.
func (DeskStrategy) Column(p Params) (float64, float64) { return p.ColumnLift, math.Inf(1) }

func (DeskStrategy) TracksClearance() bool { return true }

// FloorStrategy clips the lattice to the room boundary polygon. Without a
// usable polygon it falls back to the rectangle.
type FloorStrategy struct {
	Boundary geom.Polygon
}

func (FloorStrategy) Kind() Kind { return KindFloor }

func (s FloorStrategy) EdgeClearance(p, size r2.Vec) (float64, bool) {
	if !s.Boundary.Valid() {
		return geom.RectEdgeDistance(p, size), true
	}
	if !s.Boundary.Contains(p) {
		return 0, false
	}
	return s.Boundary.EdgeDistance(p), true
}

func (FloorStrategy) Column(p Params) (float64, float64) { return p.ColumnLift, math.Inf(1) }

func (FloorStrategy) TracksClearance() bool { return true }

// WallStrategy tracks blocking through the scene/placed flags only; walls
// are scanned linearly so no distance field is maintained.
type WallStrategy struct{}

func (WallStrategy) Kind() Kind { return KindWall }

func (WallStrategy) EdgeClearance(p, size r2.Vec) (float64, bool) {
	return geom.RectEdgeDistance(p, size), true
}

// Column is a slab in front of the wall: furniture pushed against it blocks,
// objects in the middle of the room or behind the wall do not.
func (WallStrategy) Column(p Params) (float64, float64) { return -p.ColumnLift, p.WallBlockDepth }

func (WallStrategy) TracksClearance() bool { return false }
