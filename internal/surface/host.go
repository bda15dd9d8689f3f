package surface

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Hit identifies what a volumetric query touched: a cell of a registered
// surface, or (Cell == -1) a blocking volume or plane.
type Hit struct {
	Surface string
	Cell    int
}

// IsVolume reports whether the hit is a blocking volume rather than a cell.
func (h Hit) IsVolume() bool { return h.Cell < 0 }

// OverlapTester is the host's physical scene: it reports everything a box
// intersects.
type OverlapTester interface {
	Overlap(center, halfExtents r3.Vec, orientation quat.Number) []Hit
}

// Raycaster casts a ray through the host scene. dir must be unit length.
type Raycaster interface {
	Raycast(origin, dir r3.Vec, maxDist float64) (Hit, float64, bool)
}
