package surface

import (
	"math"
	"math/rand/v2"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Floor answers randomised placement queries for objects with a real 3D
// footprint. The 2D clearance field only prefilters candidates; the host
// overlap test has the final say.
type Floor struct {
	*Grid

	overlap OverlapTester
	ray     Raycaster // optional
	rng     *rand.Rand
}

// NewFloor builds a floor grid clipped to boundary. ray may be nil.
func NewFloor(p Params, boundary geom.Polygon, overlap OverlapTester, ray Raycaster, rng *rand.Rand) *Floor {
	if !boundary.Valid() {
		monitoring.Logf("[Floor] %s: no usable boundary polygon (%d points), using the rectangle", p.ID, len(boundary))
	}
	return &Floor{
		Grid:    NewGrid(p, FloorStrategy{Boundary: boundary}),
		overlap: overlap,
		ray:     ray,
		rng:     rng,
	}
}

// RequestRandomLocation searches the floor in random order for a spot where
// an object of dims (X width, Y depth, Z height) fits, facing faceTarget to
// the nearest quarter turn. On success it returns the resting position and
// orientation; with markAsBlocked the cells under the object become
// placed-object blocked.
func (f *Floor) RequestRandomLocation(faceTarget, dims r3.Vec, markAsBlocked bool) (bool, r3.Vec, quat.Number) {
	need := math.Max(dims.X, dims.Y) / 2
	target := f.WorldToLocal(faceTarget)

	for _, i := range f.rng.Perm(len(f.Cells)) {
		c := &f.Cells[i]
		if c.Blocked || c.Clearance < need {
			continue
		}

		rot := f.FacingRotation(c.Position, target)
		base := f.CellWorldPosition(i)
		box := f.objectBox(base, dims, rot)

		own, ok := f.confirm(box)
		if !ok {
			continue
		}
		pos, ok := f.support(base, dims)
		if !ok {
			continue
		}

		if markAsBlocked {
			f.BlockCells(own, ReasonPlacedObject)
		}
		monitoring.Debugf("[Floor] %s: placed %.2fx%.2fx%.2f at cell %d", f.ID, dims.X, dims.Y, dims.Z, i)
		return true, pos, rot
	}

	monitoring.Debugf("[Floor] %s: no location for %.2fx%.2fx%.2f", f.ID, dims.X, dims.Y, dims.Z)
	return false, r3.Vec{}, geom.IdentityRotation
}

// objectBox is the object's volume standing on the floor at base.
func (f *Floor) objectBox(base, dims r3.Vec, rot quat.Number) geom.Box {
	center := r3.Add(base, r3.Scale(dims.Z/2, f.Normal()))
	return geom.NewBox(center, dims, rot)
}

// confirm checks the object's volume against this floor's own cells and the
// host scene. It returns the own cells under the object.
func (f *Floor) confirm(box geom.Box) ([]int, bool) {
	own := f.OverlappingCells(box)
	if len(own) == 0 {
		return nil, false
	}
	for _, i := range own {
		if f.Cells[i].Blocked {
			return nil, false
		}
	}
	if f.overlap == nil {
		return own, true
	}
	for _, h := range f.overlap.Overlap(box.Center(), box.HalfExtents, box.Pose.Rotation) {
		if h.Surface == f.ID && !h.IsVolume() && h.Cell < len(f.Cells) {
			if f.Cells[h.Cell].Blocked {
				return nil, false
			}
			continue
		}
		return nil, false
	}
	return own, true
}

// support drops a ray from above the object onto the floor. Hitting the
// floor snaps the resting point to it; hitting anything else first means
// something overhangs the spot and the candidate is rejected.
func (f *Floor) support(base, dims r3.Vec) (r3.Vec, bool) {
	if f.ray == nil {
		return base, true
	}
	n := f.Normal()
	lift := dims.Z + f.ColumnLift
	origin := r3.Add(base, r3.Scale(lift, n))
	down := r3.Scale(-1, n)

	h, dist, ok := f.ray.Raycast(origin, down, lift+f.ColliderThickness)
	if !ok {
		return base, true
	}
	if h.Surface != f.ID {
		return r3.Vec{}, false
	}
	return r3.Add(origin, r3.Scale(dist, down)), true
}
