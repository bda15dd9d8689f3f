package room

import (
	"math"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"github.com/banshee-data/roomsurface/internal/surface"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// roundRobin calls try for each of n surfaces once, starting at a random
// index, until one succeeds.
func (r *Registry) roundRobin(n int, try func(i int) bool) bool {
	if n == 0 {
		return false
	}
	start := r.rng.IntN(n)
	for k := 0; k < n; k++ {
		if try((start + k) % n) {
			return true
		}
	}
	return false
}

// RequestRandomLocation places an object of dims (X width, Y depth, Z
// height) on any floor or desk, facing faceTarget to the nearest quarter
// turn.
func (r *Registry) RequestRandomLocation(faceTarget, dims r3.Vec, markAsBlocked bool) (bool, r3.Vec, quat.Number) {
	if !r.ready("RequestRandomLocation") {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	var pos r3.Vec
	var rot quat.Number
	ok := r.roundRobin(len(r.floors)+len(r.desks), func(i int) bool {
		var found bool
		if i < len(r.floors) {
			found, pos, rot = r.floors[i].RequestRandomLocation(faceTarget, dims, markAsBlocked)
		} else {
			found, pos, rot = r.placeOnDesk(r.desks[i-len(r.floors)], faceTarget, dims, markAsBlocked)
		}
		return found
	})
	if !ok {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	return true, pos, rot
}

// RequestRandomFloorLocation is RequestRandomLocation restricted to floors.
func (r *Registry) RequestRandomFloorLocation(faceTarget, dims r3.Vec, markAsBlocked bool) (bool, r3.Vec, quat.Number) {
	if !r.ready("RequestRandomFloorLocation") {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	var pos r3.Vec
	var rot quat.Number
	ok := r.roundRobin(len(r.floors), func(i int) bool {
		var found bool
		found, pos, rot = r.floors[i].RequestRandomLocation(faceTarget, dims, markAsBlocked)
		return found
	})
	if !ok {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	return true, pos, rot
}

// RequestRandomDeskLocation returns the safest spot with at least radius
// clearance on one of the desks. With markAsBlocked a square of side
// 2*radius around it becomes placed-object blocked.
func (r *Registry) RequestRandomDeskLocation(radius float64, markAsBlocked bool) (bool, r3.Vec) {
	if !r.ready("RequestRandomDeskLocation") {
		return false, r3.Vec{}
	}
	var pos r3.Vec
	ok := r.roundRobin(len(r.desks), func(i int) bool {
		dk := r.desks[i]
		found, p := dk.RequestCenterLocation(radius)
		if !found {
			return false
		}
		pos = p
		if markAsBlocked {
			lift := r.cfg.GetColumnLift()
			footprint := geom.NewBox(r3.Add(p, r3.Scale(lift, dk.Normal())), r3.Vec{X: 2 * radius, Y: 2 * radius, Z: 2 * lift}, dk.Pose.Rotation)
			dk.BlockBox(footprint, surface.ReasonPlacedObject)
		}
		return true
	})
	if !ok {
		return false, r3.Vec{}
	}
	return true, pos
}

// placeOnDesk puts an object on the desk's safest spot that fits its
// footprint, facing faceTarget.
func (r *Registry) placeOnDesk(dk *surface.Desk, faceTarget, dims r3.Vec, markAsBlocked bool) (bool, r3.Vec, quat.Number) {
	found, pos := dk.RequestCenterLocation(math.Max(dims.X, dims.Y) / 2)
	if !found {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	rot := dk.FacingRotation(dk.WorldToLocal(pos), dk.WorldToLocal(faceTarget))
	if markAsBlocked {
		h := math.Max(dims.Z, 2*r.cfg.GetColumnLift())
		obj := geom.NewBox(r3.Add(pos, r3.Scale(h/2, dk.Normal())), r3.Vec{X: dims.X, Y: dims.Y, Z: h}, rot)
		dk.BlockBox(obj, surface.ReasonPlacedObject)
	}
	return true, pos, rot
}

// RequestRandomWallLocation hangs a width x height object centred
// heightOffFloor above the bottom of a wall, at least edgeMargin from the
// wall's ends. ignoreSceneBlocked lets it cover static scene geometry but
// never another placed object.
func (r *Registry) RequestRandomWallLocation(heightOffFloor, width, height, edgeMargin float64, ignoreSceneBlocked bool) (bool, r3.Vec, quat.Number) {
	if !r.ready("RequestRandomWallLocation") {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	return r.walls.QueryForSafeWallLocation(heightOffFloor, height, width, edgeMargin, ignoreSceneBlocked)
}

// RequestTotallyRandomWallLocation returns a uniformly random point on a
// random wall, ignoring all blocking, oriented with the wall.
func (r *Registry) RequestTotallyRandomWallLocation() (bool, r3.Vec, quat.Number) {
	if !r.ready("RequestTotallyRandomWallLocation") {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	var pos r3.Vec
	var rot quat.Number
	ok := r.roundRobin(len(r.walls.Walls), func(i int) bool {
		w := r.walls.Walls[i]
		p, found := w.RandomPoint(r.rng)
		pos, rot = p, w.Pose.Rotation
		return found
	})
	if !ok {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	return true, pos, rot
}

// RequestTotallyRandomFloorLocation returns a uniformly random point inside
// a random floor's boundary, ignoring all blocking, with a random quarter
// turn about the floor normal.
func (r *Registry) RequestTotallyRandomFloorLocation() (bool, r3.Vec, quat.Number) {
	if !r.ready("RequestTotallyRandomFloorLocation") {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	var pos r3.Vec
	var rot quat.Number
	ok := r.roundRobin(len(r.floors), func(i int) bool {
		f := r.floors[i]
		p, found := f.RandomPoint(r.rng)
		yaw := float64(r.rng.IntN(4)) * math.Pi / 2
		pos = p
		rot = geom.Normalize(quat.Mul(f.Pose.Rotation, geom.AxisAngle(r3.Vec{Z: 1}, yaw)))
		return found
	})
	if !ok {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	return true, pos, rot
}

// RequestTotallyRandomDeskLocation returns a uniformly random point on a
// random desk, ignoring all blocking.
func (r *Registry) RequestTotallyRandomDeskLocation() (bool, r3.Vec) {
	if !r.ready("RequestTotallyRandomDeskLocation") {
		return false, r3.Vec{}
	}
	var pos r3.Vec
	ok := r.roundRobin(len(r.desks), func(i int) bool {
		p, found := r.desks[i].RandomPoint(r.rng)
		pos = p
		return found
	})
	if !ok {
		monitoring.Debugf("[Registry] RequestTotallyRandomDeskLocation: no desk with cells")
		return false, r3.Vec{}
	}
	return true, pos
}
