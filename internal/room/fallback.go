package room

import (
	"fmt"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Target selects the surfaces a fallback request searches.
type Target string

const (
	TargetDesk  Target = "desk"
	TargetFloor Target = "floor"
	TargetAny   Target = "any"
	TargetWall  Target = "wall"
)

// Request is one placement for RequestLocationWithFallback. Only the fields
// of the chosen Target are read.
type Request struct {
	Target Target

	// Floor and any: object box and the point it should face.
	FaceTarget r3.Vec
	Dims       r3.Vec

	// Desk.
	Radius float64

	// Wall: object size, height of its centre above the bottom of the wall,
	// and clearance from the wall's ends.
	Width, Height  float64
	HeightOffFloor float64
	EdgeMargin     float64

	MarkAsBlocked bool
}

// Result is the outcome of RequestLocationWithFallback.
type Result struct {
	Found    bool
	Position r3.Vec
	Rotation quat.Number

	// Step describes the rung of the ladder that succeeded.
	Step string
	// Degraded is set when every constrained rung failed and the position
	// came from a totally random fallback.
	Degraded bool
}

const stepTotallyRandom = "totally random"

// RequestLocationWithFallback runs req down the configured retry ladder:
// desk radii and floor footprints shrink by the configured multipliers,
// wall heights shift by the configured offsets and are then retried while
// ignoring scene blocks. When every rung fails the totally random query for
// the target is used.
func (r *Registry) RequestLocationWithFallback(req Request) Result {
	if !r.ready("RequestLocationWithFallback") {
		return Result{Rotation: geom.IdentityRotation}
	}

	var res Result
	switch req.Target {
	case TargetDesk:
		res = r.deskLadder(req)
	case TargetFloor, TargetAny:
		res = r.floorLadder(req)
	case TargetWall:
		res = r.wallLadder(req)
	default:
		monitoring.Logf("[Registry] RequestLocationWithFallback: unknown target %q", req.Target)
		return Result{Rotation: geom.IdentityRotation}
	}
	if !res.Found {
		res.Rotation = geom.IdentityRotation
	}
	monitoring.Debugf("[Registry] %s request: found=%v step=%q degraded=%v", req.Target, res.Found, res.Step, res.Degraded)
	return res
}

func (r *Registry) deskLadder(req Request) Result {
	for _, m := range r.cfg.GetDeskRadiusMultipliers() {
		if ok, pos := r.RequestRandomDeskLocation(req.Radius*m, req.MarkAsBlocked); ok {
			return Result{Found: true, Position: pos, Rotation: geom.IdentityRotation, Step: fmt.Sprintf("radius x%g", m)}
		}
	}
	if ok, pos := r.RequestTotallyRandomDeskLocation(); ok {
		return Result{Found: true, Position: pos, Rotation: geom.IdentityRotation, Step: stepTotallyRandom, Degraded: true}
	}
	return Result{}
}

func (r *Registry) floorLadder(req Request) Result {
	query := r.RequestRandomFloorLocation
	if req.Target == TargetAny {
		query = r.RequestRandomLocation
	}
	for _, m := range r.cfg.GetFloorRadiusMultipliers() {
		dims := r3.Vec{X: req.Dims.X * m, Y: req.Dims.Y * m, Z: req.Dims.Z}
		if ok, pos, rot := query(req.FaceTarget, dims, req.MarkAsBlocked); ok {
			return Result{Found: true, Position: pos, Rotation: rot, Step: fmt.Sprintf("footprint x%g", m)}
		}
	}
	if ok, pos, rot := r.RequestTotallyRandomFloorLocation(); ok {
		return Result{Found: true, Position: pos, Rotation: rot, Step: stepTotallyRandom, Degraded: true}
	}
	if req.Target == TargetAny {
		if ok, pos := r.RequestTotallyRandomDeskLocation(); ok {
			return Result{Found: true, Position: pos, Rotation: geom.IdentityRotation, Step: stepTotallyRandom, Degraded: true}
		}
	}
	return Result{}
}

func (r *Registry) wallLadder(req Request) Result {
	for _, ignore := range []bool{false, true} {
		for _, off := range r.cfg.GetWallHeightOffsets() {
			ok, pos, rot := r.RequestRandomWallLocation(req.HeightOffFloor+off, req.Width, req.Height, req.EdgeMargin, ignore)
			if !ok {
				continue
			}
			step := fmt.Sprintf("height %+g", off)
			if ignore {
				step += ", ignore scene"
			}
			return Result{Found: true, Position: pos, Rotation: rot, Step: step}
		}
	}
	if ok, pos, rot := r.RequestTotallyRandomWallLocation(); ok {
		return Result{Found: true, Position: pos, Rotation: rot, Step: stepTotallyRandom, Degraded: true}
	}
	return Result{}
}
