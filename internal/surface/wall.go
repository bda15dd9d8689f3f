package surface

import (
	"math"
	"math/rand/v2"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// wallSlack tolerates floating error when fitting a footprint against a
// wall's edges.
const wallSlack = 1e-9

// NewWall builds one wall grid. Local X runs along the wall, local Y up from
// the floor, +Z into the room.
func NewWall(p Params) *Grid {
	return NewGrid(p, WallStrategy{})
}

// WallSet holds the independent per-wall grids of a room and searches them
// as one surface.
type WallSet struct {
	Walls []*Grid
	rng   *rand.Rand
}

// NewWallSet wraps walls for searching with rng.
func NewWallSet(walls []*Grid, rng *rand.Rand) *WallSet {
	return &WallSet{Walls: walls, rng: rng}
}

// QueryForSafeWallLocation looks for a spot where an object of objectWidth x
// objectHeight, centred heightOffFloor above the bottom of the wall, fits on
// unblocked cells at least edgeMargin from the wall's ends. Walls are tried
// round robin from a random start; within a wall x is scanned left to right
// at the wall's cell stride.
//
// ignoreSceneBlocked allows cells blocked only by static scene geometry.
// Cells blocked by a previously placed object are never reused. The accepted
// footprint is marked placed-object blocked.
func (ws *WallSet) QueryForSafeWallLocation(heightOffFloor, objectHeight, objectWidth, edgeMargin float64, ignoreSceneBlocked bool) (bool, r3.Vec, quat.Number) {
	n := len(ws.Walls)
	if n == 0 {
		return false, r3.Vec{}, geom.IdentityRotation
	}
	start := ws.rng.IntN(n)
	for k := 0; k < n; k++ {
		w := ws.Walls[(start+k)%n]
		if ok, pos, rot := scanWall(w, heightOffFloor, objectHeight, objectWidth, edgeMargin, ignoreSceneBlocked); ok {
			return true, pos, rot
		}
	}
	monitoring.Debugf("[Wall] no location for %.2fx%.2f at %.2f (ignoreScene=%v)", objectWidth, objectHeight, heightOffFloor, ignoreSceneBlocked)
	return false, r3.Vec{}, geom.IdentityRotation
}

func scanWall(w *Grid, heightOffFloor, objectHeight, objectWidth, edgeMargin float64, ignoreSceneBlocked bool) (bool, r3.Vec, quat.Number) {
	if len(w.Cells) == 0 || w.CellW <= 0 {
		return false, r3.Vec{}, geom.IdentityRotation
	}

	y := -w.Size.Y/2 + heightOffFloor
	if y-objectHeight/2 < -w.Size.Y/2-wallSlack || y+objectHeight/2 > w.Size.Y/2+wallSlack {
		return false, r3.Vec{}, geom.IdentityRotation
	}

	halfW := objectWidth / 2
	right := w.Size.X/2 - edgeMargin
	for x := -w.Size.X/2 + edgeMargin + halfW; x+halfW <= right+wallSlack; x += w.CellW {
		center := w.Pose.ToWorld(r3.Vec{X: x, Y: y})
		footprint := geom.NewBox(center, r3.Vec{X: objectWidth, Y: objectHeight, Z: geom.MinThickness}, w.Pose.Rotation)

		cells := w.OverlappingCells(footprint)
		if !footprintFree(w, cells, ignoreSceneBlocked) {
			continue
		}
		w.BlockCells(cells, ReasonPlacedObject)
		return true, center, w.Pose.Rotation
	}
	return false, r3.Vec{}, geom.IdentityRotation
}

func footprintFree(w *Grid, cells []int, ignoreSceneBlocked bool) bool {
	if len(cells) == 0 {
		return false
	}
	for _, i := range cells {
		if !w.Cells[i].selectable(ignoreSceneBlocked) {
			return false
		}
	}
	return true
}

// MaxHeight returns the tallest wall's height, used to bound height retries.
func (ws *WallSet) MaxHeight() float64 {
	h := 0.0
	for _, w := range ws.Walls {
		h = math.Max(h, w.Size.Y)
	}
	return h
}
