package surface

import (
	"math"
	"testing"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// stubOverlap returns fixed hits for every query and records the calls.
type stubOverlap struct {
	hits  []Hit
	calls int
}

func (s *stubOverlap) Overlap(center, halfExtents r3.Vec, orientation quat.Number) []Hit {
	s.calls++
	return s.hits
}

type stubRay struct {
	hit  Hit
	dist float64
	ok   bool
}

func (s stubRay) Raycast(origin, dir r3.Vec, maxDist float64) (Hit, float64, bool) {
	return s.hit, s.dist, s.ok
}

var smallBox = r3.Vec{X: 0.9, Y: 0.9, Z: 0.5}

func TestFloor_RoundTrip(t *testing.T) {
	t.Parallel()
	f := NewFloor(makeTestParams("floor", 4, 4, 1), nil, &stubOverlap{}, nil, testRNG())
	require.Equal(t, 16, f.Len())

	ok, pos, _ := f.RequestRandomLocation(r3.Vec{X: 10}, smallBox, false)
	require.True(t, ok)
	assert.LessOrEqual(t, math.Abs(pos.X), 2.0)
	assert.LessOrEqual(t, math.Abs(pos.Y), 2.0)

	f.BlockArea(geom.NewPose(r3.Vec{Z: 0.5}, geom.IdentityRotation), r3.Vec{X: 4, Y: 4, Z: 1}, ReasonScene)
	ok, pos, rot := f.RequestRandomLocation(r3.Vec{X: 10}, smallBox, false)
	assert.False(t, ok)
	assert.Equal(t, r3.Vec{}, pos)
	assert.Equal(t, geom.IdentityRotation, rot)
}

func TestFloor_ClearanceFilter(t *testing.T) {
	t.Parallel()
	f := NewFloor(makeTestParams("floor", 4, 4, 1), nil, &stubOverlap{}, nil, testRNG())

	// Needs 1.5 clearance: only the four inner cells qualify.
	for i := 0; i < 20; i++ {
		ok, pos, _ := f.RequestRandomLocation(r3.Vec{}, r3.Vec{X: 3, Y: 1, Z: 1}, false)
		require.True(t, ok)
		assert.InDelta(t, 0.5, math.Abs(pos.X), tol)
		assert.InDelta(t, 0.5, math.Abs(pos.Y), tol)
	}

	ok, _, _ := f.RequestRandomLocation(r3.Vec{}, r3.Vec{X: 3.2, Y: 1, Z: 1}, false)
	assert.False(t, ok)
}

func TestFloor_FacesTargetOnQuarterTurns(t *testing.T) {
	t.Parallel()
	f := NewFloor(makeTestParams("floor", 4, 4, 1), nil, &stubOverlap{}, nil, testRNG())

	ok, pos, rot := f.RequestRandomLocation(r3.Vec{X: 100, Y: 0.3}, smallBox, false)
	require.True(t, ok)
	forward := geom.RotateVec(rot, r3.Vec{Y: 1})
	assert.True(t, geom.Near(r3.Vec{X: 1}, forward, 1e-9), "forward %v from %v", forward, pos)
}

func TestFloor_OverlapRejections(t *testing.T) {
	t.Parallel()

	t.Run("blocking volume", func(t *testing.T) {
		ov := &stubOverlap{hits: []Hit{{Surface: "crate", Cell: -1}}}
		f := NewFloor(makeTestParams("floor", 2, 2, 1), nil, ov, nil, testRNG())
		ok, _, _ := f.RequestRandomLocation(r3.Vec{}, smallBox, true)
		assert.False(t, ok)
		assert.Equal(t, 4, ov.calls, "every candidate confirmed with the host")
		assert.Zero(t, f.Stats().Placed, "failed queries mark nothing")
	})

	t.Run("another surface", func(t *testing.T) {
		ov := &stubOverlap{hits: []Hit{{Surface: "desk", Cell: 3}}}
		f := NewFloor(makeTestParams("floor", 2, 2, 1), nil, ov, nil, testRNG())
		ok, _, _ := f.RequestRandomLocation(r3.Vec{}, smallBox, false)
		assert.False(t, ok)
	})

	t.Run("own free cells are fine", func(t *testing.T) {
		ov := &stubOverlap{hits: []Hit{{Surface: "floor", Cell: 0}}}
		f := NewFloor(makeTestParams("floor", 2, 2, 1), nil, ov, nil, testRNG())
		ok, _, _ := f.RequestRandomLocation(r3.Vec{}, smallBox, false)
		assert.True(t, ok)
	})
}

func TestFloor_MarkAsBlocked(t *testing.T) {
	t.Parallel()
	f := NewFloor(makeTestParams("floor", 4, 4, 1), nil, nil, nil, testRNG())

	placed := 0
	for {
		ok, pos, _ := f.RequestRandomLocation(r3.Vec{}, smallBox, true)
		if !ok {
			break
		}
		placed++
		i := f.Idx(int(math.Floor(pos.X+2)), int(math.Floor(pos.Y+2)))
		require.True(t, f.Cells[i].BlockedByPlacedObject, "cell under placement %d is marked", placed)
		require.LessOrEqual(t, placed, 16)
	}
	assert.Equal(t, 16, placed, "each 0.9m object takes exactly one 1m cell")
	assert.Equal(t, 16, f.Stats().Placed)
}

func TestFloor_SupportRaycast(t *testing.T) {
	t.Parallel()

	t.Run("snaps to the floor hit", func(t *testing.T) {
		ray := stubRay{hit: Hit{Surface: "floor", Cell: 0}, dist: 0.5, ok: true}
		f := NewFloor(makeTestParams("floor", 2, 2, 1), nil, nil, ray, testRNG())
		ok, pos, _ := f.RequestRandomLocation(r3.Vec{}, smallBox, false)
		require.True(t, ok)
		// Cast from 0.51 above the floor, hit after 0.5.
		assert.InDelta(t, 0.01, pos.Z, tol)
	})

	t.Run("overhang rejects", func(t *testing.T) {
		ray := stubRay{hit: Hit{Surface: "shelf", Cell: -1}, dist: 0.1, ok: true}
		f := NewFloor(makeTestParams("floor", 2, 2, 1), nil, nil, ray, testRNG())
		ok, _, _ := f.RequestRandomLocation(r3.Vec{}, smallBox, false)
		assert.False(t, ok)
	})
}

func TestFloor_PolygonBoundary(t *testing.T) {
	t.Parallel()
	l := geom.Polygon{
		{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 2}, {X: -2, Y: 2},
	}
	f := NewFloor(makeTestParams("floor", 4, 4, 0.5), l, nil, nil, testRNG())

	s := f.Stats()
	assert.Equal(t, 16, s.Outside, "the missing 2x2 quadrant is outside")

	for i := 0; i < 30; i++ {
		ok, pos, _ := f.RequestRandomLocation(r3.Vec{}, r3.Vec{X: 0.4, Y: 0.4, Z: 0.4}, true)
		if !ok {
			break
		}
		assert.False(t, pos.X > 0 && pos.Y > 0, "placed in the missing quadrant at %v", pos)
	}
}
