package surface

import (
	"math/rand/v2"
	"testing"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func allCells(g *Grid) []int {
	out := make([]int, g.Len())
	for i := range out {
		out[i] = i
	}
	return out
}

func TestWallSet_SkipsPlacedColumns(t *testing.T) {
	t.Parallel()
	w := NewWall(makeTestParams("north", 3, 1, 0.5))
	require.Equal(t, 6, w.CountX)
	require.Equal(t, 2, w.CountY)

	var placed []int
	for y := 0; y < w.CountY; y++ {
		for x := 0; x <= 2; x++ {
			placed = append(placed, w.Idx(x, y))
		}
	}
	require.Equal(t, 6, w.BlockCells(placed, ReasonPlacedObject))

	ws := NewWallSet([]*Grid{w}, testRNG())
	ok, pos, rot := ws.QueryForSafeWallLocation(0.5, 0.4, 0.4, 0, false)
	require.True(t, ok)
	assert.GreaterOrEqual(t, pos.X, -1e-9)
	assert.LessOrEqual(t, pos.X, 1.5)
	assert.InDelta(t, 0, pos.Y, 1e-9, "object centred half way up the wall")
	assert.Equal(t, geom.IdentityRotation, rot)

	// The accepted footprint is now placed and the next object lands further right.
	ok, next, _ := ws.QueryForSafeWallLocation(0.5, 0.4, 0.4, 0, false)
	require.True(t, ok)
	assert.Greater(t, next.X, pos.X+0.4-1e-9)
}

func TestWallSet_IgnoreSceneBlocked(t *testing.T) {
	t.Parallel()
	w := NewWall(makeTestParams("east", 1, 1, 0.5))
	require.Equal(t, 4, w.BlockCells(allCells(w), ReasonScene))
	ws := NewWallSet([]*Grid{w}, testRNG())

	ok, _, _ := ws.QueryForSafeWallLocation(0.5, 0.4, 0.9, 0, false)
	assert.False(t, ok, "scene blocked cells reject by default")

	ok, pos, _ := ws.QueryForSafeWallLocation(0.5, 0.4, 0.9, 0, true)
	require.True(t, ok, "scene blocked cells are allowed when ignored")
	assert.InDelta(t, -0.05, pos.X, 1e-9)

	ok, _, _ = ws.QueryForSafeWallLocation(0.5, 0.4, 0.9, 0, true)
	assert.False(t, ok, "placed objects are never ignored")
	assert.Equal(t, 4, w.Stats().Placed)
}

func TestWallSet_EdgeMargin(t *testing.T) {
	t.Parallel()
	ws := NewWallSet([]*Grid{NewWall(makeTestParams("south", 3, 1, 0.5))}, testRNG())

	ok, pos, _ := ws.QueryForSafeWallLocation(0.5, 0.4, 0.4, 0.5, false)
	require.True(t, ok)
	assert.InDelta(t, -0.8, pos.X, 1e-9)

	ok, _, _ = ws.QueryForSafeWallLocation(0.5, 0.4, 2.2, 0.5, false)
	assert.False(t, ok, "2.2m does not fit within 0.5m margins on a 3m wall")
}

func TestWallSet_HeightOutOfRange(t *testing.T) {
	t.Parallel()
	ws := NewWallSet([]*Grid{NewWall(makeTestParams("west", 3, 1, 0.5))}, testRNG())

	tests := []struct {
		name                   string
		heightOffFloor, height float64
	}{
		{"below floor", 0.1, 0.4},
		{"above top", 0.9, 0.4},
		{"taller than wall", 0.5, 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, pos, rot := ws.QueryForSafeWallLocation(tt.heightOffFloor, tt.height, 0.4, 0, false)
			assert.False(t, ok)
			assert.Equal(t, r3.Vec{}, pos)
			assert.Equal(t, geom.IdentityRotation, rot)
		})
	}
}

func TestWallSet_RoundRobin(t *testing.T) {
	t.Parallel()
	full := NewWall(makeTestParams("full", 3, 1, 0.5))
	full.BlockCells(allCells(full), ReasonPlacedObject)

	p := makeTestParams("free", 3, 1, 0.5)
	p.Pose = geom.NewPose(r3.Vec{X: 10}, geom.IdentityRotation)
	free := NewWall(p)

	for seed := uint64(0); seed < 8; seed++ {
		ws := NewWallSet([]*Grid{full, free}, rand.New(rand.NewPCG(seed, 7)))
		ok, pos, _ := ws.QueryForSafeWallLocation(0.5, 0.2, 0.2, 0, false)
		require.True(t, ok)
		assert.InDelta(t, 10, pos.X, 1.5, "landed on the free wall")
		free.ResetDistanceField()
	}
}

func TestWallSet_NoWalls(t *testing.T) {
	t.Parallel()
	ws := NewWallSet(nil, testRNG())
	ok, pos, rot := ws.QueryForSafeWallLocation(0.5, 0.2, 0.2, 0, false)
	assert.False(t, ok)
	assert.Equal(t, r3.Vec{}, pos)
	assert.Equal(t, geom.IdentityRotation, rot)
	assert.Zero(t, ws.MaxHeight())
}

func TestWallSet_MaxHeight(t *testing.T) {
	t.Parallel()
	ws := NewWallSet([]*Grid{
		NewWall(makeTestParams("a", 3, 2.4, 0.1)),
		NewWall(makeTestParams("b", 3, 2.7, 0.1)),
	}, testRNG())
	assert.InDelta(t, 2.7, ws.MaxHeight(), 1e-12)
}
