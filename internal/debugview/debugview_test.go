package debugview

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func makeGrid(id string, w, h, spacing float64) *surface.Grid {
	return surface.NewGrid(surface.Params{
		ID:                id,
		Pose:              geom.Identity(),
		Size:              r2.Vec{X: w, Y: h},
		CellSize:          spacing,
		ColumnLift:        0.01,
		ColliderThickness: 0.02,
	}, surface.FloorStrategy{})
}

func blockedFloor() *surface.Grid {
	g := makeGrid("floor-main", 2, 1, 0.1)
	g.BlockArea(geom.NewPose(r3.Vec{X: 0.5, Z: 0.5}, geom.IdentityRotation), r3.Vec{X: 0.4, Y: 0.4, Z: 1}, surface.ReasonScene)
	g.BlockCells([]int{0, 1, 2}, surface.ReasonPlacedObject)
	return g
}

func TestClearanceGrid(t *testing.T) {
	t.Parallel()
	g := blockedFloor()
	cg := clearanceGrid{g: g, max: 1}

	c, r := cg.Dims()
	assert.Equal(t, 20, c)
	assert.Equal(t, 10, r)
	assert.True(t, math.IsNaN(cg.Z(0, 0)), "placed cell is NaN")
	assert.InDelta(t, 0.05, cg.Z(19, 5), 1e-9)
	assert.InDelta(t, -0.95, cg.X(0), 1e-9)
	assert.InDelta(t, 0.45, cg.Y(9), 1e-9)
}

func TestWriteAll(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "debug")
	empty := makeGrid("empty", 0, 1, 0.1)

	written, err := WriteAll(dir, []*surface.Grid{blockedFloor(), empty})
	require.NoError(t, err)
	require.Len(t, written, 2, "one heatmap and the index; the empty grid is skipped")

	png := filepath.Join(dir, "floor_floor-main.png")
	assert.Equal(t, png, written[0])
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "floor floor-main")
	assert.Contains(t, string(html), "echarts")
}

func TestWriteHeatmap_Empty(t *testing.T) {
	t.Parallel()
	err := WriteHeatmap(filepath.Join(t.TempDir(), "x.png"), makeGrid("empty", 1, 0, 0.1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cells")
}

func TestWritePage_WallWithoutClearance(t *testing.T) {
	t.Parallel()
	wall := surface.NewWall(surface.Params{
		ID:       "north",
		Pose:     geom.Identity(),
		Size:     r2.Vec{X: 1, Y: 1},
		CellSize: 0.5,
	})
	wall.BlockCells([]int{0, 1, 2, 3}, surface.ReasonScene)

	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, []*surface.Grid{wall}))
	assert.Contains(t, buf.String(), "wall north")
}

func TestFileSafe(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "wall-north_2", fileSafe("wall-north_2"))
	assert.Equal(t, "a_b_c", fileSafe("a/b c"))
}
