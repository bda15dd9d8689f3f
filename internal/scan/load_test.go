package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLoad_YAML(t *testing.T) {
	t.Parallel()
	room, err := Load(filepath.Join("testdata", "room.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "study", room.Name)
	assert.Equal(t, "m", room.Units)
	require.Len(t, room.Surfaces, 9)
	assert.Len(t, room.ByKind(KindWall), 4)
	assert.Len(t, room.ByKind(KindBlockingVolume), 2)

	floor, ok := room.Find("floor")
	require.True(t, ok)
	assert.Len(t, floor.Polygon(), 6)
	assert.True(t, floor.Polygon().Valid())

	desk, ok := room.Find("desk")
	require.True(t, ok)
	assert.Equal(t, "table", desk.Parent)
}

func TestLoad_JSONInCentimetresMatchesYAML(t *testing.T) {
	t.Parallel()
	yamlRoom, err := Load(filepath.Join("testdata", "room.yaml"))
	require.NoError(t, err)
	jsonRoom, err := Load(filepath.Join("testdata", "room_cm.json"))
	require.NoError(t, err)

	if diff := cmp.Diff(yamlRoom, jsonRoom, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("cm JSON scan differs from metre YAML scan (-yaml +json):\n%s", diff)
	}
}

func TestWallsFaceIntoTheRoom(t *testing.T) {
	t.Parallel()
	room, err := Load(filepath.Join("testdata", "room.yaml"))
	require.NoError(t, err)

	for _, d := range room.ByKind(KindWall) {
		pose := d.Pose()
		inward := r3.Vec{X: -pose.Position.X, Y: -pose.Position.Y}
		assert.Greater(t, r3.Dot(pose.AxisZ(), inward), 0.0, "%s normal %v", d.ID, pose.AxisZ())
		assert.True(t, geom.Near(r3.Vec{Z: 1}, pose.AxisY(), 1e-9), "%s local Y %v is not up", d.ID, pose.AxisY())
		assert.InDelta(t, 0, pose.AxisX().Z, 1e-9, "%s runs horizontally", d.ID)
	}
}

func TestDescriptor_Geometry(t *testing.T) {
	t.Parallel()

	plane := Descriptor{ID: "p", Kind: KindBlockingPlane, Origin: [3]float64{1, 2, 3}, PlanarSize: [2]float64{2, 1}}
	pose := plane.Pose()
	assert.Equal(t, geom.IdentityRotation, pose.Rotation, "zero orientation is identity")
	b := plane.Box()
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, b.Center())
	assert.InDelta(t, geom.MinThickness, b.Size().Z, 1e-12)
	assert.Nil(t, plane.Polygon())

	vol := Descriptor{ID: "v", Kind: KindBlockingVolume, Size: [3]float64{1, 2, 3}, Orientation: [4]float64{0, 0, 0, 2}}
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, vol.Box().Size())
	assert.Equal(t, geom.IdentityRotation, vol.Pose().Rotation, "orientation is normalised")

	assert.True(t, KindDesk.Placeable())
	assert.False(t, KindBlockingVolume.Placeable())
}

func TestParse_SchemaRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"no surfaces", `{"name": "x"}`, "surfaces"},
		{"unknown kind", `{"surfaces": [{"id": "a", "kind": "ceiling", "origin": [0,0,0], "planar_size": [1,1]}]}`, "kind"},
		{"volume without size", `{"surfaces": [{"id": "a", "kind": "blocking_volume", "origin": [0,0,0]}]}`, "size"},
		{"wall without planar size", `{"surfaces": [{"id": "a", "kind": "wall", "origin": [0,0,0]}]}`, "planar_size"},
		{"short origin", `{"surfaces": [{"id": "a", "kind": "floor", "origin": [0,0], "planar_size": [1,1]}]}`, "origin"},
		{"negative size", `{"surfaces": [{"id": "a", "kind": "desk", "origin": [0,0,0], "planar_size": [-1,1]}]}`, "planar_size"},
		{"unknown field", `{"surfaces": [{"id": "a", "kind": "desk", "origin": [0,0,0], "planar_size": [1,1], "colour": "red"}]}`, "colour"},
		{"bad units", `{"units": "furlong", "surfaces": []}`, "units"},
		{"empty id", `{"surfaces": [{"id": "", "kind": "desk", "origin": [0,0,0], "planar_size": [1,1]}]}`, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_CheckRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			"duplicate id",
			`surfaces:
  - {id: a, kind: desk, origin: [0, 0, 0], planar_size: [1, 1]}
  - {id: a, kind: floor, origin: [0, 0, 0], planar_size: [1, 1]}`,
			`duplicate surface id "a"`,
		},
		{
			"missing parent",
			`surfaces:
  - {id: d, kind: desk, parent: t, origin: [0, 0, 0], planar_size: [1, 1]}`,
			`parent "t" not found`,
		},
		{
			"parent not a volume",
			`surfaces:
  - {id: f, kind: floor, origin: [0, 0, 0], planar_size: [1, 1]}
  - {id: d, kind: desk, parent: f, origin: [0, 0, 0], planar_size: [1, 1]}`,
			"want blocking_volume",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc), FormatYAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte(`{"surfaces": [`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scan JSON")

	_, err = Parse([]byte("surfaces: ["), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scan YAML")

	_, err = Parse([]byte(`{}`), Format("toml"))
	require.Error(t, err)
}

func TestParse_UnitScaling(t *testing.T) {
	t.Parallel()
	room, err := Parse([]byte(`units: ft
surfaces:
  - id: rug
    kind: floor
    origin: [1, 0, 0]
    planar_size: [10, 5]
    boundary: [[-5, -2.5], [5, -2.5], [5, 2.5], [-5, 2.5]]
`), FormatYAML)
	require.NoError(t, err)
	require.Len(t, room.Surfaces, 1)

	d := room.Surfaces[0]
	assert.Equal(t, "m", room.Units)
	assert.InDelta(t, 0.3048, d.Origin[0], 1e-12)
	assert.InDelta(t, 3.048, d.PlanarSize[0], 1e-12)
	assert.InDelta(t, -1.524, d.Boundary[0][0], 1e-12)
}

func TestLoad_FileChecks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "room.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extension")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")

	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat(" ", maxFileSize+1)), 0644))
	_, err = Load(big)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")

	format, err := FormatFromPath("ROOM.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)
}
