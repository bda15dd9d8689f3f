// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/roomsurface/internal/scan"
	"gonum.org/v1/gonum/spatial/r3"
)

// Wall orientations, as [x, y, z, w] quaternions, for walls of an
// axis-aligned room. Each maps local +Z onto the inward normal and local +Y
// onto world up.
var (
	FacingNorth = [4]float64{0, math.Sqrt2 / 2, math.Sqrt2 / 2, 0} // south wall
	FacingSouth = [4]float64{math.Sqrt2 / 2, 0, 0, math.Sqrt2 / 2} // north wall
	FacingWest  = [4]float64{0.5, -0.5, -0.5, 0.5}                 // east wall
	FacingEast  = [4]float64{0.5, 0.5, 0.5, 0.5}                   // west wall
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNear checks that two vectors agree within tol on every component.
func AssertNear(t *testing.T, want, got r3.Vec, tol float64) {
	t.Helper()
	if math.Abs(want.X-got.X) > tol || math.Abs(want.Y-got.Y) > tol || math.Abs(want.Z-got.Z) > tol {
		t.Errorf("vector = %v, want %v (tol %g)", got, want, tol)
	}
}

// WriteFile writes content to name under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// RectRoom returns an empty w x d room with walls of height h: one
// rectangular floor centred on the origin and four inward-facing walls.
func RectRoom(w, d, h float64) *scan.Room {
	return &scan.Room{
		Name:  "rect",
		Units: "m",
		Surfaces: []scan.Descriptor{
			{ID: "floor", Kind: scan.KindFloor, PlanarSize: [2]float64{w, d}},
			{ID: "wall-south", Kind: scan.KindWall, Origin: [3]float64{0, -d / 2, h / 2}, Orientation: FacingNorth, PlanarSize: [2]float64{w, h}},
			{ID: "wall-north", Kind: scan.KindWall, Origin: [3]float64{0, d / 2, h / 2}, Orientation: FacingSouth, PlanarSize: [2]float64{w, h}},
			{ID: "wall-east", Kind: scan.KindWall, Origin: [3]float64{w / 2, 0, h / 2}, Orientation: FacingWest, PlanarSize: [2]float64{d, h}},
			{ID: "wall-west", Kind: scan.KindWall, Origin: [3]float64{-w / 2, 0, h / 2}, Orientation: FacingEast, PlanarSize: [2]float64{d, h}},
		},
	}
}

// StudyRoom returns RectRoom(4, 3, 2.5) furnished with a table carrying a
// desk, a sofa against the west wall and a shelf over the south-east corner.
func StudyRoom() *scan.Room {
	r := RectRoom(4, 3, 2.5)
	r.Name = "study"
	r.Surfaces = append(r.Surfaces,
		scan.Descriptor{ID: "table", Kind: scan.KindBlockingVolume, Origin: [3]float64{-1, 0.9, 0.37}, Size: [3]float64{1.2, 0.6, 0.74}},
		scan.Descriptor{ID: "desk", Kind: scan.KindDesk, Parent: "table", Origin: [3]float64{-1, 0.9, 0.75}, PlanarSize: [2]float64{1.2, 0.6}},
		scan.Descriptor{ID: "sofa", Kind: scan.KindBlockingVolume, Origin: [3]float64{-1.6, -0.5, 0.4}, Size: [3]float64{0.8, 1.8, 0.8}},
		scan.Descriptor{ID: "shelf", Kind: scan.KindBlockingPlane, Origin: [3]float64{1.5, -1.3, 1.2}, PlanarSize: [2]float64{0.8, 0.4}},
	)
	return r
}
