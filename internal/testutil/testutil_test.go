package testutil

import (
	"errors"
	"os"
	"testing"

	"github.com/banshee-data/roomsurface/internal/scan"
	"gonum.org/v1/gonum/spatial/r3"
)

// TestAssertNoError_NilErr tests nil error path.
func TestAssertNoError_NilErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

// TestAssertError_WithErr tests non-nil error path.
func TestAssertError_WithErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure when error is present")
	}
}

// TestAssertNear_WithinTolerance tests the passing path.
func TestAssertNear_WithinTolerance(t *testing.T) {
	fakeT := &testing.T{}
	AssertNear(fakeT, r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1.0005, Y: 2, Z: 2.9995}, 1e-3)
	if fakeT.Failed() {
		t.Error("expected no failure within tolerance")
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "a.txt", "hello")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}
}

func TestRectRoom_WallsFaceInward(t *testing.T) {
	room := RectRoom(4, 3, 2.5)
	if err := room.Check(); err != nil {
		t.Fatalf("fixture should pass Check: %v", err)
	}
	walls := room.ByKind(scan.KindWall)
	if len(walls) != 4 {
		t.Fatalf("got %d walls, want 4", len(walls))
	}
	for _, d := range walls {
		pose := d.Pose()
		inward := r3.Vec{X: -pose.Position.X, Y: -pose.Position.Y}
		if r3.Dot(pose.AxisZ(), inward) <= 0 {
			t.Errorf("%s normal %v points out of the room", d.ID, pose.AxisZ())
		}
		AssertNear(t, r3.Vec{Z: 1}, pose.AxisY(), 1e-9)
	}
}

func TestStudyRoom_Check(t *testing.T) {
	room := StudyRoom()
	if err := room.Check(); err != nil {
		t.Fatalf("fixture should pass Check: %v", err)
	}
	if _, ok := room.Find("desk"); !ok {
		t.Error("study room has no desk")
	}
}
