package scene

import (
	"math"
	"sort"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"github.com/banshee-data/roomsurface/internal/surface"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Volume is a named solid in the world: furniture, a table top, a blocking
// plane given a minimal thickness.
type Volume struct {
	ID  string
	Box geom.Box
}

// World is a flat list of volumes plus registered surface grids. Lookups are
// linear; a room holds tens of objects.
type World struct {
	volumes []Volume
	grids   []*surface.Grid

	collidersActive bool
}

// NewWorld returns an empty world with cell colliders enabled.
func NewWorld() *World {
	return &World{collidersActive: true}
}

// AddVolume registers a blocking volume. A volume with an existing id
// replaces it.
func (w *World) AddVolume(id string, b geom.Box) {
	for i := range w.volumes {
		if w.volumes[i].ID == id {
			w.volumes[i].Box = b
			return
		}
	}
	w.volumes = append(w.volumes, Volume{ID: id, Box: b})
}

// RemoveVolume drops the volume with id and reports whether it existed.
func (w *World) RemoveVolume(id string) bool {
	for i := range w.volumes {
		if w.volumes[i].ID == id {
			w.volumes = append(w.volumes[:i], w.volumes[i+1:]...)
			return true
		}
	}
	return false
}

// Volumes returns the registered volumes sorted by id.
func (w *World) Volumes() []Volume {
	out := append([]Volume(nil), w.volumes...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddSurface exposes g's cells as colliders.
func (w *World) AddSurface(g *surface.Grid) {
	for _, existing := range w.grids {
		if existing.ID == g.ID {
			monitoring.Logf("[World] surface %q already registered, ignoring duplicate", g.ID)
			return
		}
	}
	w.grids = append(w.grids, g)
}

// RemoveSurface stops exposing the surface with id and reports whether it
// was registered.
func (w *World) RemoveSurface(id string) bool {
	for i, g := range w.grids {
		if g.ID == id {
			w.grids = append(w.grids[:i], w.grids[i+1:]...)
			return true
		}
	}
	return false
}

// SetCellCollidersActive enables or disables the surface cell colliders.
// Volumes always collide.
func (w *World) SetCellCollidersActive(active bool) {
	w.collidersActive = active
}

// CellCollidersActive reports whether surface cells take part in queries.
func (w *World) CellCollidersActive() bool { return w.collidersActive }

// Clear removes every volume and surface.
func (w *World) Clear() {
	w.volumes = nil
	w.grids = nil
}

// Overlap returns every volume and active surface cell that the box
// intersects. Volume hits come first, then cells in surface registration
// order.
func (w *World) Overlap(center, halfExtents r3.Vec, orientation quat.Number) []surface.Hit {
	b := geom.Box{Pose: geom.NewPose(center, orientation), HalfExtents: halfExtents}

	var hits []surface.Hit
	for _, v := range w.volumes {
		if v.Box.Overlaps(b) {
			hits = append(hits, surface.Hit{Surface: v.ID, Cell: -1})
		}
	}
	if !w.collidersActive {
		return hits
	}
	for _, g := range w.grids {
		if !g.Bounds().Overlaps(b) {
			continue
		}
		for _, i := range g.OverlappingCells(b) {
			hits = append(hits, surface.Hit{Surface: g.ID, Cell: i})
		}
	}
	return hits
}

// Raycast returns the nearest volume or active surface cell along the ray
// within maxDist. dir must be unit length.
func (w *World) Raycast(origin, dir r3.Vec, maxDist float64) (surface.Hit, float64, bool) {
	best := surface.Hit{Cell: -1}
	bestDist := math.Inf(1)

	for _, v := range w.volumes {
		if t, ok := v.Box.Raycast(origin, dir, maxDist); ok && t < bestDist {
			best, bestDist = surface.Hit{Surface: v.ID, Cell: -1}, t
		}
	}
	if w.collidersActive {
		for _, g := range w.grids {
			t, ok := g.Bounds().Raycast(origin, dir, maxDist)
			if !ok || t >= bestDist {
				continue
			}
			i, ok := g.CellAt(g.WorldToLocal(r3.Add(origin, r3.Scale(t, dir))))
			if !ok {
				continue
			}
			best, bestDist = surface.Hit{Surface: g.ID, Cell: i}, t
		}
	}

	if math.IsInf(bestDist, 1) {
		return surface.Hit{Cell: -1}, 0, false
	}
	return best, bestDist, true
}
