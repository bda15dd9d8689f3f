package scan

import (
	"fmt"

	"github.com/banshee-data/roomsurface/internal/geom"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies the role of a scanned surface.
type Kind string

const (
	KindWall           Kind = "wall"
	KindFloor          Kind = "floor"
	KindDesk           Kind = "desk"
	KindBlockingPlane  Kind = "blocking_plane"
	KindBlockingVolume Kind = "blocking_volume"
)

// Placeable reports whether surfaces of this kind get a grid.
func (k Kind) Placeable() bool {
	return k == KindWall || k == KindFloor || k == KindDesk
}

// Descriptor is one detected surface or volume.
//
// Origin is the centre of the surface (or volume) in world space. The
// orientation maps the surface-local frame into the world: local X and Y
// span the plane and local +Z is its normal. Walls use X along the wall,
// Y up and +Z into the room.
type Descriptor struct {
	ID          string       `json:"id" yaml:"id"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Parent      string       `json:"parent,omitempty" yaml:"parent,omitempty"`
	Origin      [3]float64   `json:"origin" yaml:"origin"`
	Orientation [4]float64   `json:"orientation,omitempty" yaml:"orientation,omitempty"` // quaternion [x, y, z, w]
	PlanarSize  [2]float64   `json:"planar_size,omitempty" yaml:"planar_size,omitempty"`
	Size        [3]float64   `json:"size,omitempty" yaml:"size,omitempty"`         // blocking volumes
	Boundary    [][2]float64 `json:"boundary,omitempty" yaml:"boundary,omitempty"` // floors, surface-local
}

// Pose returns the descriptor's transform. An all-zero orientation is
// treated as identity.
func (d Descriptor) Pose() geom.Pose {
	q := quat.Number{Real: d.Orientation[3], Imag: d.Orientation[0], Jmag: d.Orientation[1], Kmag: d.Orientation[2]}
	return geom.NewPose(r3.Vec{X: d.Origin[0], Y: d.Origin[1], Z: d.Origin[2]}, q)
}

// Extent returns the planar size of a surface.
func (d Descriptor) Extent() r2.Vec {
	return r2.Vec{X: d.PlanarSize[0], Y: d.PlanarSize[1]}
}

// Polygon returns the floor boundary in surface-local coordinates.
func (d Descriptor) Polygon() geom.Polygon {
	if len(d.Boundary) == 0 {
		return nil
	}
	p := make(geom.Polygon, len(d.Boundary))
	for i, pt := range d.Boundary {
		p[i] = r2.Vec{X: pt[0], Y: pt[1]}
	}
	return p
}

// Box returns the solid the descriptor occupies. Volumes use Size, every
// other kind is its plane with minimal thickness.
func (d Descriptor) Box() geom.Box {
	pose := d.Pose()
	size := r3.Vec{X: d.PlanarSize[0], Y: d.PlanarSize[1]}
	if d.Kind == KindBlockingVolume {
		size = r3.Vec{X: d.Size[0], Y: d.Size[1], Z: d.Size[2]}
	}
	return geom.NewBox(pose.Position, size, pose.Rotation)
}

func (d *Descriptor) scale(f float64) {
	for i := range d.Origin {
		d.Origin[i] *= f
	}
	for i := range d.PlanarSize {
		d.PlanarSize[i] *= f
	}
	for i := range d.Size {
		d.Size[i] *= f
	}
	for i := range d.Boundary {
		d.Boundary[i][0] *= f
		d.Boundary[i][1] *= f
	}
}

// Room is a whole scan.
type Room struct {
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Units    string       `json:"units,omitempty" yaml:"units,omitempty"`
	Surfaces []Descriptor `json:"surfaces" yaml:"surfaces"`
}

// ByKind returns the descriptors of kind k in document order.
func (r *Room) ByKind(k Kind) []Descriptor {
	var out []Descriptor
	for _, d := range r.Surfaces {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Find returns the descriptor with id.
func (r *Room) Find(id string) (Descriptor, bool) {
	for _, d := range r.Surfaces {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Check enforces the rules the schema cannot express: unique ids and
// parents that name an existing blocking volume.
func (r *Room) Check() error {
	seen := make(map[string]bool, len(r.Surfaces))
	for _, d := range r.Surfaces {
		if seen[d.ID] {
			return fmt.Errorf("duplicate surface id %q", d.ID)
		}
		seen[d.ID] = true
	}
	for _, d := range r.Surfaces {
		if d.Parent == "" {
			continue
		}
		p, ok := r.Find(d.Parent)
		if !ok {
			return fmt.Errorf("surface %q: parent %q not found", d.ID, d.Parent)
		}
		if p.Kind != KindBlockingVolume {
			return fmt.Errorf("surface %q: parent %q is a %s, want %s", d.ID, d.Parent, p.Kind, KindBlockingVolume)
		}
	}
	return nil
}
