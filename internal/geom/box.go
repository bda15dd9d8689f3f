package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// overlapEpsilon is the minimum penetration depth along every separating
// axis for two boxes to count as overlapping. Boxes that merely share a face
// (adjacent grid cells, an object flush against a wall) do not overlap.
const overlapEpsilon = 1e-6

// parallelEpsilon is the squared length below which an edge cross product is
// considered degenerate and skipped as a separating axis.
const parallelEpsilon = 1e-12

// MinThickness is substituted for zero extents so planes behave as thin slabs.
const MinThickness = 1e-3

// Box is an oriented bounding box: a pose at the box centre plus half extents
// along the pose's local axes.
type Box struct {
	Pose        Pose
	HalfExtents r3.Vec
}

// NewBox builds a box from its centre, full size and orientation. Zero or
// negative sizes are clamped to MinThickness.
func NewBox(center, size r3.Vec, rotation quat.Number) Box {
	return Box{
		Pose: NewPose(center, rotation),
		HalfExtents: r3.Vec{
			X: math.Max(size.X, MinThickness) / 2,
			Y: math.Max(size.Y, MinThickness) / 2,
			Z: math.Max(size.Z, MinThickness) / 2,
		},
	}
}

// Center returns the box centre in world space.
func (b Box) Center() r3.Vec { return b.Pose.Position }

// Size returns the full extents.
func (b Box) Size() r3.Vec { return r3.Scale(2, b.HalfExtents) }

// Contains reports whether the world point p lies inside or on the box.
func (b Box) Contains(p r3.Vec) bool {
	l := b.Pose.ToLocal(p)
	return math.Abs(l.X) <= b.HalfExtents.X+overlapEpsilon &&
		math.Abs(l.Y) <= b.HalfExtents.Y+overlapEpsilon &&
		math.Abs(l.Z) <= b.HalfExtents.Z+overlapEpsilon
}

// Corners returns the eight world-space corners.
func (b Box) Corners() [8]r3.Vec {
	var out [8]r3.Vec
	h := b.HalfExtents
	i := 0
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				out[i] = b.Pose.ToWorld(r3.Vec{X: sx * h.X, Y: sy * h.Y, Z: sz * h.Z})
				i++
			}
		}
	}
	return out
}

// axes returns the box's local axes in world space.
func (b Box) axes() [3]r3.Vec {
	return [3]r3.Vec{b.Pose.AxisX(), b.Pose.AxisY(), b.Pose.AxisZ()}
}

// projectedRadius is the half length of the box's projection onto axis.
func (b Box) projectedRadius(ax [3]r3.Vec, axis r3.Vec) float64 {
	return b.HalfExtents.X*math.Abs(r3.Dot(ax[0], axis)) +
		b.HalfExtents.Y*math.Abs(r3.Dot(ax[1], axis)) +
		b.HalfExtents.Z*math.Abs(r3.Dot(ax[2], axis))
}

// Overlaps runs the separating axis test over the 15 candidate axes (three
// face normals from each box and nine edge cross products).
func (b Box) Overlaps(o Box) bool {
	axA := b.axes()
	axB := o.axes()
	d := r3.Sub(o.Center(), b.Center())

	separated := func(axis r3.Vec) bool {
		n2 := r3.Dot(axis, axis)
		if n2 < parallelEpsilon {
			return false
		}
		axis = r3.Scale(1/math.Sqrt(n2), axis)
		dist := math.Abs(r3.Dot(d, axis))
		return dist >= b.projectedRadius(axA, axis)+o.projectedRadius(axB, axis)-overlapEpsilon
	}

	for i := 0; i < 3; i++ {
		if separated(axA[i]) || separated(axB[i]) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if separated(r3.Cross(axA[i], axB[j])) {
				return false
			}
		}
	}
	return true
}

// LineInterval intersects the infinite line origin + t*dir with the box and
// returns the parameter interval [tmin, tmax] inside it.
func (b Box) LineInterval(origin, dir r3.Vec) (tmin, tmax float64, ok bool) {
	o := b.Pose.ToLocal(origin)
	d := b.Pose.InverseRotate(dir)
	oc := [3]float64{o.X, o.Y, o.Z}
	dc := [3]float64{d.X, d.Y, d.Z}
	hc := [3]float64{b.HalfExtents.X, b.HalfExtents.Y, b.HalfExtents.Z}

	tmin, tmax = math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(dc[i]) < parallelEpsilon {
			if math.Abs(oc[i]) > hc[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (-hc[i] - oc[i]) / dc[i]
		t2 := (hc[i] - oc[i]) / dc[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}

// SegmentHits reports whether the line origin + t*dir passes through the box
// for some t in [lo, hi]. Either bound may be infinite.
func (b Box) SegmentHits(origin, dir r3.Vec, lo, hi float64) bool {
	tmin, tmax, ok := b.LineInterval(origin, dir)
	if !ok {
		return false
	}
	return tmax >= lo && tmin <= hi
}

// Raycast returns the distance along the unit direction dir at which the ray
// first enters the box, limited to maxDist. A ray starting inside hits at 0.
func (b Box) Raycast(origin, dir r3.Vec, maxDist float64) (float64, bool) {
	tmin, tmax, ok := b.LineInterval(origin, dir)
	if !ok || tmax < 0 {
		return 0, false
	}
	t := math.Max(tmin, 0)
	if t > maxDist {
		return 0, false
	}
	return t, true
}
