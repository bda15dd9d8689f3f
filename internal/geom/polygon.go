package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is an ordered, implicitly closed list of 2D vertices in a surface's
// local frame. Winding direction does not matter.
type Polygon []r2.Vec

// Valid reports whether the polygon has enough vertices to enclose area.
func (p Polygon) Valid() bool { return len(p) >= 3 }

// Contains uses the even-odd rule. Points on an edge may land either side.
func (p Polygon) Contains(pt r2.Vec) bool {
	if !p.Valid() {
		return false
	}
	inside := false
	j := len(p) - 1
	for i := 0; i < len(p); i++ {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// EdgeDistance returns the distance from pt to the nearest polygon edge.
func (p Polygon) EdgeDistance(pt r2.Vec) float64 {
	if len(p) == 0 {
		return 0
	}
	if len(p) == 1 {
		return r2.Norm(r2.Sub(pt, p[0]))
	}
	best := math.Inf(1)
	j := len(p) - 1
	for i := 0; i < len(p); i++ {
		if d := SegmentDistance(pt, p[j], p[i]); d < best {
			best = d
		}
		j = i
	}
	return best
}

// Bounds returns the axis-aligned min and max corners.
func (p Polygon) Bounds() (min, max r2.Vec) {
	if len(p) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

// SegmentDistance returns the distance from pt to the segment ab.
func SegmentDistance(pt, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(pt, a))
	}
	t := r2.Dot(r2.Sub(pt, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(pt, closest))
}

// RectEdgeDistance returns the distance from pt to the nearest edge of a
// rectangle of the given size centred on the origin, or 0 outside it.
func RectEdgeDistance(pt, size r2.Vec) float64 {
	d := math.Min(size.X/2-math.Abs(pt.X), size.Y/2-math.Abs(pt.Y))
	return math.Max(0, d)
}
