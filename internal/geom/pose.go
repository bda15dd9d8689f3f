package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// quatEpsilon is the magnitude below which a quaternion is treated as
// degenerate and replaced with the identity rotation.
const quatEpsilon = 1e-12

// IdentityRotation is the no-op orientation.
var IdentityRotation = quat.Number{Real: 1}

// Pose is a rigid transform (local -> world): rotate, then translate.
type Pose struct {
	Position r3.Vec
	Rotation quat.Number
}

// Identity returns the pose at the origin with no rotation.
func Identity() Pose {
	return Pose{Rotation: IdentityRotation}
}

// NewPose builds a pose with a normalised rotation. A zero quaternion is
// accepted and treated as identity, since scan sources sometimes omit it.
func NewPose(position r3.Vec, rotation quat.Number) Pose {
	return Pose{Position: position, Rotation: Normalize(rotation)}
}

// Normalize returns q scaled to unit length, or identity when q is degenerate.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < quatEpsilon || math.IsNaN(n) {
		return IdentityRotation
	}
	return quat.Scale(1/n, q)
}

// AxisAngle returns the unit quaternion rotating by angle radians about axis.
func AxisAngle(axis r3.Vec, angle float64) quat.Number {
	n := r3.Norm(axis)
	if n < quatEpsilon {
		return IdentityRotation
	}
	u := r3.Scale(1/n, axis)
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: u.X * s, Jmag: u.Y * s, Kmag: u.Z * s}
}

// RotateVec rotates v by the unit quaternion q.
func RotateVec(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Rotate maps a local direction into world space.
func (p Pose) Rotate(v r3.Vec) r3.Vec { return RotateVec(p.Rotation, v) }

// InverseRotate maps a world direction into local space.
func (p Pose) InverseRotate(v r3.Vec) r3.Vec { return RotateVec(quat.Conj(p.Rotation), v) }

// ToWorld maps a local point into world space.
func (p Pose) ToWorld(local r3.Vec) r3.Vec {
	return r3.Add(p.Rotate(local), p.Position)
}

// ToLocal maps a world point into local space.
func (p Pose) ToLocal(world r3.Vec) r3.Vec {
	return p.InverseRotate(r3.Sub(world, p.Position))
}

// Compose returns the pose of child (expressed in p's frame) in world space.
func (p Pose) Compose(child Pose) Pose {
	return Pose{
		Position: p.ToWorld(child.Position),
		Rotation: Normalize(quat.Mul(p.Rotation, child.Rotation)),
	}
}

// AxisX, AxisY and AxisZ return the pose's local axes in world space.
func (p Pose) AxisX() r3.Vec { return p.Rotate(r3.Vec{X: 1}) }
func (p Pose) AxisY() r3.Vec { return p.Rotate(r3.Vec{Y: 1}) }
func (p Pose) AxisZ() r3.Vec { return p.Rotate(r3.Vec{Z: 1}) }

// NormalizeAngle wraps an angle in radians into [-π, π].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// RoundToQuarterTurn snaps an angle to the nearest multiple of 90°, returned
// in [-π, π].
func RoundToQuarterTurn(a float64) float64 {
	q := math.Round(NormalizeAngle(a) / (math.Pi / 2))
	return NormalizeAngle(q * math.Pi / 2)
}

// Near reports whether two vectors agree within tol on every component.
func Near(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
