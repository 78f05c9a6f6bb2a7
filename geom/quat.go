package geom

import "math"

// Quat is a rotation quaternion (X, Y, Z vector part, W scalar part).
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat is the rotation that does nothing.
var IdentityQuat = Quat{W: 1}

// QuatAxisAngle returns the rotation of angle radians around axis.
func QuatAxisAngle(axis Vec3, angle float32) Quat {
	axis = axis.Normalize()
	s, c := math.Sincos(float64(angle) / 2)
	sf := float32(s)
	return Quat{X: axis.X * sf, Y: axis.Y * sf, Z: axis.Z * sf, W: float32(c)}
}

// Mul returns the composition q * o (o applied first).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Normalize returns q scaled to unit length. A zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	n := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	if n == 0 {
		return IdentityQuat
	}
	inv := float32(1 / math.Sqrt(float64(n)))
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Mat3 returns the rotation matrix of a unit quaternion.
func (q Quat) Mat3() Mat3 {
	xy, wz := q.X*q.Y, q.W*q.Z
	xz, wy := q.X*q.Z, q.W*q.Y
	yz, wx := q.Y*q.Z, q.W*q.X
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z

	return Mat3{Cols: [3]Vec3{
		{X: 1 - 2*(yy+zz), Y: 2 * (xy + wz), Z: 2 * (xz - wy)},
		{X: 2 * (xy - wz), Y: 1 - 2*(xx+zz), Z: 2 * (yz + wx)},
		{X: 2 * (xz + wy), Y: 2 * (yz - wx), Z: 1 - 2*(xx+yy)},
	}}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return q.Mat3().MulVec(v)
}
