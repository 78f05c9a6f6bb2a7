package geom

// Transform is a rigid placement: a position and an orientation.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// IdentityTransform is the placement at the origin with no rotation.
var IdentityTransform = Transform{Rotation: IdentityQuat}

// Matrix returns the world matrix of t.
func (t *Transform) Matrix() Mat4x3 {
	r := t.Rotation.Mat3()
	return Mat4x3{Cols: [4]Vec3{r.Cols[0], r.Cols[1], r.Cols[2], t.Position}}
}

// Mul returns the composition t * o (o expressed in t's frame).
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Position: t.Position.Add(t.Rotation.Rotate(o.Position)),
		Rotation: t.Rotation.Mul(o.Rotation),
	}
}
