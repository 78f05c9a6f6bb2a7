package geom

// Mat3 is a column-major 3x3 matrix.
type Mat3 struct {
	Cols [3]Vec3
}

// MulVec returns m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return m.Cols[0].Scale(v.X).Add(m.Cols[1].Scale(v.Y)).Add(m.Cols[2].Scale(v.Z))
}

// Mat4x3 is an affine transform: three rotation columns and a translation column.
type Mat4x3 struct {
	Cols [4]Vec3
}

// Identity4x3 is the identity transform.
var Identity4x3 = Mat4x3{Cols: [4]Vec3{{X: 1}, {Y: 1}, {Z: 1}, {}}}

// Translation returns the translation column.
func (m *Mat4x3) Translation() Vec3 {
	return m.Cols[3]
}

// Rotation returns the upper 3x3 block.
func (m *Mat4x3) Rotation() Mat3 {
	return Mat3{Cols: [3]Vec3{m.Cols[0], m.Cols[1], m.Cols[2]}}
}

// TransformPoint maps p from local to world space.
func (m *Mat4x3) TransformPoint(p Vec3) Vec3 {
	return m.Rotation().MulVec(p).Add(m.Cols[3])
}

// TransformDir maps direction d from local to world space, ignoring translation.
func (m *Mat4x3) TransformDir(d Vec3) Vec3 {
	return m.Rotation().MulVec(d)
}

// Mul returns the composition m * o (o applied first).
func (m *Mat4x3) Mul(o *Mat4x3) Mat4x3 {
	r := m.Rotation()
	return Mat4x3{Cols: [4]Vec3{
		r.MulVec(o.Cols[0]),
		r.MulVec(o.Cols[1]),
		r.MulVec(o.Cols[2]),
		m.TransformPoint(o.Cols[3]),
	}}
}
