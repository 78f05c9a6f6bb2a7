package physim

import (
	"github.com/hupe1980/physim/geom"
	"github.com/hupe1980/physim/internal/pool"
	"github.com/hupe1980/physim/shape"
)

// BodyID is a generational handle to a body. It stays unique for the life of
// the Sim: once the body is deleted the id never resolves again, even when
// its slot is reused. The zero BodyID is never valid.
type BodyID uint64

func (id BodyID) handle() pool.Handle { return pool.Handle(id) }

// Index returns the body's slot index.
func (id BodyID) Index() uint32 { return id.handle().Index() }

// Generation returns the slot generation the id was issued with.
func (id BodyID) Generation() uint32 { return id.handle().Generation() }

func (id BodyID) String() string { return id.handle().String() }

// Body is a simulated rigid body.
type Body struct {
	ID        BodyID
	Transform geom.Transform
	Scale     geom.Vec3
	Shape     shape.Shape
	UserData  any
}

// WorldMatrix returns the body's world transform as a matrix.
func (b *Body) WorldMatrix() geom.Mat4x3 {
	return b.Transform.Matrix()
}

// BodyInfo describes a body to create.
// A zero Orientation means no rotation and a zero Scale means unit scale.
type BodyInfo struct {
	Shape       shape.Shape
	Position    geom.Vec3
	Orientation geom.Quat
	Scale       geom.Vec3
	UserData    any
}

func (info *BodyInfo) transform() geom.Transform {
	return geom.Transform{
		Position: info.Position,
		Rotation: info.Orientation.Normalize(),
	}
}

func (info *BodyInfo) scale() geom.Vec3 {
	if info.Scale == (geom.Vec3{}) {
		return geom.One
	}
	return info.Scale
}
