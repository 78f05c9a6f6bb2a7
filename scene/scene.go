package scene

import (
	"errors"
	"fmt"

	"github.com/hupe1980/physim/geom"
	"github.com/hupe1980/physim/internal/mem"
	"github.com/hupe1980/physim/shape"
)

// Shape kinds understood by Build.
const (
	KindSphere   = "sphere"
	KindCapsule  = "capsule"
	KindHull     = "hull"
	KindMesh     = "mesh"
	KindCompound = "compound"
)

// ErrUnknownKind is returned for a shape kind Build does not understand.
var ErrUnknownKind = errors.New("scene: unknown shape kind")

// Vec3 is a point or direction as [x, y, z].
type Vec3 [3]float32

// Quat is a rotation as [x, y, z, w].
type Quat [4]float32

// Face is a hull face: Count vertices starting at First.
type Face struct {
	First uint32 `json:"first"`
	Count uint32 `json:"count"`
}

// Plane is a hull face plane as normal and offset.
type Plane struct {
	Normal Vec3    `json:"normal"`
	D      float32 `json:"d"`
}

// Shape describes a collision shape. Only the fields for Kind are read.
type Shape struct {
	Kind       string   `json:"kind"`
	Radius     float32  `json:"radius,omitempty"`
	HalfHeight float32  `json:"half_height,omitempty"`
	Vertices   []Vec3   `json:"vertices,omitempty"`
	Faces      []Face   `json:"faces,omitempty"`
	Planes     []Plane  `json:"planes,omitempty"`
	Indices    []uint32 `json:"indices,omitempty"`
	Children   []Child  `json:"children,omitempty"`
}

// Child is a placed sub-shape of a compound.
type Child struct {
	Position    Vec3  `json:"position"`
	Orientation *Quat `json:"orientation,omitempty"`
	Shape       Shape `json:"shape"`
}

// Body describes one body. A missing orientation means no rotation and a
// missing scale means unit scale.
type Body struct {
	Name        string `json:"name,omitempty"`
	Position    Vec3   `json:"position"`
	Orientation *Quat  `json:"orientation,omitempty"`
	Scale       *Vec3  `json:"scale,omitempty"`
	Shape       Shape  `json:"shape"`
}

// Scene is a list of bodies.
type Scene struct {
	Bodies []Body `json:"bodies"`
}

func (v Vec3) vec() geom.Vec3 { return geom.V3(v[0], v[1], v[2]) }

func quat(q *Quat) geom.Quat {
	if q == nil {
		return geom.IdentityQuat
	}
	return geom.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}.Normalize()
}

// builder converts scene shapes, placing vertex data in alloc.
type builder struct {
	alloc mem.Allocator
}

func (b *builder) shape(s *Shape) (shape.Shape, error) {
	switch s.Kind {
	case KindSphere:
		return shape.NewSphere(s.Radius), nil
	case KindCapsule:
		return shape.NewCapsule(s.Radius, s.HalfHeight), nil
	case KindHull:
		h, err := b.hull(s)
		if err != nil {
			return shape.Shape{}, err
		}
		return shape.NewHull(h), nil
	case KindMesh:
		verts, err := b.vertices(s.Vertices)
		if err != nil {
			return shape.Shape{}, err
		}
		indices, err := copyInto[uint32](b.alloc, s.Indices)
		if err != nil {
			return shape.Shape{}, err
		}
		return shape.NewMesh(&shape.TriangleMesh{Vertices: verts, Indices: indices}), nil
	case KindCompound:
		children := make([]shape.Child, len(s.Children))
		for i := range s.Children {
			c := &s.Children[i]
			cs, err := b.shape(&c.Shape)
			if err != nil {
				return shape.Shape{}, fmt.Errorf("child %d: %w", i, err)
			}
			children[i] = shape.Child{
				Transform: geom.Transform{Position: c.Position.vec(), Rotation: quat(c.Orientation)},
				Shape:     cs,
			}
		}
		return shape.NewCompound(children...), nil
	default:
		return shape.Shape{}, fmt.Errorf("%w %q", ErrUnknownKind, s.Kind)
	}
}

func (b *builder) hull(s *Shape) (*shape.Hull, error) {
	verts, err := b.vertices(s.Vertices)
	if err != nil {
		return nil, err
	}
	faces, err := mem.AllocSlice[shape.Face](b.alloc, len(s.Faces))
	if err != nil {
		return nil, err
	}
	for i, f := range s.Faces {
		faces[i] = shape.Face{FirstVertex: f.First, VertexCount: f.Count}
	}
	planes, err := mem.AllocSlice[shape.Plane](b.alloc, len(s.Planes))
	if err != nil {
		return nil, err
	}
	for i, p := range s.Planes {
		planes[i] = shape.Plane{Normal: p.Normal.vec(), D: p.D}
	}
	return &shape.Hull{Vertices: verts, Faces: faces, Planes: planes}, nil
}

func (b *builder) vertices(src []Vec3) ([]geom.Vec3, error) {
	dst, err := mem.AllocSlice[geom.Vec3](b.alloc, len(src))
	if err != nil {
		return nil, err
	}
	for i, v := range src {
		dst[i] = v.vec()
	}
	return dst, nil
}

func copyInto[T any](alloc mem.Allocator, src []T) ([]T, error) {
	dst, err := mem.AllocSlice[T](alloc, len(src))
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}
