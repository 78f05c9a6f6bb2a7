// Package shape defines the collision shapes a body can carry.
//
// A Shape is a closed variant keyed by Type: a convex primitive (sphere,
// capsule, hull or user convex), a triangle-mesh instance, a compound of
// placed sub-shapes, or a user-defined shape whose Type is TypeUser or any
// custom id above it. Collision handlers are dispatched on the Type pair.
//
// Meshes and hulls are referenced, not copied: many bodies may share one
// *TriangleMesh or *Hull.
package shape

import (
	"errors"
	"fmt"

	"github.com/hupe1980/physim/geom"
)

// Type is the dispatch category of a shape.
type Type uint32

const (
	TypeConvex Type = iota
	TypeMesh
	TypeCompound
	// TypeUser is the first id available to user-defined shapes.
	TypeUser
)

// BuiltinTypeCount is the number of built-in shape types.
const BuiltinTypeCount = int(TypeUser)

func (t Type) String() string {
	switch t {
	case TypeConvex:
		return "convex"
	case TypeMesh:
		return "mesh"
	case TypeCompound:
		return "compound"
	default:
		return fmt.Sprintf("user(%d)", uint32(t))
	}
}

// ConvexType is the kind of a convex shape.
type ConvexType uint32

const (
	ConvexSphere ConvexType = iota
	ConvexCapsule
	ConvexHull
	ConvexUser
)

func (t ConvexType) String() string {
	switch t {
	case ConvexSphere:
		return "sphere"
	case ConvexCapsule:
		return "capsule"
	case ConvexHull:
		return "hull"
	case ConvexUser:
		return "user"
	default:
		return fmt.Sprintf("ConvexType(%d)", uint32(t))
	}
}

// Sphere is centered at the origin.
type Sphere struct {
	Radius float32
}

// Capsule is aligned with the local Y axis.
type Capsule struct {
	Radius     float32
	HalfHeight float32
}

// Face is a polygon of a hull: VertexCount vertices starting at FirstVertex.
type Face struct {
	FirstVertex uint32
	VertexCount uint32
}

// Plane is the set of points p with Normal·p = D.
type Plane struct {
	Normal geom.Vec3
	D      float32
}

// Hull is a convex polyhedron.
type Hull struct {
	Vertices []geom.Vec3
	Faces    []Face
	Planes   []Plane
}

// TriangleMesh is an indexed triangle list.
type TriangleMesh struct {
	Vertices []geom.Vec3
	Indices  []uint32
}

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Convex is a convex shape. Only the field matching Type is meaningful.
type Convex struct {
	Type    ConvexType
	Sphere  Sphere
	Capsule Capsule
	Hull    *Hull
	User    any
}

// Child is a sub-shape of a compound, placed relative to the compound's origin.
type Child struct {
	Transform geom.Transform
	Shape     Shape
}

// Compound groups placed sub-shapes.
type Compound struct {
	Children []Child
}

// Shape is a collision shape. Only the field matching Type is meaningful.
type Shape struct {
	Type     Type
	Convex   Convex
	Mesh     *TriangleMesh
	Compound Compound
	User     any
}

// NewSphere returns a convex sphere.
func NewSphere(radius float32) Shape {
	return Shape{Type: TypeConvex, Convex: Convex{Type: ConvexSphere, Sphere: Sphere{Radius: radius}}}
}

// NewCapsule returns a convex capsule.
func NewCapsule(radius, halfHeight float32) Shape {
	return Shape{Type: TypeConvex, Convex: Convex{Type: ConvexCapsule, Capsule: Capsule{Radius: radius, HalfHeight: halfHeight}}}
}

// NewHull returns a convex hull instance.
func NewHull(h *Hull) Shape {
	return Shape{Type: TypeConvex, Convex: Convex{Type: ConvexHull, Hull: h}}
}

// NewConvexUser returns a user convex carrying data.
func NewConvexUser(data any) Shape {
	return Shape{Type: TypeConvex, Convex: Convex{Type: ConvexUser, User: data}}
}

// NewMesh returns a triangle-mesh instance.
func NewMesh(m *TriangleMesh) Shape {
	return Shape{Type: TypeMesh, Mesh: m}
}

// NewCompound returns a compound of children.
func NewCompound(children ...Child) Shape {
	return Shape{Type: TypeCompound, Compound: Compound{Children: children}}
}

// NewUser returns a user-defined shape of type t, which must be TypeUser or above.
func NewUser(t Type, data any) Shape {
	return Shape{Type: t, User: data}
}

// IsUser reports whether s is a user-defined shape type.
func (s *Shape) IsUser() bool {
	return s.Type >= TypeUser
}

func (s Shape) String() string {
	switch s.Type {
	case TypeConvex:
		return "convex/" + s.Convex.Type.String()
	case TypeMesh:
		if s.Mesh == nil {
			return "mesh(nil)"
		}
		return fmt.Sprintf("mesh(%d triangles)", s.Mesh.TriangleCount())
	case TypeCompound:
		return fmt.Sprintf("compound(%d children)", len(s.Compound.Children))
	default:
		return s.Type.String()
	}
}

var (
	errNegativeDimension = errors.New("negative dimension")
	errMissingGeometry   = errors.New("missing geometry")
)

// Validate checks that the shape's active variant is well formed.
func (s *Shape) Validate() error {
	switch s.Type {
	case TypeConvex:
		return s.Convex.validate()
	case TypeMesh:
		return validateMesh(s.Mesh)
	case TypeCompound:
		for i := range s.Compound.Children {
			if err := s.Compound.Children[i].Shape.Validate(); err != nil {
				return fmt.Errorf("compound child %d: %w", i, err)
			}
		}
		return nil
	default:
		return nil
	}
}

func (c *Convex) validate() error {
	switch c.Type {
	case ConvexSphere:
		if c.Sphere.Radius < 0 {
			return fmt.Errorf("sphere radius %v: %w", c.Sphere.Radius, errNegativeDimension)
		}
	case ConvexCapsule:
		if c.Capsule.Radius < 0 || c.Capsule.HalfHeight < 0 {
			return fmt.Errorf("capsule %+v: %w", c.Capsule, errNegativeDimension)
		}
	case ConvexHull:
		return validateHull(c.Hull)
	case ConvexUser:
	default:
		return fmt.Errorf("unknown convex type %d", uint32(c.Type))
	}
	return nil
}

func validateHull(h *Hull) error {
	if h == nil {
		return fmt.Errorf("hull: %w", errMissingGeometry)
	}
	for i, f := range h.Faces {
		if uint64(f.FirstVertex)+uint64(f.VertexCount) > uint64(len(h.Vertices)) {
			return fmt.Errorf("hull face %d references vertices [%d:%d) of %d", i, f.FirstVertex, f.FirstVertex+f.VertexCount, len(h.Vertices))
		}
	}
	if len(h.Planes) != 0 && len(h.Planes) != len(h.Faces) {
		return fmt.Errorf("hull has %d planes for %d faces", len(h.Planes), len(h.Faces))
	}
	return nil
}

func validateMesh(m *TriangleMesh) error {
	if m == nil {
		return fmt.Errorf("mesh: %w", errMissingGeometry)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh index %d = %d out of range [0:%d)", i, idx, len(m.Vertices))
		}
	}
	return nil
}
