package main

import (
	"github.com/hupe1980/physim/collision"
	"github.com/hupe1980/physim/geom"
	"github.com/hupe1980/physim/shape"
)

// boundingRadius is the radius of a sphere around the convex shape's origin.
func boundingRadius(s *shape.Shape, scale geom.Vec3) float32 {
	k := max(scale.X, scale.Y, scale.Z)
	switch s.Convex.Type {
	case shape.ConvexSphere:
		return s.Convex.Sphere.Radius * k
	case shape.ConvexCapsule:
		return (s.Convex.Capsule.Radius + s.Convex.Capsule.HalfHeight) * k
	case shape.ConvexHull:
		var r float32
		for _, v := range s.Convex.Hull.Vertices {
			r = max(r, v.Length())
		}
		return r * k
	default:
		return 0
	}
}

// sphereContact treats both convex shapes as bounding spheres and reports a
// contact when they overlap. The normal points from a to b.
func sphereContact(c *collision.Collector, a *shape.Shape, ta *geom.Mat4x3, sa geom.Vec3, b *shape.Shape, tb *geom.Mat4x3, sb geom.Vec3) {
	pa, pb := ta.Translation(), tb.Translation()
	d := pb.Sub(pa)
	ra, rb := boundingRadius(a, sa), boundingRadius(b, sb)

	dist := d.Length()
	depth := ra + rb - dist
	if depth <= 0 {
		return
	}

	normal := geom.V3(0, 1, 0)
	if dist > 0 {
		normal = d.Scale(1 / dist)
	}
	c.Report(collision.Contact{
		Point:  pa.Add(normal.Scale(ra - depth/2)),
		Normal: normal,
		Depth:  depth,
	})
}
