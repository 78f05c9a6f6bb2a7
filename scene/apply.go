package scene

import (
	"fmt"

	"github.com/hupe1980/physim"
	"github.com/hupe1980/physim/geom"
)

// Build converts the scene into body descriptions. Vertex, face, plane and
// index data is allocated from alloc; alloc must outlive the bodies.
// A body's Name, when set, becomes its UserData.
func (s *Scene) Build(alloc physim.Allocator) ([]physim.BodyInfo, error) {
	b := builder{alloc: alloc}
	infos := make([]physim.BodyInfo, len(s.Bodies))
	for i := range s.Bodies {
		desc := &s.Bodies[i]
		sh, err := b.shape(&desc.Shape)
		if err != nil {
			return nil, fmt.Errorf("scene: body %d: %w", i, err)
		}
		info := physim.BodyInfo{
			Shape:       sh,
			Position:    desc.Position.vec(),
			Orientation: quat(desc.Orientation),
		}
		if desc.Scale != nil {
			info.Scale = desc.Scale.vec()
		}
		if desc.Name != "" {
			info.UserData = desc.Name
		}
		infos[i] = info
	}
	return infos, nil
}

// Apply creates every body of s in sim and returns their ids in scene order.
// Shape data is placed in sim's persistent arena. If any body fails, the
// bodies created so far are deleted again.
func Apply(sim *physim.Sim, s *Scene) ([]physim.BodyID, error) {
	infos, err := s.Build(sim.Allocator())
	if err != nil {
		return nil, err
	}

	ids := make([]physim.BodyID, 0, len(infos))
	for i := range infos {
		id, err := sim.CreateBody(infos[i])
		if err != nil {
			for _, created := range ids {
				sim.DeleteBody(created)
			}
			return nil, fmt.Errorf("scene: body %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Spheres returns a scene of n spheres of the given radius, laid out on a
// cubic grid with the given spacing.
func Spheres(n int, radius, spacing float32) *Scene {
	side := 1
	for side*side*side < n {
		side++
	}
	s := &Scene{Bodies: make([]Body, n)}
	for i := range s.Bodies {
		x, y, z := i%side, (i/side)%side, i/(side*side)
		p := geom.V3(float32(x), float32(y), float32(z)).Scale(spacing)
		s.Bodies[i] = Body{
			Position: Vec3{p.X, p.Y, p.Z},
			Shape:    Shape{Kind: KindSphere, Radius: radius},
		}
	}
	return s
}
