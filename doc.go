// Package physim is the foundation of a rigid-body physics simulation: body
// storage, memory management and the broadphase that turns a set of bodies
// into collision handler calls.
//
// # Quick Start
//
//	sim, err := physim.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sim.Close()
//
//	ball, _ := sim.CreateBody(physim.BodyInfo{
//	    Shape:    shape.NewSphere(0.5),
//	    Position: geom.V3(0, 2, 0),
//	})
//
//	for i := 0; i < 60; i++ {
//	    if err := sim.Update(ctx, 1.0/60); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Bodies
//
// Bodies are addressed by BodyID, a generational handle. Deleting a body bumps
// its slot's generation, so old ids stop resolving instead of aliasing the
// next body stored in the slot:
//
//	sim.DeleteBody(ball)
//	_, ok := sim.Body(ball) // false, forever
//
// # Update
//
// Each Update opens a temp-arena scope, collects every distinct pair of enabled
// bodies into an arena-backed array deduplicated through an open-addressing
// hash set, then calls the collision handler registered for the two shape
// types of each pair. The scope is closed before Update returns, so a tick
// never grows memory use once the arena has warmed up.
//
// Pairing is all-pairs, O(n²) in the number of bodies. IgnorePair and
// SetBodyEnabled prune it.
//
// # Collision Handlers
//
// Handlers are looked up by (shape type A, shape type B) in a per-Sim table.
// Built-in placeholder handlers cover convex, mesh and compound shapes;
// custom shape types are registered at creation:
//
//	sim, _ := physim.New(physim.WithShapeRegistration(collision.Registration{
//	    Type: shape.TypeUser,
//	    Handlers: []collision.Handler{
//	        {Other: shape.TypeConvex, Func: boxVsConvex},
//	    },
//	}))
//
// Registration is directional: (A, B) and (B, A) are separate entries.
//
// # Memory
//
// All arena blocks and container buffers come from one Allocator
// (HeapAllocator by default, see WithAllocator). WithMemoryLimit caps the
// total; exhaustion surfaces as an error wrapping ErrOutOfMemory and aborts
// only the operation in progress.
//
// # Concurrency
//
// A Sim is single-threaded. Callers serialize all access.
package physim
