// Package collision routes candidate body pairs to narrow-phase handlers.
//
// A Table is a square matrix of handlers indexed by the shape types of the
// two bodies. Entries are directional: the handler for (A, B) is independent
// of the one for (B, A), and a missing entry means the pair does not interact.
//
//	table, err := collision.NewDefaultTable([]collision.Registration{{
//	    Type: myShape,
//	    Handlers: []collision.Handler{
//	        {Other: shape.TypeConvex, Func: myShapeVsConvex},
//	    },
//	}})
//
// Handlers report contacts through the Collector they are given. Collector
// storage lives in the simulation's temp arena and is gone after the tick.
package collision
