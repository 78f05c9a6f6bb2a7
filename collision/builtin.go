package collision

import (
	"github.com/hupe1980/physim/geom"
	"github.com/hupe1980/physim/shape"
)

// builtin holds the handlers for built-in type pairs, indexed [a][b].
// Narrow-phase algorithms are not implemented yet: every handler accepts the
// pair and reports nothing.
var builtin = [shape.BuiltinTypeCount][shape.BuiltinTypeCount]Func{
	{convexConvex, convexMesh, convexCompound},
	{meshConvex, meshMesh, meshCompound},
	{compoundConvex, compoundMesh, compoundCompound},
}

func convexConvex(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func convexMesh(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func convexCompound(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func meshConvex(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func meshMesh(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func meshCompound(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func compoundConvex(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func compoundMesh(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}

func compoundCompound(*Collector, *shape.Shape, *geom.Mat4x3, geom.Vec3, *shape.Shape, *geom.Mat4x3, geom.Vec3) {
}
