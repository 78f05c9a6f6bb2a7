// Package geom provides the small amount of 3D math a simulation tick needs:
// vectors, quaternions, rigid transforms and the 4x3 world matrices handed to
// collision handlers.
//
// All types are plain float32 values. Matrices are column-major: a Mat4x3
// holds three rotation columns followed by the translation column.
package geom
