// Package conv provides safe integer conversion utilities.
//
// The containers in physim index with uint32 (handles, hash slots) but size
// their buffers with int. These helpers keep the boundary checked:
//
//   - capacity growth that would overflow a uint32 index space
//   - element count * element size byte computations
//
// For conversions that are provably safe by domain constraints (loop indices
// bounded by an already-checked capacity), use direct type casts instead.
package conv
