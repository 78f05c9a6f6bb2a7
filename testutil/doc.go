// Package testutil provides testing utilities for physim.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG with generators for the values
// physim tests need: byte keys, positions, orientations.
//
// # Random Generation
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.Keys(1000, 16)          // distinct 16-byte keys
//	p := rng.Vec3InBox(-10, 10)         // uniform position
//	q := rng.UnitQuat()                 // uniform orientation
package testutil
