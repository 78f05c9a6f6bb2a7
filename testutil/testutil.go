package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/physim/geom"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Intn returns a pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint32 returns a pseudo-random 32-bit value.
func (r *RNG) Uint32() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint32()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// Keys generates n distinct random keys of size bytes each.
// Uses a single backing array for efficiency.
func (r *RNG) Keys(n, size int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, n*size)
	keys := make([][]byte, 0, n)
	seen := make(map[string]struct{}, n)

	for i := 0; len(keys) < n; i++ {
		key := data[len(keys)*size : (len(keys)+1)*size]
		r.rand.Read(key)
		if _, dup := seen[string(key)]; dup {
			continue
		}
		seen[string(key)] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}

// Vec3InBox returns a point uniformly distributed in the cube [minVal, maxVal)³.
func (r *RNG) Vec3InBox(minVal, maxVal float32) geom.Vec3 {
	var v [3]float32
	r.FillUniformRange(v[:], minVal, maxVal)
	return geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// UnitQuat returns a uniformly distributed rotation.
// Uses Gaussian sampling on the 4-sphere.
func (r *RNG) UnitQuat() geom.Quat {
	r.mu.Lock()
	defer r.mu.Unlock()

	var q [4]float64
	var norm float64
	for norm == 0 {
		for i := range q {
			q[i] = r.rand.NormFloat64()
		}
		norm = q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	}

	inv := 1.0 / math.Sqrt(norm)
	return geom.Quat{
		X: float32(q[0] * inv),
		Y: float32(q[1] * inv),
		Z: float32(q[2] * inv),
		W: float32(q[3] * inv),
	}
}

// Transform returns a random placement inside the cube [-extent, extent)³.
func (r *RNG) Transform(extent float32) geom.Transform {
	return geom.Transform{
		Position: r.Vec3InBox(-extent, extent),
		Rotation: r.UnitQuat(),
	}
}
