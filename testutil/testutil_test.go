package testutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	rng := NewRNG(4711)

	keys := rng.Keys(500, 2)

	assert.Len(t, keys, 500)
	seen := make(map[string]bool)
	for _, k := range keys {
		assert.Len(t, k, 2)
		assert.False(t, seen[string(k)], "duplicate key %x", k)
		seen[string(k)] = true
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)

	a := rng.Keys(4, 8)
	rng.Reset()
	b := rng.Keys(4, 8)

	for i := range a {
		assert.True(t, bytes.Equal(a[i], b[i]))
	}
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestVec3InBox(t *testing.T) {
	rng := NewRNG(4711)

	for i := 0; i < 100; i++ {
		v := rng.Vec3InBox(-2, 3)
		for _, c := range []float32{v.X, v.Y, v.Z} {
			assert.GreaterOrEqual(t, c, float32(-2))
			assert.Less(t, c, float32(3))
		}
	}
}

func TestUnitQuat(t *testing.T) {
	rng := NewRNG(4711)

	for i := 0; i < 100; i++ {
		q := rng.UnitQuat()
		assert.InDelta(t, 1.0, q.X*q.X+q.Y*q.Y+q.Z*q.Z+q.W*q.W, 1e-5)
	}
}

func TestPerm(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.Perm(10)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, p)
	assert.Less(t, rng.Intn(5), 5)
}
