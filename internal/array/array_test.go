package array

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/physim/internal/arena"
	"github.com/hupe1980/physim/internal/mem"
)

func rec(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func TestArray_Push(t *testing.T) {
	a, err := New(nil, 8)
	require.NoError(t, err)

	assert.Zero(t, a.Len())
	assert.Zero(t, a.Cap(), "no allocation before the first push")

	for i := uint64(0); i < 200; i++ {
		require.NoError(t, a.Push(rec(i)))
	}

	assert.Equal(t, 200, a.Len())
	assert.Equal(t, 256, a.Cap(), "64 doubling to 256")
	for i := 0; i < 200; i++ {
		assert.Equal(t, uint64(i), binary.LittleEndian.Uint64(a.At(i)))
	}
	assert.Len(t, a.Bytes(), 200*8)
}

func TestArray_InvalidInput(t *testing.T) {
	_, err := New(nil, 0)
	assert.Error(t, err)

	a, err := New(nil, 8)
	require.NoError(t, err)
	assert.Error(t, a.Push([]byte{1, 2, 3}))

	assert.Panics(t, func() { a.At(0) })
	assert.Panics(t, func() { a.At(-1) })
	assert.Panics(t, func() { a.Truncate(1) })
}

func TestArray_PushZero(t *testing.T) {
	a, err := New(nil, 4)
	require.NoError(t, err)

	slot, err := a.PushZero()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, slot)

	copy(slot, []byte{9, 9, 9, 9})
	assert.Equal(t, []byte{9, 9, 9, 9}, a.At(0))

	a.Truncate(0)
	slot, err = a.PushZero()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, slot, "reused slot is zeroed")
}

func TestArray_GrowthFailure(t *testing.T) {
	fail := false
	alloc := mem.Funcs{
		AllocateFunc: func(n int) ([]byte, error) {
			if fail {
				return nil, errors.New("exhausted")
			}
			return make([]byte, n), nil
		},
	}

	a, err := New(alloc, 8)
	require.NoError(t, err)
	for i := uint64(0); i < InitialCapacity; i++ {
		require.NoError(t, a.Push(rec(i)))
	}

	fail = true
	err = a.Push(rec(99))
	require.ErrorIs(t, err, mem.ErrOutOfMemory)

	assert.Equal(t, InitialCapacity, a.Len(), "failed push leaves contents intact")
	assert.Equal(t, uint64(InitialCapacity-1), binary.LittleEndian.Uint64(a.At(InitialCapacity-1)))
}

func TestArray_OnArena(t *testing.T) {
	ar, err := arena.New(nil, arena.WithBlockSize(4096))
	require.NoError(t, err)
	defer ar.Release()

	scope := ar.BeginTemp()
	a, err := New(ar, 16)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		_, err := a.PushZero()
		require.NoError(t, err)
	}
	assert.Equal(t, 100, a.Len())
	require.NoError(t, scope.End())

	assert.Zero(t, ar.Stats().BytesUsed)
}

func TestArray_Release(t *testing.T) {
	counting := mem.NewCounting(nil)
	a, err := New(counting, 8)
	require.NoError(t, err)

	for i := uint64(0); i < 500; i++ {
		require.NoError(t, a.Push(rec(i)))
	}
	assert.Equal(t, int64(512*8), counting.Stats().LiveBytes, "old buffers freed on growth")

	a.Release()
	assert.Zero(t, counting.Stats().LiveBytes)
	assert.Zero(t, a.Len())
}

func TestView(t *testing.T) {
	type pair struct{ A, B uint32 }

	a, err := New(nil, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		slot, err := a.PushZero()
		require.NoError(t, err)
		binary.NativeEndian.PutUint32(slot[0:], uint32(i))
		binary.NativeEndian.PutUint32(slot[4:], uint32(i*10))
	}

	pairs, err := View[pair](a)
	require.NoError(t, err)
	assert.Equal(t, []pair{{0, 0}, {1, 10}, {2, 20}}, pairs)

	_, err = View[uint16](a)
	assert.Error(t, err)
}
