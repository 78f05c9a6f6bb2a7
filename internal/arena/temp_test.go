package arena

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempScope_RoundTrip(t *testing.T) {
	a := newArena(t, WithBlockSize(512))

	// Allocations made before the scope keep their content.
	persistent := make([][]byte, 0, 8)
	for i := 0; i < 8; i++ {
		buf, err := a.Push(48, 8)
		require.NoError(t, err)
		for j := range buf {
			buf[j] = byte(i + 1)
		}
		persistent = append(persistent, buf)
	}
	usedBefore := a.Stats().BytesUsed

	scope := a.BeginTemp()
	var scoped []byte
	for i := 0; i < 20; i++ {
		buf, err := a.Push(64, 8)
		require.NoError(t, err)
		scoped = buf
	}
	require.NoError(t, scope.End())

	assert.Equal(t, usedBefore, a.Stats().BytesUsed, "zero net growth after End")
	for i, buf := range persistent {
		assert.True(t, bytes.Equal(buf, bytes.Repeat([]byte{byte(i + 1)}, 48)), "allocation %d clobbered", i)
	}
	_ = scoped

	// Fresh pushes may reuse scope memory, and that must not touch persistent data.
	for i := 0; i < 20; i++ {
		buf, err := a.Push(64, 8)
		require.NoError(t, err)
		for j := range buf {
			buf[j] = 0xFF
		}
	}
	for i, buf := range persistent {
		assert.True(t, bytes.Equal(buf, bytes.Repeat([]byte{byte(i + 1)}, 48)), "allocation %d clobbered after reuse", i)
	}
}

func TestTempScope_ReusesAddresses(t *testing.T) {
	a := newArena(t, WithBlockSize(1024))

	scope := a.BeginTemp()
	first, err := a.Push(32, 16)
	require.NoError(t, err)
	require.NoError(t, scope.End())

	second, err := a.Push(32, 16)
	require.NoError(t, err)
	assert.Equal(t, unsafe.SliceData(first), unsafe.SliceData(second))
}

func TestTempScope_OnEmptyArena(t *testing.T) {
	a := newArena(t, WithBlockSize(128))

	scope := a.BeginTemp()
	for i := 0; i < 6; i++ {
		_, err := a.Push(100, 8)
		require.NoError(t, err)
	}
	blocks := a.Stats().Blocks
	require.NoError(t, scope.End())

	stats := a.Stats()
	assert.Zero(t, stats.BytesUsed)
	assert.Equal(t, blocks, stats.Blocks, "blocks are kept for reuse")

	for i := 0; i < 6; i++ {
		_, err := a.Push(100, 8)
		require.NoError(t, err)
	}
	assert.Equal(t, blocks, a.Stats().Blocks)
}

func TestTempScope_Nesting(t *testing.T) {
	a := newArena(t, WithBlockSize(256))

	outer := a.BeginTemp()
	_, err := a.Push(100, 8)
	require.NoError(t, err)
	afterOuterPush := a.Stats().BytesUsed

	inner := a.BeginTemp()
	_, err = a.Push(200, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Stats().OpenScopes)

	t.Run("outer before inner is rejected", func(t *testing.T) {
		assert.ErrorIs(t, outer.End(), ErrScopeOrder)
		assert.Equal(t, 2, a.Stats().OpenScopes)
	})

	require.NoError(t, inner.End())
	assert.Equal(t, afterOuterPush, a.Stats().BytesUsed)

	require.NoError(t, outer.End())
	assert.Zero(t, a.Stats().BytesUsed)
	assert.Zero(t, a.Stats().OpenScopes)

	t.Run("double end is a no-op", func(t *testing.T) {
		assert.NoError(t, inner.End())
		assert.NoError(t, outer.End())
	})
}

func TestTempScope_AfterRelease(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)

	scope := a.BeginTemp()
	assert.Same(t, a, scope.Arena())
	a.Release()

	assert.ErrorIs(t, scope.End(), ErrReleased)
}
