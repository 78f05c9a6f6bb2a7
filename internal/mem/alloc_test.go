package mem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBudget struct {
	limit int64
	used  int64
}

func (b *fixedBudget) AcquireMemory(n int64) error {
	if b.used+n > b.limit {
		return errors.New("budget exhausted")
	}
	b.used += n
	return nil
}

func (b *fixedBudget) ReleaseMemory(n int64) { b.used -= n }

func TestHeap(t *testing.T) {
	buf, err := Heap{}.Allocate(128)
	require.NoError(t, err)
	assert.Len(t, buf, 128)

	_, err = Heap{}.Allocate(-1)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestMmap(t *testing.T) {
	sizes := []int{1, 100, 4096, 1 << 20}

	for _, size := range sizes {
		buf, err := Mmap{}.Allocate(size)
		require.NoError(t, err)
		require.Len(t, buf, size)

		// Fresh anonymous mappings are zero-filled and writable.
		assert.Equal(t, byte(0), buf[size-1])
		buf[0] = 0xAB
		buf[size-1] = 0xCD
		assert.Equal(t, byte(0xAB), buf[0])

		Mmap{}.Free(buf)
	}

	empty, err := Mmap{}.Allocate(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
	Mmap{}.Free(empty)
}

func TestFuncs(t *testing.T) {
	t.Run("nil allocate", func(t *testing.T) {
		f := Funcs{}
		assert.False(t, f.Valid())
		_, err := f.Allocate(8)
		assert.ErrorIs(t, err, ErrOutOfMemory)
	})

	t.Run("nil result is out of memory", func(t *testing.T) {
		f := Funcs{AllocateFunc: func(int) ([]byte, error) { return nil, nil }}
		_, err := f.Allocate(8)
		assert.ErrorIs(t, err, ErrOutOfMemory)
	})

	t.Run("error is wrapped", func(t *testing.T) {
		cause := errors.New("boom")
		f := Funcs{AllocateFunc: func(int) ([]byte, error) { return nil, cause }}
		_, err := f.Allocate(8)
		assert.ErrorIs(t, err, ErrOutOfMemory)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("free hook", func(t *testing.T) {
		freed := 0
		f := Funcs{
			AllocateFunc: func(n int) ([]byte, error) { return make([]byte, n), nil },
			FreeFunc:     func(b []byte) { freed += len(b) },
		}
		buf, err := f.Allocate(32)
		require.NoError(t, err)
		f.Free(buf)
		assert.Equal(t, 32, freed)
	})
}

func TestBudgeted(t *testing.T) {
	budget := &fixedBudget{limit: 100}
	b := NewBudgeted(nil, budget)

	buf, err := b.Allocate(60)
	require.NoError(t, err)
	assert.Equal(t, int64(60), budget.used)

	_, err = b.Allocate(60)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, int64(60), budget.used, "failed allocation must not leak budget")

	b.Free(buf)
	assert.Equal(t, int64(0), budget.used)

	_, err = b.Allocate(100)
	assert.NoError(t, err)
}

func TestBudgeted_BaseFailureReleasesBudget(t *testing.T) {
	budget := &fixedBudget{limit: 1000}
	failing := Funcs{AllocateFunc: func(int) ([]byte, error) { return nil, errors.New("no pages") }}
	b := NewBudgeted(failing, budget)

	_, err := b.Allocate(10)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, int64(0), budget.used)
}

func TestCounting(t *testing.T) {
	c := NewCounting(nil)

	a, err := c.Allocate(10)
	require.NoError(t, err)
	b, err := c.Allocate(20)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, int64(30), stats.LiveBytes)
	assert.Equal(t, int64(2), stats.Allocs)

	c.Free(a)
	c.Free(b)
	c.Free(nil)

	stats = c.Stats()
	assert.Equal(t, int64(0), stats.LiveBytes)
	assert.Equal(t, int64(2), stats.Frees)

	_, err = NewCounting(Funcs{}).Allocate(1)
	assert.Error(t, err)
}

func TestAllocSlice(t *testing.T) {
	type record struct {
		A uint64
		B uint32
	}

	recs, err := AllocSlice[record](Heap{}, 4)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	recs[3] = record{A: 7, B: 9}
	assert.Equal(t, uint64(7), recs[3].A)

	none, err := AllocSlice[record](Heap{}, 0)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = AllocSlice[record](Funcs{}, 2)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestCast(t *testing.T) {
	buf := make([]byte, 16)

	_, err := Cast[uint64](buf, 3)
	assert.Error(t, err, "too small")

	_, err = Cast[uint64](buf[1:], 1)
	assert.Error(t, err, "misaligned")

	words, err := Cast[uint64](buf, 2)
	require.NoError(t, err)
	words[1] = 1
	assert.Equal(t, byte(1), buf[8])
}

func TestBytes(t *testing.T) {
	words := []uint32{1, 2, 3}
	buf := Bytes(words)
	assert.Len(t, buf, 12)

	counting := NewCounting(nil)
	recs, err := AllocSlice[uint64](counting, 5)
	require.NoError(t, err)
	counting.Free(Bytes(recs))
	assert.Zero(t, counting.Stats().LiveBytes)

	assert.Nil(t, Bytes[uint64](nil))
}
