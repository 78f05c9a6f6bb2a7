package hashset

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/physim/internal/arena"
	"github.com/hupe1980/physim/internal/mem"
	"github.com/hupe1980/physim/testutil"
)

func fnvHash(key []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(key)
	return h.Sum32()
}

// constHash forces every key into one probe chain.
func constHash([]byte) uint32 { return 7 }

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func newSet(t testing.TB, hash HashFunc) *Set {
	t.Helper()
	s, err := New(8, hash, nil, nil)
	require.NoError(t, err)
	return s
}

func TestSet_New(t *testing.T) {
	_, err := New(8, nil, nil, nil)
	assert.Error(t, err, "hash function is required")

	_, err = New(0, fnvHash, nil, nil)
	assert.Error(t, err)
}

func TestSet_Insert(t *testing.T) {
	s := newSet(t, fnvHash)

	added, err := s.Insert(u64(1))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Insert(u64(1))
	require.NoError(t, err)
	assert.False(t, added, "second insert reports present")

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(u64(1)))
	assert.False(t, s.Contains(u64(2)))
	assert.False(t, s.Contains([]byte{1}), "wrong key size is never contained")

	_, err = s.Insert([]byte{1, 2})
	assert.Error(t, err)
}

func TestSet_Add(t *testing.T) {
	s := newSet(t, fnvHash)

	require.NoError(t, s.Add(u64(5)))
	assert.ErrorIs(t, s.Add(u64(5)), ErrDuplicateKey)
	assert.Equal(t, 1, s.Len())
}

func TestSet_Empty(t *testing.T) {
	s := newSet(t, fnvHash)

	assert.Zero(t, s.Len())
	assert.Zero(t, s.SlotCap())
	assert.False(t, s.Contains(u64(0)))

	n := 0
	for range s.Keys() {
		n++
	}
	assert.Zero(t, n)
}

func TestSet_Resize(t *testing.T) {
	s := newSet(t, fnvHash)

	// 256 slots hold 171 keys; the 172nd insert doubles the table.
	for i := uint64(0); i < 171; i++ {
		require.NoError(t, s.Add(u64(i)))
	}
	assert.Equal(t, InitialSlots, s.SlotCap())

	require.NoError(t, s.Add(u64(171)))
	assert.Equal(t, 2*InitialSlots, s.SlotCap())

	for i := uint64(0); i < 1000; i++ {
		_, err := s.Insert(u64(i))
		require.NoError(t, err)
	}

	assert.Equal(t, 1000, s.Len())
	assert.Equal(t, 2048, s.SlotCap())
	for i := uint64(0); i < 1000; i++ {
		assert.True(t, s.Contains(u64(i)), "key %d lost across resize", i)
	}
	assert.False(t, s.Contains(u64(1000)))
}

func TestSet_Collisions(t *testing.T) {
	s := newSet(t, constHash)

	for i := uint64(0); i < 300; i++ {
		added, err := s.Insert(u64(i))
		require.NoError(t, err)
		require.True(t, added)
	}
	for i := uint64(0); i < 300; i++ {
		added, err := s.Insert(u64(i))
		require.NoError(t, err)
		assert.False(t, added, "key %d", i)
	}
	assert.False(t, s.Contains(u64(300)))
	assert.Equal(t, 300, s.Len())
}

func TestSet_BaseCounts(t *testing.T) {
	rng := testutil.NewRNG(4711)
	s := newSet(t, fnvHash)

	for _, k := range rng.Keys(700, 8) {
		require.NoError(t, s.Add(k))
	}

	want := make([]uint32, len(s.slots))
	occupied := 0
	for _, sl := range s.slots {
		if sl.item != emptySlot {
			want[sl.hash&s.mask]++
			occupied++
		}
	}
	assert.Equal(t, s.Len(), occupied)
	for i, sl := range s.slots {
		assert.Equal(t, want[i], sl.base, "bucket %d", i)
	}
}

func TestSet_Keys(t *testing.T) {
	s := newSet(t, fnvHash)
	for _, v := range []uint64{30, 10, 20, 10} {
		_, err := s.Insert(u64(v))
		require.NoError(t, err)
	}

	var got []uint64
	for k := range s.Keys() {
		got = append(got, binary.LittleEndian.Uint64(k))
	}
	assert.Equal(t, []uint64{30, 10, 20}, got, "insertion order")
	assert.Equal(t, u64(20), s.Key(2))
}

func TestSet_CustomEqual(t *testing.T) {
	// Keys compare equal on their first byte only.
	firstByte := func(a, b []byte) bool { return a[0] == b[0] }
	hashFirst := func(k []byte) uint32 { return uint32(k[0]) }

	s, err := New(2, hashFirst, firstByte, nil)
	require.NoError(t, err)

	added, err := s.Insert([]byte{1, 1})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Insert([]byte{1, 2})
	require.NoError(t, err)
	assert.False(t, added)
}

func TestSet_OutOfMemory(t *testing.T) {
	budget := 0
	alloc := mem.Funcs{
		AllocateFunc: func(n int) ([]byte, error) {
			if budget -= n; budget < 0 {
				return nil, errors.New("exhausted")
			}
			return make([]byte, n), nil
		},
	}

	// Enough for the first slot table and item buffers, not for a resize.
	budget = InitialSlots*12 + 64*8 + 64*4 + 128*8 + 128*4
	s, err := New(8, fnvHash, nil, alloc)
	require.NoError(t, err)

	var failed error
	for i := uint64(0); i < 1000 && failed == nil; i++ {
		_, failed = s.Insert(u64(i))
	}
	require.ErrorIs(t, failed, mem.ErrOutOfMemory)

	n := s.Len()
	for i := uint64(0); i < uint64(n); i++ {
		assert.True(t, s.Contains(u64(i)), "key %d lost after failed insert", i)
	}
	assert.False(t, s.Contains(u64(uint64(n))))
}

func TestSet_OnTempArena(t *testing.T) {
	ar, err := arena.New(nil, arena.WithBlockSize(64*1024))
	require.NoError(t, err)
	defer ar.Release()

	for round := 0; round < 3; round++ {
		scope := ar.BeginTemp()
		s, err := New(8, fnvHash, nil, ar)
		require.NoError(t, err)
		for i := uint64(0); i < 500; i++ {
			require.NoError(t, s.Add(u64(i)))
		}
		assert.Equal(t, 500, s.Len())
		require.NoError(t, scope.End())
		assert.Zero(t, ar.Stats().BytesUsed)
	}
}

func TestSet_Release(t *testing.T) {
	counting := mem.NewCounting(nil)
	s, err := New(8, fnvHash, nil, counting)
	require.NoError(t, err)

	for i := uint64(0); i < 400; i++ {
		require.NoError(t, s.Add(u64(i)))
	}
	s.Release()

	assert.Zero(t, counting.Stats().LiveBytes)
	assert.Zero(t, s.Len())
	assert.False(t, s.Contains(u64(1)))
}

// TestSet_Randomized checks the set against a map under a random workload
// with a deliberately weak hash so probe chains overlap.
func TestSet_Randomized(t *testing.T) {
	weak := func(k []byte) uint32 { return uint32(k[0]) | uint32(k[1])<<8 }

	for _, seed := range []int64{1, 2, 3, 4711} {
		rng := testutil.NewRNG(seed)
		s, err := New(4, weak, nil, nil)
		require.NoError(t, err)
		ref := make(map[uint32]bool)

		for i := 0; i < 5000; i++ {
			v := rng.Uint32() % 3000
			key := make([]byte, 4)
			binary.LittleEndian.PutUint32(key, v)

			if rng.Intn(3) == 0 {
				assert.Equal(t, ref[v], s.Contains(key), "seed %d contains %d", seed, v)
				continue
			}
			added, err := s.Insert(key)
			require.NoError(t, err)
			assert.Equal(t, !ref[v], added, "seed %d insert %d", seed, v)
			ref[v] = true
		}

		assert.Equal(t, len(ref), s.Len())
		for v := range ref {
			key := make([]byte, 4)
			binary.LittleEndian.PutUint32(key, v)
			assert.True(t, s.Contains(key))
		}
	}
}

func FuzzHashSet(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 1, 2, 3, 4})
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 1, 255, 255})

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := New(2, constHash, nil, nil)
		require.NoError(t, err)
		ref := make(map[[2]byte]bool)

		for i := 0; i+1 < len(data); i += 2 {
			k := [2]byte{data[i], data[i+1]}
			added, err := s.Insert(k[:])
			require.NoError(t, err)
			require.Equal(t, !ref[k], added)
			ref[k] = true
		}

		require.Equal(t, len(ref), s.Len())
		for k := range ref {
			require.True(t, s.Contains(k[:]))
		}
	})
}

func BenchmarkSet_Insert(b *testing.B) {
	keys := testutil.NewRNG(4711).Keys(10000, 8)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s, _ := New(8, fnvHash, nil, nil)
		for _, k := range keys {
			_, _ = s.Insert(k)
		}
	}
}
