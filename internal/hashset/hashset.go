// Package hashset implements an insert-only open-addressing hash set over
// fixed-size byte keys.
//
// Keys are copied into a dense item buffer; a power-of-two slot table maps
// hashes to item indexes with linear probing. Every bucket keeps a base count,
// the number of occupied slots whose ideal bucket it is, so a lookup stops as
// soon as it has seen that many candidates instead of probing to an empty
// slot. All storage comes from a mem.Allocator, which lets the broadphase
// build a set on the tick's temp arena and drop it with the scope.
package hashset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/hupe1980/physim/internal/array"
	"github.com/hupe1980/physim/internal/mem"
)

// ErrDuplicateKey is returned by Add when the key is already present.
var ErrDuplicateKey = errors.New("hashset: duplicate key")

const (
	// InitialSlots is the slot table size allocated by the first insert.
	InitialSlots = 256

	emptySlot = math.MaxUint32
)

// HashFunc hashes a key.
type HashFunc func(key []byte) uint32

// EqualFunc reports whether two keys are equal.
type EqualFunc func(a, b []byte) bool

type slot struct {
	hash uint32
	item uint32 // emptySlot when unoccupied
	base uint32 // occupied slots whose ideal bucket is this one
}

// Set is an open-addressing hash set. The zero value is not usable; use New.
type Set struct {
	alloc   mem.Allocator
	keySize int
	hash    HashFunc
	equal   EqualFunc

	keys      *array.Array // dense key records
	itemSlots *array.Array // uint32 slot index per item

	slots []slot
	mask  uint32
	count int
}

// New creates an empty set of keySize-byte keys. A nil equal compares bytes;
// a nil alloc uses mem.Heap.
func New(keySize int, hash HashFunc, equal EqualFunc, alloc mem.Allocator) (*Set, error) {
	if hash == nil {
		return nil, errors.New("hashset: hash function is required")
	}
	if equal == nil {
		equal = bytes.Equal
	}
	if alloc == nil {
		alloc = mem.Heap{}
	}

	keys, err := array.New(alloc, keySize)
	if err != nil {
		return nil, fmt.Errorf("hashset: %w", err)
	}
	itemSlots, err := array.New(alloc, 4)
	if err != nil {
		return nil, fmt.Errorf("hashset: %w", err)
	}

	return &Set{
		alloc:     alloc,
		keySize:   keySize,
		hash:      hash,
		equal:     equal,
		keys:      keys,
		itemSlots: itemSlots,
	}, nil
}

// Len returns the number of keys.
func (s *Set) Len() int { return s.count }

// SlotCap returns the slot table size.
func (s *Set) SlotCap() int { return len(s.slots) }

// Contains reports whether key is in the set.
func (s *Set) Contains(key []byte) bool {
	if s.count == 0 || len(key) != s.keySize {
		return false
	}
	return s.find(key, s.hash(key))
}

// Insert adds key if absent and reports whether it was added.
func (s *Set) Insert(key []byte) (bool, error) {
	if len(key) != s.keySize {
		return false, fmt.Errorf("hashset: key of %d bytes, want %d", len(key), s.keySize)
	}
	h := s.hash(key)
	if s.count > 0 && s.find(key, h) {
		return false, nil
	}
	if err := s.insert(key, h); err != nil {
		return false, err
	}
	return true, nil
}

// Add inserts a key the caller already knows to be absent.
// A key that is present anyway is refused with ErrDuplicateKey.
func (s *Set) Add(key []byte) error {
	added, err := s.Insert(key)
	if err != nil {
		return err
	}
	if !added {
		return ErrDuplicateKey
	}
	return nil
}

// Key returns the i-th key in insertion order.
func (s *Set) Key(i int) []byte {
	return s.keys.At(i)
}

// Keys iterates keys in insertion order.
func (s *Set) Keys() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for i := 0; i < s.count; i++ {
			if !yield(s.keys.At(i)) {
				return
			}
		}
	}
}

// Release returns all storage to the allocator.
func (s *Set) Release() {
	s.keys.Release()
	s.itemSlots.Release()
	s.freeSlots(s.slots)
	s.slots = nil
	s.mask = 0
	s.count = 0
}

func (s *Set) find(key []byte, h uint32) bool {
	ideal := h & s.mask
	remaining := s.slots[ideal].base

	for i := ideal; remaining > 0; i = (i + 1) & s.mask {
		sl := &s.slots[i]
		if sl.item == emptySlot || sl.hash&s.mask != ideal {
			continue
		}
		remaining--
		if sl.hash == h && s.equal(key, s.keys.At(int(sl.item))) {
			return true
		}
	}
	return false
}

func (s *Set) insert(key []byte, h uint32) error {
	if n := len(s.slots); n == 0 || s.count >= n-n/3 {
		newSize := InitialSlots
		if n > 0 {
			newSize = n * 2
		}
		if err := s.resize(newSize); err != nil {
			return err
		}
	}

	item := s.count
	if err := s.keys.Push(key); err != nil {
		return fmt.Errorf("hashset: store key: %w", err)
	}
	rec, err := s.itemSlots.PushZero()
	if err != nil {
		s.keys.Truncate(item)
		return fmt.Errorf("hashset: store key: %w", err)
	}

	at := place(s.slots, s.mask, h, uint32(item)) //nolint:gosec // item < len(slots) <= MaxUint32
	binary.NativeEndian.PutUint32(rec, at)
	s.count++
	return nil
}

// place claims the first empty slot from h's ideal bucket.
func place(slots []slot, mask, h, item uint32) uint32 {
	ideal := h & mask
	i := ideal
	for slots[i].item != emptySlot {
		i = (i + 1) & mask
	}
	slots[i].hash = h
	slots[i].item = item
	slots[ideal].base++
	return i
}

func (s *Set) resize(size int) error {
	if size > emptySlot {
		return fmt.Errorf("hashset: %d slots: %w", size, mem.ErrOutOfMemory)
	}
	slots, err := mem.AllocSlice[slot](s.alloc, size)
	if err != nil {
		return fmt.Errorf("hashset: grow to %d slots: %w", size, err)
	}
	for i := range slots {
		slots[i] = slot{item: emptySlot}
	}
	mask := uint32(size - 1) //nolint:gosec // size is a power of two <= MaxUint32

	for i := 0; i < s.count; i++ {
		rec := s.itemSlots.At(i)
		old := s.slots[binary.NativeEndian.Uint32(rec)]
		at := place(slots, mask, old.hash, uint32(i)) //nolint:gosec // i < count
		binary.NativeEndian.PutUint32(rec, at)
	}

	s.freeSlots(s.slots)
	s.slots = slots
	s.mask = mask
	return nil
}

func (s *Set) freeSlots(slots []slot) {
	if len(slots) == 0 {
		return
	}
	s.alloc.Free(mem.Bytes(slots))
}
