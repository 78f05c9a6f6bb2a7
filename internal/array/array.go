// Package array implements a growable array of fixed-size records stored in
// allocator-provided memory.
//
// Elements are opaque byte records of a size fixed at construction. The
// backing buffer comes from a mem.Allocator, so an Array built on a temp arena
// disappears with the arena scope. Records must be pointer-free.
package array

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/physim/internal/conv"
	"github.com/hupe1980/physim/internal/mem"
)

// InitialCapacity is the capacity reserved by the first growth.
const InitialCapacity = 64

// Array is a dynamic array of elemSize-byte records.
type Array struct {
	alloc    mem.Allocator
	elemSize int
	data     []byte
	count    int
	capacity int
}

// New creates an empty Array. Nothing is allocated until the first push.
// A nil alloc uses mem.Heap.
func New(alloc mem.Allocator, elemSize int) (*Array, error) {
	if elemSize <= 0 {
		return nil, fmt.Errorf("array: invalid element size %d", elemSize)
	}
	if alloc == nil {
		alloc = mem.Heap{}
	}
	return &Array{alloc: alloc, elemSize: elemSize}, nil
}

// Len returns the number of records.
func (a *Array) Len() int { return a.count }

// Cap returns the number of records that fit without growing.
func (a *Array) Cap() int { return a.capacity }

// ElemSize returns the record size in bytes.
func (a *Array) ElemSize() int { return a.elemSize }

// Reserve grows the backing buffer to hold at least n records.
func (a *Array) Reserve(n int) error {
	if n <= a.capacity {
		return nil
	}
	size, err := conv.MulInt(n, a.elemSize)
	if err != nil {
		return fmt.Errorf("array: reserve %d records: %w: %w", n, mem.ErrOutOfMemory, err)
	}

	buf, err := a.alloc.Allocate(size)
	if err != nil {
		return fmt.Errorf("array: reserve %d records: %w", n, err)
	}
	copy(buf, a.data[:a.count*a.elemSize])
	if a.data != nil {
		a.alloc.Free(a.data)
	}

	a.data = buf
	a.capacity = n
	return nil
}

func (a *Array) grow() error {
	newCap := InitialCapacity
	if a.capacity > 0 {
		newCap = a.capacity * 2
	}
	return a.Reserve(newCap)
}

// Push appends a copy of rec. rec must be exactly ElemSize bytes.
func (a *Array) Push(rec []byte) error {
	if len(rec) != a.elemSize {
		return fmt.Errorf("array: record of %d bytes, want %d", len(rec), a.elemSize)
	}
	slot, err := a.PushZero()
	if err != nil {
		return err
	}
	copy(slot, rec)
	return nil
}

// PushZero appends a zeroed record and returns its bytes.
// The returned slice is invalidated by the next growth.
func (a *Array) PushZero() ([]byte, error) {
	if a.count == a.capacity {
		if err := a.grow(); err != nil {
			return nil, err
		}
	}
	a.count++
	rec := a.At(a.count - 1)
	clear(rec)
	return rec, nil
}

// At returns the bytes of record i. It panics if i is out of range.
func (a *Array) At(i int) []byte {
	if i < 0 || i >= a.count {
		panic(fmt.Sprintf("array: index %d out of range [0:%d]", i, a.count))
	}
	off := i * a.elemSize
	return a.data[off : off+a.elemSize : off+a.elemSize]
}

// Bytes returns the live records as one contiguous slice.
func (a *Array) Bytes() []byte {
	return a.data[:a.count*a.elemSize]
}

// Truncate drops every record past n. Capacity is kept.
func (a *Array) Truncate(n int) {
	if n < 0 || n > a.count {
		panic(fmt.Sprintf("array: truncate %d out of range [0:%d]", n, a.count))
	}
	a.count = n
}

// Release returns the backing buffer to the allocator.
func (a *Array) Release() {
	if a.data != nil {
		a.alloc.Free(a.data)
	}
	a.data = nil
	a.count = 0
	a.capacity = 0
}

// View reinterprets the live records as a []T. sizeof(T) must equal ElemSize.
func View[T any](a *Array) ([]T, error) {
	var zero T
	if size := int(unsafe.Sizeof(zero)); size != a.elemSize {
		return nil, fmt.Errorf("array: view of %d-byte type over %d-byte records", size, a.elemSize)
	}
	recs, err := mem.Cast[T](a.data, a.capacity)
	if err != nil {
		return nil, err
	}
	return recs[:a.count], nil
}
