package physim

import (
	"github.com/hupe1980/physim/collision"
	"github.com/hupe1980/physim/internal/mem"
)

// Allocator is the memory capability a Sim draws all of its storage from.
// Allocate returns a zeroed slice of exactly size bytes; failures are reported
// as errors, never panics.
type Allocator = mem.Allocator

// AllocatorFuncs adapts a pair of plain functions to Allocator.
type AllocatorFuncs = mem.Funcs

// HeapAllocator allocates from the Go heap. It is the default.
type HeapAllocator = mem.Heap

// MmapAllocator allocates anonymous off-heap mappings.
type MmapAllocator = mem.Mmap

// Contact is a touching point reported by a collision handler.
type Contact = collision.Contact

type validator interface {
	Valid() bool
}

// usable reports whether a can serve allocations at all.
func usable(a Allocator) bool {
	if a == nil {
		return false
	}
	if v, ok := a.(validator); ok {
		return v.Valid()
	}
	return true
}
