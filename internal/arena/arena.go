package arena

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/hupe1980/physim/internal/conv"
	"github.com/hupe1980/physim/internal/mem"
)

var (
	// ErrInvalidAlignment is returned when an alignment is not a positive power of two.
	ErrInvalidAlignment = errors.New("arena: alignment must be a power of two")
	// ErrScopeOrder is returned when a temp scope is ended out of stack order.
	ErrScopeOrder = errors.New("arena: temp scope ended out of order")
	// ErrReleased is returned when the arena is used after Release.
	ErrReleased = errors.New("arena: use after release")
)

const (
	// DefaultBlockSize is the default size of a block (1MB).
	DefaultBlockSize = 1024 * 1024
	// DefaultAlignment is the alignment used by Allocate (16 bytes).
	DefaultAlignment = 16
)

// Stats tracks arena memory usage metrics.
//
// Note on semantics:
//   - BytesReserved: total memory obtained from the backing allocator
//   - BytesUsed: sum of block cursors, alignment padding included
//   - Blocks: number of blocks currently held
//   - TotalPushes: cumulative successful pushes
//   - OpenScopes: temp scopes begun and not yet ended
type Stats struct {
	Blocks        int
	BytesReserved uint64
	BytesUsed     uint64
	TotalPushes   uint64
	OpenScopes    int
}

type block struct {
	buf  []byte
	at   int
	next *block
}

// Arena is a block-based bump allocator.
type Arena struct {
	alloc     mem.Allocator
	blockSize int
	alignment int

	first   *block
	last    *block
	current *block
	blocks  int

	reserved uint64
	pushes   uint64

	scopes    []uint64 // ids of open temp scopes, innermost last
	nextScope uint64
	released  bool
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithBlockSize sets the minimum size of newly allocated blocks.
func WithBlockSize(size int) Option {
	return func(a *Arena) {
		if size > 0 {
			a.blockSize = size
		}
	}
}

// WithAlignment sets the alignment used by Allocate.
func WithAlignment(alignment int) Option {
	return func(a *Arena) {
		a.alignment = alignment
	}
}

// New creates an Arena drawing blocks from alloc. A nil alloc uses mem.Heap.
// No block is allocated until the first push.
func New(alloc mem.Allocator, opts ...Option) (*Arena, error) {
	if alloc == nil {
		alloc = mem.Heap{}
	}

	a := &Arena{
		alloc:     alloc,
		blockSize: DefaultBlockSize,
		alignment: DefaultAlignment,
	}

	for _, opt := range opts {
		opt(a)
	}

	if !isPow2(a.alignment) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlignment, a.alignment)
	}

	return a, nil
}

// Push returns size zeroed bytes aligned to alignment.
// Growth failures wrap mem.ErrOutOfMemory and leave the arena unchanged.
func (a *Arena) Push(size, alignment int) ([]byte, error) {
	if a.released {
		return nil, ErrReleased
	}
	if !isPow2(alignment) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlignment, alignment)
	}
	if size < 0 {
		return nil, fmt.Errorf("arena: negative size %d", size)
	}
	if size == 0 {
		return nil, nil
	}

	b := a.findBlock(size, alignment)
	if b == nil {
		var err error
		if b, err = a.grow(size, alignment); err != nil {
			return nil, err
		}
	}

	off := alignedOffset(b, alignment)
	out := b.buf[off : off+size : off+size]
	clear(out)

	b.at = off + size
	a.current = b
	a.pushes++

	return out, nil
}

// findBlock scans forward from the current block for one with room.
func (a *Arena) findBlock(size, alignment int) *block {
	for b := a.current; b != nil; b = b.next {
		if alignedOffset(b, alignment)+size <= len(b.buf) {
			return b
		}
	}
	return nil
}

// grow appends a block big enough for size bytes at any base alignment.
func (a *Arena) grow(size, alignment int) (*block, error) {
	if size > math.MaxInt-alignment {
		return nil, fmt.Errorf("arena: block for %d bytes: %w", size, mem.ErrOutOfMemory)
	}
	blockSize := max(size+alignment, a.blockSize)

	buf, err := a.alloc.Allocate(blockSize)
	if err != nil {
		if errors.Is(err, mem.ErrOutOfMemory) {
			return nil, fmt.Errorf("arena: block of %d bytes: %w", blockSize, err)
		}
		return nil, fmt.Errorf("arena: block of %d bytes: %w: %w", blockSize, mem.ErrOutOfMemory, err)
	}
	if len(buf) < blockSize {
		a.alloc.Free(buf)
		return nil, fmt.Errorf("arena: allocator returned %d of %d bytes: %w", len(buf), blockSize, mem.ErrOutOfMemory)
	}

	b := &block{buf: buf}
	if a.last == nil {
		a.first = b
	} else {
		a.last.next = b
	}
	a.last = b
	a.blocks++

	reserved, _ := conv.IntToUint64(len(buf))
	a.reserved += reserved

	return b, nil
}

// Allocate implements mem.Allocator using the arena's default alignment.
func (a *Arena) Allocate(size int) ([]byte, error) {
	return a.Push(size, a.alignment)
}

// Free implements mem.Allocator. Arena memory is only reclaimed in bulk.
func (a *Arena) Free([]byte) {}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	var used uint64
	for b := a.first; b != nil; b = b.next {
		u, _ := conv.IntToUint64(b.at)
		used += u
	}
	return Stats{
		Blocks:        a.blocks,
		BytesReserved: a.reserved,
		BytesUsed:     used,
		TotalPushes:   a.pushes,
		OpenScopes:    len(a.scopes),
	}
}

// Release returns every block to the backing allocator.
// All slices handed out by the arena become invalid; the arena cannot be reused.
func (a *Arena) Release() {
	if a.released {
		return
	}
	for b := a.first; b != nil; {
		next := b.next
		a.alloc.Free(b.buf)
		b.buf = nil
		b.next = nil
		b = next
	}
	a.first, a.last, a.current = nil, nil, nil
	a.blocks = 0
	a.reserved = 0
	a.scopes = nil
	a.released = true
}

func (a *Arena) String() string {
	stats := a.Stats()
	return fmt.Sprintf(
		"Arena{blocks: %d, reserved: %.2f MB, used: %.2f KB, pushes: %d, scopes: %d}",
		stats.Blocks,
		float64(stats.BytesReserved)/(1024*1024),
		float64(stats.BytesUsed)/1024,
		stats.TotalPushes,
		stats.OpenScopes,
	)
}

func alignedOffset(b *block, alignment int) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(b.buf))) //nolint:gosec // address arithmetic for alignment only
	mask := uintptr(alignment - 1)
	addr := base + uintptr(b.at)
	return int((addr+mask)&^mask - base)
}

func isPow2(x int) bool {
	return x > 0 && x&(x-1) == 0
}
