package mem

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrOutOfMemory is returned (wrapped) whenever backing memory cannot be obtained.
var ErrOutOfMemory = errors.New("out of memory")

// Allocator is the pluggable memory capability.
// Allocate returns a zeroed slice of exactly size bytes.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Free(buf []byte)
}

// Budget reserves and releases byte amounts against a limit.
// *resource.Controller implements it.
type Budget interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

// Heap allocates from the Go heap. Free drops the reference only.
type Heap struct{}

// Allocate implements Allocator.
func (Heap) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrOutOfMemory, size)
	}
	return make([]byte, size), nil
}

// Free implements Allocator.
func (Heap) Free([]byte) {}

// Funcs adapts plain functions to the Allocator interface.
// A nil FreeFunc makes Free a no-op.
type Funcs struct {
	AllocateFunc func(size int) ([]byte, error)
	FreeFunc     func(buf []byte)
}

// Valid reports whether the adapter can allocate at all.
func (f Funcs) Valid() bool {
	return f.AllocateFunc != nil
}

// Allocate implements Allocator.
func (f Funcs) Allocate(size int) ([]byte, error) {
	if f.AllocateFunc == nil {
		return nil, fmt.Errorf("%w: no allocate function", ErrOutOfMemory)
	}
	buf, err := f.AllocateFunc(size)
	if err != nil {
		if errors.Is(err, ErrOutOfMemory) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if buf == nil && size > 0 {
		return nil, fmt.Errorf("%w: allocate returned nil for %d bytes", ErrOutOfMemory, size)
	}
	return buf, nil
}

// Free implements Allocator.
func (f Funcs) Free(buf []byte) {
	if f.FreeFunc != nil {
		f.FreeFunc(buf)
	}
}

// Budgeted charges every allocation against a Budget before delegating
// to the base allocator.
type Budgeted struct {
	base   Allocator
	budget Budget
}

// NewBudgeted wraps base. A nil base uses Heap.
func NewBudgeted(base Allocator, budget Budget) *Budgeted {
	if base == nil {
		base = Heap{}
	}
	return &Budgeted{base: base, budget: budget}
}

// Allocate implements Allocator.
func (b *Budgeted) Allocate(size int) ([]byte, error) {
	if b.budget != nil {
		if err := b.budget.AcquireMemory(int64(size)); err != nil {
			return nil, fmt.Errorf("%w: %d bytes: %w", ErrOutOfMemory, size, err)
		}
	}
	buf, err := b.base.Allocate(size)
	if err != nil {
		if b.budget != nil {
			b.budget.ReleaseMemory(int64(size))
		}
		return nil, err
	}
	return buf, nil
}

// Free implements Allocator.
func (b *Budgeted) Free(buf []byte) {
	if buf == nil {
		return
	}
	size := len(buf)
	b.base.Free(buf)
	if b.budget != nil {
		b.budget.ReleaseMemory(int64(size))
	}
}

// Counting records live bytes and call counts for a base allocator.
// Counters are atomic so a stats reporter may read them from another goroutine.
type Counting struct {
	base      Allocator
	liveBytes atomic.Int64
	allocs    atomic.Int64
	frees     atomic.Int64
	failures  atomic.Int64
}

// NewCounting wraps base. A nil base uses Heap.
func NewCounting(base Allocator) *Counting {
	if base == nil {
		base = Heap{}
	}
	return &Counting{base: base}
}

// Allocate implements Allocator.
func (c *Counting) Allocate(size int) ([]byte, error) {
	buf, err := c.base.Allocate(size)
	if err != nil {
		c.failures.Add(1)
		return nil, err
	}
	c.allocs.Add(1)
	c.liveBytes.Add(int64(len(buf)))
	return buf, nil
}

// Free implements Allocator.
func (c *Counting) Free(buf []byte) {
	if buf == nil {
		return
	}
	c.frees.Add(1)
	c.liveBytes.Add(-int64(len(buf)))
	c.base.Free(buf)
}

// Stats is a snapshot of Counting's counters.
type Stats struct {
	LiveBytes int64
	Allocs    int64
	Frees     int64
	Failures  int64
}

// Stats returns the current counters.
func (c *Counting) Stats() Stats {
	return Stats{
		LiveBytes: c.liveBytes.Load(),
		Allocs:    c.allocs.Load(),
		Frees:     c.frees.Load(),
		Failures:  c.failures.Load(),
	}
}
