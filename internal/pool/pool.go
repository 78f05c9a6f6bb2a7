// Package pool implements a generational object pool.
//
// Items live in a slot slice and are addressed by Handle, a 64-bit value
// packing the slot index with the slot's generation. Freeing a slot bumps its
// generation, so handles to the old occupant stop resolving instead of
// aliasing whatever reuses the slot.
//
//	p := pool.New[Body]()
//	h, body, err := p.Allocate()
//	...
//	if b, ok := p.Get(h); ok { ... }
//	p.Free(h)
//	_, ok := p.Get(h) // false
//
// Pool is not safe for concurrent use.
package pool

import (
	"fmt"
	"iter"
	"math"
	"unsafe"

	"github.com/hupe1980/physim/internal/conv"
	"github.com/hupe1980/physim/internal/mem"
)

// DefaultInitialCapacity is the number of slots reserved by the first allocation.
const DefaultInitialCapacity = 512

// freeEnd terminates the free list.
const freeEnd = math.MaxUint32

// maxSlots keeps every index distinct from freeEnd.
const maxSlots = math.MaxInt32

// Handle identifies a pool item. The low 32 bits hold the generation,
// the high 32 bits the slot index. The zero Handle is never valid.
type Handle uint64

// NewHandle packs index and generation.
func NewHandle(index, generation uint32) Handle {
	return Handle(uint64(generation) | uint64(index)<<32)
}

// Index returns the slot index.
func (h Handle) Index() uint32 { return uint32(h >> 32) }

// Generation returns the generation the handle was issued with.
func (h Handle) Generation() uint32 { return uint32(h) }

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index(), h.Generation())
}

// slot.link is the slot's own index while live, the next free index while free.
type slot[T any] struct {
	generation uint32
	link       uint32
	item       T
}

// Pool is a generational pool of T.
type Pool[T any] struct {
	slots    []slot[T]
	freeHead uint32
	count    int
	maxUsed  int

	initialCap int
	budget     mem.Budget
	charged    int64
}

// Option configures a Pool.
type Option func(*config)

type config struct {
	initialCap int
	budget     mem.Budget
}

// WithInitialCapacity sets the slot count reserved by the first allocation.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.initialCap = n
		}
	}
}

// WithMemoryBudget charges slot storage growth against b.
func WithMemoryBudget(b mem.Budget) Option {
	return func(c *config) {
		c.budget = b
	}
}

// New creates an empty pool.
func New[T any](opts ...Option) *Pool[T] {
	c := config{initialCap: DefaultInitialCapacity}
	for _, opt := range opts {
		opt(&c)
	}
	return &Pool[T]{
		freeHead:   freeEnd,
		initialCap: c.initialCap,
		budget:     c.budget,
	}
}

// Len returns the number of live items.
func (p *Pool[T]) Len() int { return p.count }

// MaxUsed returns the number of slots ever handed out.
func (p *Pool[T]) MaxUsed() int { return p.maxUsed }

// Cap returns the number of slots reserved.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Allocate reserves a zeroed item and returns its handle.
// Growth failures wrap mem.ErrOutOfMemory and leave the pool unchanged.
func (p *Pool[T]) Allocate() (Handle, *T, error) {
	var index uint32

	switch {
	case p.freeHead != freeEnd:
		index = p.freeHead
		p.freeHead = p.slots[index].link
	default:
		if p.maxUsed == len(p.slots) {
			if err := p.grow(); err != nil {
				return 0, nil, err
			}
		}
		idx, err := conv.IntToUint32(p.maxUsed)
		if err != nil {
			return 0, nil, err
		}
		index = idx
		p.maxUsed++
	}

	s := &p.slots[index]
	s.link = index
	p.count++

	return NewHandle(index, s.generation), &s.item, nil
}

func (p *Pool[T]) grow() error {
	oldCap := len(p.slots)
	newCap := p.initialCap
	if oldCap > 0 {
		newCap = oldCap * 2
	}
	if newCap > maxSlots {
		newCap = maxSlots
	}
	if newCap <= oldCap {
		return fmt.Errorf("pool: %d slots exhausted: %w", oldCap, mem.ErrOutOfMemory)
	}

	var zero slot[T]
	bytes, err := conv.MulInt(newCap-oldCap, int(unsafe.Sizeof(zero)))
	if err != nil {
		return fmt.Errorf("pool: grow to %d slots: %w: %w", newCap, mem.ErrOutOfMemory, err)
	}
	if p.budget != nil {
		if err := p.budget.AcquireMemory(int64(bytes)); err != nil {
			return fmt.Errorf("pool: grow to %d slots: %w: %w", newCap, mem.ErrOutOfMemory, err)
		}
		p.charged += int64(bytes)
	}

	slots := make([]slot[T], newCap)
	copy(slots, p.slots)
	for i := oldCap; i < newCap; i++ {
		slots[i].generation = 1
	}
	p.slots = slots

	return nil
}

func (p *Pool[T]) live(h Handle) (*slot[T], bool) {
	index := h.Index()
	if int(index) >= p.maxUsed {
		return nil, false
	}
	s := &p.slots[index]
	if s.generation != h.Generation() || s.link != index {
		return nil, false
	}
	return s, true
}

// Get returns the item for h, or false if h is stale or was never issued.
// The pointer is invalidated by the next growth.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	s, ok := p.live(h)
	if !ok {
		return nil, false
	}
	return &s.item, true
}

// Valid reports whether h resolves to a live item.
func (p *Pool[T]) Valid(h Handle) bool {
	_, ok := p.live(h)
	return ok
}

// Free releases the item for h. Stale handles are ignored and report false.
func (p *Pool[T]) Free(h Handle) bool {
	s, ok := p.live(h)
	if !ok {
		return false
	}

	var zero T
	s.item = zero
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.link = p.freeHead
	p.freeHead = h.Index()
	p.count--

	return true
}

// All iterates live items in slot order.
// Allocating or freeing during iteration is not supported.
func (p *Pool[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := 0; i < p.maxUsed; i++ {
			s := &p.slots[i]
			if int(s.link) != i {
				continue
			}
			if !yield(NewHandle(s.link, s.generation), &s.item) {
				return
			}
		}
	}
}

// Release drops all items and returns the charged budget.
func (p *Pool[T]) Release() {
	if p.budget != nil && p.charged > 0 {
		p.budget.ReleaseMemory(p.charged)
	}
	p.charged = 0
	p.slots = nil
	p.freeHead = freeEnd
	p.count = 0
	p.maxUsed = 0
}
