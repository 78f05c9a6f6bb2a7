package collision

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/hupe1980/physim/geom"
	"github.com/hupe1980/physim/internal/array"
	"github.com/hupe1980/physim/internal/mem"
)

// Contact is a touching point between two bodies.
// BodyA and BodyB are filled in by the Collector from the pair being processed.
type Contact struct {
	BodyA  uint64
	BodyB  uint64
	Point  geom.Vec3 // world space
	Normal geom.Vec3 // from A towards B
	Depth  float32   // penetration, positive when overlapping
}

const contactSize = int(unsafe.Sizeof(Contact{}))

// Collector accumulates the contacts handlers report during one tick.
//
// A failed store is remembered and every later Report is dropped; the caller
// checks Err once dispatch is done.
type Collector struct {
	contacts *array.Array
	bodyA    uint64
	bodyB    uint64
	pairFrom int
	err      error
}

// NewCollector returns a collector storing contacts in alloc.
func NewCollector(alloc mem.Allocator) (*Collector, error) {
	contacts, err := array.New(alloc, contactSize)
	if err != nil {
		return nil, fmt.Errorf("collision: %w", err)
	}
	return &Collector{contacts: contacts}, nil
}

// Bind makes (a, b) the pair subsequent reports belong to.
func (c *Collector) Bind(a, b uint64) {
	c.bodyA = a
	c.bodyB = b
	c.pairFrom = c.contacts.Len()
}

// Report records a contact for the bound pair.
func (c *Collector) Report(ct Contact) {
	if c.err != nil {
		return
	}
	ct.BodyA = c.bodyA
	ct.BodyB = c.bodyB

	rec, err := c.contacts.PushZero()
	if err != nil {
		c.err = fmt.Errorf("collision: store contact: %w", err)
		return
	}
	*(*Contact)(unsafe.Pointer(unsafe.SliceData(rec))) = ct //nolint:gosec // record is contactSize bytes
}

// Err returns the first storage failure, if any.
func (c *Collector) Err() error {
	return c.err
}

// Len returns the number of contacts recorded.
func (c *Collector) Len() int {
	return c.contacts.Len()
}

// PairLen returns the number of contacts recorded since the last Bind.
func (c *Collector) PairLen() int {
	return c.contacts.Len() - c.pairFrom
}

// All iterates recorded contacts in report order.
func (c *Collector) All() iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		for i := 0; i < c.contacts.Len(); i++ {
			if !yield(c.at(i)) {
				return
			}
		}
	}
}

// Pair iterates the contacts recorded since the last Bind.
func (c *Collector) Pair() iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		for i := c.pairFrom; i < c.contacts.Len(); i++ {
			if !yield(c.at(i)) {
				return
			}
		}
	}
}

func (c *Collector) at(i int) Contact {
	rec := c.contacts.At(i)
	return *(*Contact)(unsafe.Pointer(unsafe.SliceData(rec))) //nolint:gosec // record is contactSize bytes
}
