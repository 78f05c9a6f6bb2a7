package collision

import (
	"errors"
	"fmt"

	"github.com/hupe1980/physim/geom"
	"github.com/hupe1980/physim/shape"
)

// ErrTypeOutOfRange is returned when registering a type beyond the table width
// or sizing a table past MaxShapeTypes.
var ErrTypeOutOfRange = errors.New("collision: shape type out of range")

// MaxShapeTypes bounds the width of a dispatch table. The matrix holds
// width*width entries, so type ids must stay small and dense.
const MaxShapeTypes = 1024

// Func is a narrow-phase handler for one ordered pair of shape types.
// Transforms are world matrices; scales are the bodies' non-uniform scales.
type Func func(c *Collector, a *shape.Shape, ta *geom.Mat4x3, sa geom.Vec3, b *shape.Shape, tb *geom.Mat4x3, sb geom.Vec3)

// Handler binds a Func to the shape type on the other side of the pair.
type Handler struct {
	Other shape.Type
	Func  Func
}

// Registration lists the handlers of one shape type against others.
type Registration struct {
	Type     shape.Type
	Handlers []Handler
}

// Table is a square dispatch matrix over shape types.
type Table struct {
	width int
	funcs []Func
}

// NewTable returns an empty table for type ids in [0, width). A width above
// MaxShapeTypes fails with ErrTypeOutOfRange.
func NewTable(width int) (*Table, error) {
	width = max(width, 0)
	if width > MaxShapeTypes {
		return nil, fmt.Errorf("%w: width %d exceeds %d", ErrTypeOutOfRange, width, MaxShapeTypes)
	}
	return &Table{width: width, funcs: make([]Func, width*width)}, nil
}

// NewDefaultTable returns a table holding the built-in handlers for convex,
// mesh and compound shapes, with regs applied on top. Registrations may
// override built-in entries. The table is wide enough for every type named;
// a type id at or above MaxShapeTypes fails with ErrTypeOutOfRange.
func NewDefaultTable(regs []Registration) (*Table, error) {
	width := shape.BuiltinTypeCount
	for _, r := range regs {
		if err := checkType(r.Type); err != nil {
			return nil, err
		}
		width = max(width, int(r.Type)+1)
		for _, h := range r.Handlers {
			if err := checkType(h.Other); err != nil {
				return nil, err
			}
			width = max(width, int(h.Other)+1)
		}
	}

	t, err := NewTable(width)
	if err != nil {
		return nil, err
	}
	for a := range builtin {
		for b, fn := range builtin[a] {
			t.funcs[a*width+b] = fn
		}
	}

	for _, r := range regs {
		for _, h := range r.Handlers {
			if err := t.Register(r.Type, h.Other, h.Func); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

// Width returns the number of shape types the table covers.
func (t *Table) Width() int {
	return t.width
}

// Register sets the handler for shapes of type a meeting shapes of type b.
// A nil fn clears the entry.
func (t *Table) Register(a, b shape.Type, fn Func) error {
	i, ok := t.index(a, b)
	if !ok {
		return fmt.Errorf("%w: (%v, %v) in table of width %d", ErrTypeOutOfRange, a, b, t.width)
	}
	t.funcs[i] = fn
	return nil
}

// Lookup returns the handler for (a, b), or nil if the pair does not interact.
func (t *Table) Lookup(a, b shape.Type) Func {
	i, ok := t.index(a, b)
	if !ok {
		return nil
	}
	return t.funcs[i]
}

// Dispatch invokes the handler registered for the two shapes' types and
// reports whether one ran.
func (t *Table) Dispatch(c *Collector, a *shape.Shape, ta *geom.Mat4x3, sa geom.Vec3, b *shape.Shape, tb *geom.Mat4x3, sb geom.Vec3) bool {
	fn := t.Lookup(a.Type, b.Type)
	if fn == nil {
		return false
	}
	fn(c, a, ta, sa, b, tb, sb)
	return true
}

func checkType(typ shape.Type) error {
	if uint64(typ) >= MaxShapeTypes {
		return fmt.Errorf("%w: type %v exceeds %d", ErrTypeOutOfRange, typ, MaxShapeTypes-1)
	}
	return nil
}

func (t *Table) index(a, b shape.Type) (int, bool) {
	if int(a) >= t.width || int(b) >= t.width {
		return 0, false
	}
	return int(a)*t.width + int(b), true
}
