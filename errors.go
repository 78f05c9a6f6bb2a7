package physim

import (
	"errors"
	"fmt"

	"github.com/hupe1980/physim/internal/mem"
	"github.com/hupe1980/physim/shape"
)

var (
	// ErrClosed is returned when a Sim is used after Close.
	ErrClosed = errors.New("physim: simulation is closed")

	// ErrInvalidAllocator is returned by New when WithoutFallbackAllocator is set
	// and no usable allocator was supplied.
	ErrInvalidAllocator = errors.New("physim: no usable allocator and fallback disabled")

	// ErrBodyNotFound is returned when a body id is stale or was never issued.
	ErrBodyNotFound = errors.New("physim: body not found")

	// ErrOutOfMemory is wrapped by every error caused by an exhausted allocator or memory budget.
	ErrOutOfMemory = mem.ErrOutOfMemory
)

// ErrInvalidShape indicates a body was created with a malformed shape.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidShape struct {
	Type  shape.Type
	cause error
}

func (e *ErrInvalidShape) Error() string {
	return fmt.Sprintf("physim: invalid %v shape: %v", e.Type, e.cause)
}

func (e *ErrInvalidShape) Unwrap() error { return e.cause }
