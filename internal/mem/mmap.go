package mem

import "fmt"

// Mmap allocates anonymous off-heap mappings. The pages are outside the Go
// heap, so large arenas add no GC scan work. Every Free must receive the exact
// slice returned by Allocate.
type Mmap struct{}

// Allocate implements Allocator.
func (Mmap) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrOutOfMemory, size)
	}
	if size == 0 {
		return []byte{}, nil
	}
	buf, err := mapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("%w: map %d bytes: %w", ErrOutOfMemory, size, err)
	}
	return buf, nil
}

// Free implements Allocator.
func (Mmap) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_ = unmapAnon(buf)
}
