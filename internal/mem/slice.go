package mem

import (
	"fmt"
	"unsafe"
)

// AllocSlice allocates n records of T from a and reinterprets the bytes.
// T must be pointer-free. Returns nil for n <= 0.
func AllocSlice[T any](a Allocator, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n), nil
	}
	buf, err := a.Allocate(elemSize * n)
	if err != nil {
		return nil, err
	}
	return Cast[T](buf, n)
}

// Cast reinterprets buf as n records of T. buf must hold at least
// n*sizeof(T) bytes and start on T's alignment.
func Cast[T any](buf []byte, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if len(buf) < elemSize*n {
		return nil, fmt.Errorf("mem: buffer of %d bytes too small for %d records of %d bytes", len(buf), n, elemSize)
	}
	ptr := unsafe.Pointer(unsafe.SliceData(buf)) //nolint:gosec // unsafe is required for record reinterpretation
	if uintptr(ptr)%unsafe.Alignof(zero) != 0 {
		return nil, fmt.Errorf("mem: buffer at %#x misaligned for %d-byte alignment", uintptr(ptr), unsafe.Alignof(zero))
	}
	return unsafe.Slice((*T)(ptr), n), nil //nolint:gosec // unsafe is required for record reinterpretation
}

// Bytes reinterprets a record slice as its underlying bytes, for handing
// memory from AllocSlice back to Allocator.Free.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	n := int(unsafe.Sizeof(zero)) * cap(s)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), n) //nolint:gosec // unsafe is required for record reinterpretation
}
