//go:build windows

package mem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func mapAnon(size int) ([]byte, error) {
	// MEM_COMMIT is demand-paged, like an anonymous unix mapping.
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil //nolint:gosec // unsafe is required for off-heap memory
}

func unmapAnon(buf []byte) error {
	return windows.VirtualFree(uintptr(unsafe.Pointer(&buf[0])), 0, windows.MEM_RELEASE) //nolint:gosec // unsafe is required for off-heap memory
}
