// Package mem defines the allocator capability every physim container is
// built on, plus the stock implementations.
//
// # Allocator
//
// An Allocator hands out byte slices and takes them back:
//
//	buf, err := a.Allocate(4096)
//	if err != nil {
//	    // errors.Is(err, mem.ErrOutOfMemory)
//	}
//	defer a.Free(buf)
//
// Allocators never panic on exhaustion. Failure is always reported as an error
// wrapping ErrOutOfMemory so callers can abort the operation in progress and
// keep their own state consistent.
//
// # Implementations
//
//   - Heap: Go heap backed, the default fallback.
//   - Mmap: anonymous off-heap mappings (unix and windows), heap elsewhere.
//   - Budgeted: charges every allocation against a Budget (see internal/resource).
//   - Counting: tracks live bytes and allocation counts of a base allocator.
//   - Funcs: adapts a pair of plain functions, mirroring C-style allocator hooks.
//
// Memory handed out by an Allocator must only hold pointer-free data. The Go
// garbage collector does not scan off-heap mappings, and containers in this
// module reinterpret the bytes as fixed-size records.
package mem
