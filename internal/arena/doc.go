// Package arena provides a block-based bump allocator with temporary scopes.
//
// # Memory Management
//
// Arena obtains blocks (1 MiB default) from a backing mem.Allocator and hands
// out aligned sub-slices by bumping a per-block cursor. Nothing is freed
// individually: blocks live until Release. A TempScope checkpoints the
// allocation cursor and rolls it back on End, so per-tick scratch memory is
// reused tick after tick without touching the backing allocator.
//
// # Concurrency Model
//
// Arena is not safe for concurrent use. A simulation context owns its arenas
// and drives them from a single goroutine.
package arena
