package physim

import (
	"context"
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/physim/collision"
	"github.com/hupe1980/physim/internal/arena"
	"github.com/hupe1980/physim/internal/mem"
	"github.com/hupe1980/physim/internal/pool"
	"github.com/hupe1980/physim/internal/resource"
)

// ArenaStats reports the memory held by one of the Sim's arenas.
type ArenaStats = arena.Stats

// UpdateStats describes the work done by one Update call.
type UpdateStats struct {
	Bodies     int    // live bodies at the start of the tick
	Pairs      int    // distinct candidate pairs after filtering
	Dispatched int    // pairs that reached a collision handler
	Contacts   int    // contacts reported by handlers
	TempBytes  uint64 // temp arena bytes in use just before the scope closed
}

// Sim is a simulation context. It owns the allocator chain, a persistent
// arena, a temp arena reset every tick, the collision dispatch table and the
// body pool.
//
// A Sim is not safe for concurrent use.
type Sim struct {
	alloc      mem.Allocator
	counting   *mem.Counting
	controller *resource.Controller

	arena *arena.Arena
	temp  *arena.Arena

	table  *collision.Table
	bodies *pool.Pool[Body]

	disabled *roaring.Bitmap            // slot indexes skipped by the broadphase
	ignored  map[uint32]*roaring.Bitmap // slot index -> partner slot indexes

	listener func(Contact)
	metrics  MetricsCollector
	logger   *Logger

	last   UpdateStats
	closed bool
}

// New creates a simulation context.
func New(optFns ...Option) (*Sim, error) {
	opts := applyOptions(optFns)

	base := opts.allocator
	if !usable(base) {
		if opts.noFallback {
			return nil, ErrInvalidAllocator
		}
		base = mem.Heap{}
	}

	s := &Sim{
		disabled: roaring.New(),
		ignored:  make(map[uint32]*roaring.Bitmap),
		listener: opts.contactListener,
		metrics:  opts.metricsCollector,
		logger:   opts.logger,
	}

	if opts.memoryLimit > 0 || opts.tickRate > 0 {
		s.controller = resource.NewController(resource.Config{
			MemoryLimitBytes: opts.memoryLimit,
			TickRate:         opts.tickRate,
		})
	}

	s.counting = mem.NewCounting(base)
	s.alloc = s.counting
	if opts.memoryLimit > 0 {
		s.alloc = mem.NewBudgeted(s.counting, s.controller)
	}

	var arenaOpts []arena.Option
	if opts.blockSize > 0 {
		arenaOpts = append(arenaOpts, arena.WithBlockSize(opts.blockSize))
	}

	var err error
	if s.table, err = collision.NewDefaultTable(opts.registrations); err != nil {
		return nil, fmt.Errorf("physim: %w", err)
	}

	if s.arena, err = arena.New(s.alloc, arenaOpts...); err != nil {
		return nil, fmt.Errorf("physim: arena: %w", err)
	}
	if s.temp, err = arena.New(s.alloc, arenaOpts...); err != nil {
		s.arena.Release()
		return nil, fmt.Errorf("physim: temp arena: %w", err)
	}

	poolOpts := []pool.Option{}
	if opts.bodyCapacity > 0 {
		poolOpts = append(poolOpts, pool.WithInitialCapacity(opts.bodyCapacity))
	}
	if opts.memoryLimit > 0 {
		poolOpts = append(poolOpts, pool.WithMemoryBudget(s.controller))
	}
	s.bodies = pool.New[Body](poolOpts...)

	return s, nil
}

// Close releases every arena block and all body storage.
// Further calls on the Sim return ErrClosed. Closing twice is a no-op.
func (s *Sim) Close() error {
	if s == nil || s.closed {
		return nil
	}

	s.logger.LogClose(context.Background(), s.bodies.Len(), s.arena.Stats(), s.temp.Stats())

	s.bodies.Release()
	s.temp.Release()
	s.arena.Release()
	s.disabled.Clear()
	clear(s.ignored)
	s.closed = true

	return nil
}

// CreateBody adds a body and returns its id.
func (s *Sim) CreateBody(info BodyInfo) (id BodyID, err error) {
	defer func() {
		s.metrics.RecordCreateBody(err)
		s.logger.LogCreateBody(context.Background(), id, &info, err)
	}()

	if s.closed {
		return 0, ErrClosed
	}
	if verr := info.Shape.Validate(); verr != nil {
		return 0, &ErrInvalidShape{Type: info.Shape.Type, cause: verr}
	}

	h, body, err := s.bodies.Allocate()
	if err != nil {
		return 0, fmt.Errorf("physim: create body: %w", err)
	}

	id = BodyID(h)
	*body = Body{
		ID:        id,
		Transform: info.transform(),
		Scale:     info.scale(),
		Shape:     info.Shape,
		UserData:  info.UserData,
	}

	return id, nil
}

// DeleteBody removes a body. It reports false if id is stale or unknown.
// Pair filters and the disabled flag of the body are cleared.
func (s *Sim) DeleteBody(id BodyID) bool {
	if s.closed {
		return false
	}

	found := s.bodies.Free(id.handle())
	if found {
		s.forgetFilters(id.Index())
	}

	s.metrics.RecordDeleteBody(found)
	s.logger.LogDeleteBody(context.Background(), id, found)

	return found
}

// Body returns the body for id. The pointer stays valid until the next
// CreateBody, which may grow body storage.
func (s *Sim) Body(id BodyID) (*Body, bool) {
	if s.closed {
		return nil, false
	}
	return s.bodies.Get(id.handle())
}

// BodyCount returns the number of live bodies.
func (s *Sim) BodyCount() int {
	if s.closed {
		return 0
	}
	return s.bodies.Len()
}

// Bodies iterates live bodies in slot order.
// Creating or deleting bodies during iteration is not supported.
func (s *Sim) Bodies() iter.Seq2[BodyID, *Body] {
	return func(yield func(BodyID, *Body) bool) {
		if s.closed {
			return
		}
		for h, b := range s.bodies.All() {
			if !yield(BodyID(h), b) {
				return
			}
		}
	}
}

// Allocator returns the Sim's persistent arena as an Allocator. Memory from
// it lives until Close; use it for pointer-free shape data such as hull or
// mesh vertices.
func (s *Sim) Allocator() Allocator {
	return s.arena
}

// ArenaStats returns the persistent arena's statistics.
func (s *Sim) ArenaStats() ArenaStats {
	return s.arena.Stats()
}

// TempArenaStats returns the temp arena's statistics.
func (s *Sim) TempArenaStats() ArenaStats {
	return s.temp.Stats()
}

// MemoryInUse returns the bytes currently drawn from the allocator.
// It may be called from another goroutine while the Sim is ticking.
func (s *Sim) MemoryInUse() int64 {
	return s.counting.Stats().LiveBytes
}

// MemoryStats describes the Sim's memory accounting.
type MemoryStats struct {
	InUse    int64 // bytes currently drawn from the allocator
	Allocs   int64 // allocator calls that succeeded
	Frees    int64
	Failures int64 // allocator calls that failed, budget refusals included
	Budgeted int64 // bytes charged against the memory limit
	Peak     int64 // highest Budgeted value seen
	Limit    int64 // configured memory limit; 0 means unlimited
}

// MemoryStats returns the Sim's memory accounting. Budgeted, Peak and Limit
// are zero unless WithMemoryLimit was set. Like MemoryInUse it may be called
// from another goroutine.
func (s *Sim) MemoryStats() MemoryStats {
	st := s.counting.Stats()
	return MemoryStats{
		InUse:    st.LiveBytes,
		Allocs:   st.Allocs,
		Frees:    st.Frees,
		Failures: st.Failures,
		Budgeted: s.controller.MemoryUsage(),
		Peak:     s.controller.MemoryPeak(),
		Limit:    s.controller.MemoryLimit(),
	}
}

// LastUpdate returns the statistics of the most recent Update.
func (s *Sim) LastUpdate() UpdateStats {
	return s.last
}

// CollisionTable returns the Sim's dispatch table. Handlers may be registered
// or replaced between ticks.
func (s *Sim) CollisionTable() *collision.Table {
	return s.table
}
