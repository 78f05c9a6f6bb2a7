package physim

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/bits"
	"time"
	"unsafe"

	"github.com/hupe1980/physim/collision"
	"github.com/hupe1980/physim/internal/array"
	"github.com/hupe1980/physim/internal/hashset"
	"github.com/hupe1980/physim/internal/mem"
)

// bodyPair is a canonical candidate pair: A < B.
type bodyPair struct {
	A BodyID
	B BodyID
}

const pairSize = int(unsafe.Sizeof(bodyPair{}))

func makePair(a, b BodyID) bodyPair {
	if b < a {
		a, b = b, a
	}
	return bodyPair{A: a, B: b}
}

func (p *bodyPair) put(key []byte) {
	binary.NativeEndian.PutUint64(key[0:], uint64(p.A))
	binary.NativeEndian.PutUint64(key[8:], uint64(p.B))
}

// hashU64 is a two-round xor-shift-multiply finalizer.
func hashU64(x uint64) uint32 {
	x ^= x >> 32
	x *= 0xd6e8feb86659fd93
	x ^= x >> 32
	x *= 0xd6e8feb86659fd93
	x ^= x >> 32
	return uint32(x) //nolint:gosec // truncation intended
}

func hashPairKey(key []byte) uint32 {
	a := binary.NativeEndian.Uint64(key[0:])
	b := binary.NativeEndian.Uint64(key[8:])
	return hashU64(a ^ bits.RotateLeft64(b, 32))
}

func equalPairKey(x, y []byte) bool {
	return binary.NativeEndian.Uint64(x[0:]) == binary.NativeEndian.Uint64(y[0:]) &&
		binary.NativeEndian.Uint64(x[8:]) == binary.NativeEndian.Uint64(y[8:])
}

// Update runs one simulation tick: it collects every distinct pair of enabled
// bodies and routes each pair to the collision handler registered for the two
// shape types. All scratch memory comes from the temp arena and is released
// before Update returns, whether the tick succeeded or not.
//
// An allocation failure aborts the tick with an error wrapping
// ErrOutOfMemory; the Sim stays usable. ctx is checked once before the
// tick starts. A nil ctx is treated as context.Background().
func (s *Sim) Update(ctx context.Context, dt float32) (err error) {
	if s.closed {
		return ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	stats := UpdateStats{Bodies: s.bodies.Len()}

	scope := s.temp.BeginTemp()
	defer func() {
		if endErr := scope.End(); endErr != nil && err == nil {
			err = fmt.Errorf("physim: close temp scope: %w", endErr)
		}
		s.last = stats
		s.metrics.RecordUpdate(time.Since(start), stats, err)
		s.logger.LogUpdate(ctx, stats, err)
	}()

	err = s.step(dt, &stats)
	stats.TempBytes = s.temp.Stats().BytesUsed

	return err
}

func (s *Sim) step(_ float32, stats *UpdateStats) error {
	pairs, err := s.collectPairs(s.temp)
	if err != nil {
		return fmt.Errorf("physim: broadphase: %w", err)
	}
	stats.Pairs = len(pairs)

	collector, err := collision.NewCollector(s.temp)
	if err != nil {
		return fmt.Errorf("physim: dispatch: %w", err)
	}

	for i := range pairs {
		a, okA := s.bodies.Get(pairs[i].A.handle())
		b, okB := s.bodies.Get(pairs[i].B.handle())
		if !okA || !okB {
			continue
		}

		ta, tb := a.WorldMatrix(), b.WorldMatrix()
		collector.Bind(uint64(a.ID), uint64(b.ID))
		if s.table.Dispatch(collector, &a.Shape, &ta, a.Scale, &b.Shape, &tb, b.Scale) {
			stats.Dispatched++
		}
		if err := collector.Err(); err != nil {
			stats.Contacts = collector.Len()
			return fmt.Errorf("physim: dispatch: %w", err)
		}

		if s.listener != nil {
			for c := range collector.Pair() {
				s.listener(c)
			}
		}
	}
	stats.Contacts = collector.Len()

	return nil
}

// collectPairs returns every distinct pair of enabled, non-ignored bodies in
// first-seen order. The result lives in alloc.
func (s *Sim) collectPairs(alloc mem.Allocator) ([]bodyPair, error) {
	list, err := array.New(alloc, pairSize)
	if err != nil {
		return nil, err
	}
	seen, err := hashset.New(pairSize, hashPairKey, equalPairKey, alloc)
	if err != nil {
		return nil, err
	}

	key, err := alloc.Allocate(pairSize)
	if err != nil {
		return nil, err
	}
	for ha, a := range s.bodies.All() {
		ia := ha.Index()
		if s.disabled.Contains(ia) {
			continue
		}
		for hb, b := range s.bodies.All() {
			if ha == hb {
				continue
			}
			ib := hb.Index()
			if s.disabled.Contains(ib) || s.ignoring(ia, ib) {
				continue
			}

			p := makePair(a.ID, b.ID)
			p.put(key)

			added, err := seen.Insert(key)
			if err != nil {
				return nil, err
			}
			if added {
				if err := list.Push(key); err != nil {
					return nil, err
				}
			}
		}
	}

	return array.View[bodyPair](list)
}
