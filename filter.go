package physim

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// SetBodyEnabled includes or excludes a body from pair generation.
// Disabled bodies keep their state but meet no other body.
func (s *Sim) SetBodyEnabled(id BodyID, enabled bool) error {
	if s.closed {
		return ErrClosed
	}
	if !s.bodies.Valid(id.handle()) {
		return ErrBodyNotFound
	}
	if enabled {
		s.disabled.Remove(id.Index())
	} else {
		s.disabled.Add(id.Index())
	}
	return nil
}

// BodyEnabled reports whether a body takes part in pair generation.
func (s *Sim) BodyEnabled(id BodyID) bool {
	if s.closed || !s.bodies.Valid(id.handle()) {
		return false
	}
	return !s.disabled.Contains(id.Index())
}

// IgnorePair stops the broadphase from pairing a and b.
func (s *Sim) IgnorePair(a, b BodyID) error {
	if err := s.checkPair(a, b); err != nil {
		return err
	}
	s.partners(a.Index()).Add(b.Index())
	s.partners(b.Index()).Add(a.Index())
	return nil
}

// AllowPair undoes IgnorePair.
func (s *Sim) AllowPair(a, b BodyID) error {
	if err := s.checkPair(a, b); err != nil {
		return err
	}
	s.unlink(a.Index(), b.Index())
	s.unlink(b.Index(), a.Index())
	return nil
}

// PairIgnored reports whether IgnorePair is in effect for a and b.
func (s *Sim) PairIgnored(a, b BodyID) bool {
	if s.closed || !s.bodies.Valid(a.handle()) || !s.bodies.Valid(b.handle()) {
		return false
	}
	return s.ignoring(a.Index(), b.Index())
}

func (s *Sim) checkPair(a, b BodyID) error {
	if s.closed {
		return ErrClosed
	}
	if !s.bodies.Valid(a.handle()) || !s.bodies.Valid(b.handle()) {
		return ErrBodyNotFound
	}
	return nil
}

func (s *Sim) ignoring(a, b uint32) bool {
	set, ok := s.ignored[a]
	return ok && set.Contains(b)
}

func (s *Sim) partners(index uint32) *roaring.Bitmap {
	set, ok := s.ignored[index]
	if !ok {
		set = roaring.New()
		s.ignored[index] = set
	}
	return set
}

func (s *Sim) unlink(from, to uint32) {
	set, ok := s.ignored[from]
	if !ok {
		return
	}
	set.Remove(to)
	if set.IsEmpty() {
		delete(s.ignored, from)
	}
}

// forgetFilters drops every filter that names a slot being freed.
func (s *Sim) forgetFilters(index uint32) {
	s.disabled.Remove(index)

	set, ok := s.ignored[index]
	if !ok {
		return
	}
	it := set.Iterator()
	for it.HasNext() {
		if partner := it.Next(); partner != index {
			s.unlink(partner, index)
		}
	}
	delete(s.ignored, index)
}
