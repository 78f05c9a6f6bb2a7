package arena

// TempScope is a checkpoint of an arena's allocation cursor.
//
// Scopes nest like a stack: only the innermost open scope may be ended.
// Bytes pushed after BeginTemp are handed out again after End, so no slice
// obtained inside the scope may be used once End returns.
type TempScope struct {
	arena *Arena
	block *block
	at    int
	id    uint64
	ended bool
}

// BeginTemp opens a temp scope at the arena's current position.
func (a *Arena) BeginTemp() *TempScope {
	a.nextScope++
	s := &TempScope{
		arena: a,
		block: a.current,
		id:    a.nextScope,
	}
	if a.current != nil {
		s.at = a.current.at
	}
	a.scopes = append(a.scopes, s.id)
	return s
}

// End rolls the arena back to the position recorded by BeginTemp.
// Every block from the recorded block onward is reset, then the recorded
// cursor is restored. Ending a scope twice is a no-op.
func (s *TempScope) End() error {
	if s.ended {
		return nil
	}
	a := s.arena
	if a.released {
		s.ended = true
		return ErrReleased
	}
	if n := len(a.scopes); n == 0 || a.scopes[n-1] != s.id {
		return ErrScopeOrder
	}

	start := s.block
	if start == nil {
		start = a.first
	}
	for b := start; b != nil; b = b.next {
		b.at = 0
	}

	if s.block != nil {
		a.current = s.block
		a.current.at = s.at
	} else {
		a.current = a.first
	}

	a.scopes = a.scopes[:len(a.scopes)-1]
	s.ended = true
	return nil
}

// Arena returns the arena the scope belongs to.
func (s *TempScope) Arena() *Arena {
	return s.arena
}
