//go:build threadsafe

package fsm

import "sync"

// SharedMut is the rwlock-backed variant of the interior-mutability cell,
// selected by the threadsafe build tag, for builds in which several
// goroutines share one FSM, as when several server connections each hold a
// cursor over one shared FSM (spec §5). registry and server compile with
// either variant; the tag is chosen at build time.
type SharedMut[T any] struct {
	mu sync.RWMutex
	v  T
}

func NewSharedMut[T any](v T) *SharedMut[T] {
	return &SharedMut[T]{v: v}
}

func (s *SharedMut[T]) Borrow() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

func (s *SharedMut[T]) BorrowMut(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = fn(s.v)
}

func (s *SharedMut[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
}
