// Package queue provides the single-slot mailbox used for adapter event
// delivery.
package queue

import "sync"

// Slot is a latest-wins mailbox of depth one. A new value overwrites an
// unconsumed one, so a slow consumer only ever sees the most recent
// value, with the overwrite recorded as a drop.
type Slot[T any] struct {
	mu      sync.Mutex
	val     T
	full    bool
	dropped bool
	ready   chan struct{}
}

// NewSlot creates an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ready: make(chan struct{}, 1)}
}

// Put stores v, overwriting any unconsumed value, and reports whether an
// overwrite happened.
func (s *Slot[T]) Put(v T) bool {
	s.mu.Lock()
	overwrote := s.full
	if overwrote {
		s.dropped = true
	}
	s.val = v
	s.full = true
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return overwrote
}

// Take removes and returns the pending value. dropped reports whether at
// least one earlier value was overwritten since the last Take; ok is
// false when the slot is empty.
func (s *Slot[T]) Take() (v T, dropped, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.full {
		return v, false, false
	}
	v = s.val
	dropped = s.dropped
	var zero T
	s.val = zero
	s.full = false
	s.dropped = false
	return v, dropped, true
}

// IsEmpty reports whether no value is pending.
func (s *Slot[T]) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.full
}

// Ready returns a channel that receives a signal whenever a value is
// stored. The channel has capacity one; a consumer draining it must
// still call Take in a loop, since signals coalesce like values do.
func (s *Slot[T]) Ready() <-chan struct{} {
	return s.ready
}

// Reset discards any pending value and drop record.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	var zero T
	s.val = zero
	s.full = false
	s.dropped = false
	s.mu.Unlock()

	select {
	case <-s.ready:
	default:
	}
}
