// Package tracker provides scoped registration tables that leaf components
// write to during the layout pass and overlays read from.
//
// Writes are synchronous and immediately visible through Read. Only the
// notification of subscribers is debounced, so a burst of registrations
// (a large form mounting) produces a single publish.
package tracker

import (
	"sync"
	"time"
)

// DefaultDebounce is the trailing-edge publish window.
const DefaultDebounce = 10 * time.Millisecond

// Entry is one registered id and its value.
type Entry[V any] struct {
	ID    string
	Value V
}

// Snapshot is an immutable point-in-time copy of a table, ordered by first
// registration. Generation increases with every write to the table, so two
// snapshots with the same Generation hold the same entries.
type Snapshot[V any] struct {
	Entries    []Entry[V]
	Generation uint64
}

// Len returns the number of entries.
func (s Snapshot[V]) Len() int { return len(s.Entries) }

// Get returns the value registered under id.
func (s Snapshot[V]) Get(id string) (V, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// Store is a single-writer table with a debounced publish.
type Store[V any] struct {
	mu         sync.Mutex
	order      []string
	values     map[string]V
	generation uint64
	debounce   time.Duration
	timer      *time.Timer
	listeners  map[int]func(Snapshot[V])
	nextSub    int
	closed     bool
}

// NewStore creates an empty store publishing after the given window.
func NewStore[V any](debounce time.Duration) *Store[V] {
	if debounce < 0 {
		debounce = 0
	}
	return &Store[V]{
		values:    make(map[string]V),
		debounce:  debounce,
		listeners: make(map[int]func(Snapshot[V])),
	}
}

// Add inserts id. Adding an id that is already present does nothing.
func (s *Store[V]) Add(id string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, exists := s.values[id]; exists {
		return
	}
	s.values[id] = value
	s.order = append(s.order, id)
	s.changedLocked()
}

// Update overwrites the value of id, keeping its position. Unknown ids are ignored.
func (s *Store[V]) Update(id string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, exists := s.values[id]; !exists {
		return
	}
	s.values[id] = value
	s.changedLocked()
}

// Remove deletes id. Unknown ids are ignored.
func (s *Store[V]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, exists := s.values[id]; !exists {
		return
	}
	delete(s.values, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.changedLocked()
}

// Read returns the current table. It is never debounced.
func (s *Store[V]) Read() Snapshot[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *Store[V]) readLocked() Snapshot[V] {
	entries := make([]Entry[V], 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, Entry[V]{ID: id, Value: s.values[id]})
	}
	return Snapshot[V]{Entries: entries, Generation: s.generation}
}

// Subscribe registers fn to receive every debounced publish.
// The returned func removes the subscription.
func (s *Store[V]) Subscribe(fn func(Snapshot[V])) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || fn == nil {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close stops any pending publish and drops all subscribers.
func (s *Store[V]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.listeners = nil
	s.values = map[string]V{}
	s.order = nil
}

// changedLocked records a write and (re)arms the publish timer.
func (s *Store[V]) changedLocked() {
	s.generation++
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.publish)
		return
	}
	s.timer.Reset(s.debounce)
}

func (s *Store[V]) publish() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap := s.readLocked()
	listeners := make([]func(Snapshot[V]), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	// Listeners run unlocked so they may Read or write back.
	for _, fn := range listeners {
		fn(snap)
	}
}
