package reconcile

import (
	"sync"

	"AMProject/logger"
)

// Order is the documented display order of a collection.
type Order int

const (
	// NewestFirst prepends admitted inserts (activity feeds).
	NewestFirst Order = iota
	// Append appends admitted inserts (chronological transcripts).
	Append
)

// Entity is anything with a stable unique id.
type Entity interface {
	EntityID() string
}

// Filter is the admission predicate derived from the view's active filter
// context (search term, status, scope). nil admits everything.
type Filter[T Entity] func(T) bool

// Store merges a fetched snapshot with a stream of upsert/delete events into
// one ordered, id-deduplicated view model. It owns no network; callers feed
// it from the fetch and push paths and render CurrentView.
//
// Known limitation, kept from the observed behavior: an entry that stops
// matching the filter is evicted only when the next event for its id
// arrives, not proactively on filter evaluation.
type Store[T Entity] struct {
	mu     sync.RWMutex
	order  Order
	items  []T
	index  map[string]int
	filter Filter[T]
}

func NewStore[T Entity](order Order) *Store[T] {
	return &Store[T]{
		order: order,
		index: make(map[string]int),
	}
}

// SetFilter installs the admission predicate for subsequent events. The
// caller re-seeds right after changing the filter context, so no retroactive
// sweep of existing entries happens here.
func (s *Store[T]) SetFilter(f Filter[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Seed replaces the store wholesale with the fetched snapshot, in snapshot
// order. Duplicate ids in the snapshot keep the first occurrence.
func (s *Store[T]) Seed(snapshot []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.items[:0]
	s.index = make(map[string]int, len(snapshot))
	for _, e := range snapshot {
		id := e.EntityID()
		if id == "" {
			logger.Warnf("[reconcile] seed entry without id dropped")
			continue
		}
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = len(s.items)
		s.items = append(s.items, e)
	}
}

// ApplyUpsert merges one event. Existing ids are replaced in place, never
// moved; an update that leaves the admissible set evicts the entry; new
// admissible ids enter at the position the collection's order dictates;
// inadmissible new ids are discarded silently.
func (s *Store[T]) ApplyUpsert(e T) {
	id := e.EntityID()
	if id == "" {
		logger.Warnf("[reconcile] upsert without id dropped")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	admitted := s.filter == nil || s.filter(e)
	if pos, ok := s.index[id]; ok {
		if !admitted {
			s.removeAtLocked(pos)
			return
		}
		s.items[pos] = e
		return
	}
	if !admitted {
		return
	}
	if s.order == NewestFirst {
		s.items = append(s.items, e) // grow, then shift
		copy(s.items[1:], s.items[:len(s.items)-1])
		s.items[0] = e
		for k, v := range s.index {
			s.index[k] = v + 1
		}
		s.index[id] = 0
		return
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, e)
}

// ApplyDelete removes the entry if present; repeated deletes are no-ops.
func (s *Store[T]) ApplyDelete(id string) {
	if id == "" {
		logger.Warnf("[reconcile] delete without id dropped")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos, ok := s.index[id]; ok {
		s.removeAtLocked(pos)
	}
}

func (s *Store[T]) removeAtLocked(pos int) {
	delete(s.index, s.items[pos].EntityID())
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].EntityID()] = i
	}
}

// CurrentView returns a copy of the ordered view model.
func (s *Store[T]) CurrentView() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pos, ok := s.index[id]; ok {
		return s.items[pos], true
	}
	var zero T
	return zero, false
}
