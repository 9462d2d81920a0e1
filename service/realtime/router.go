package realtime

import (
	"sync"
)

// Handler receives every emission of the kinds it registered for, exactly
// once per emission. Delivery order across handlers is unspecified.
type Handler func(Event)

// Subscription identifies one registration for Off.
type Subscription struct {
	kind Kind
	id   int64
}

// Router demultiplexes decoded events to the handlers of whatever views are
// currently mounted. Registrations live in the router, not the transport, so
// they survive reconnects untouched.
type Router struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[Kind]map[int64]Handler
}

func NewRouter() *Router {
	return &Router{subs: make(map[Kind]map[int64]Handler)}
}

func (r *Router) On(k Kind, h Handler) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m := r.subs[k]
	if m == nil {
		m = make(map[int64]Handler)
		r.subs[k] = m
	}
	m[r.nextID] = h
	return Subscription{kind: k, id: r.nextID}
}

func (r *Router) Off(sub Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.subs[sub.kind]; m != nil {
		delete(m, sub.id)
		if len(m) == 0 {
			delete(r.subs, sub.kind)
		}
	}
}

// Emit delivers ev to every current handler for its kind. The handler set is
// snapshotted under the lock and invoked outside it, so a handler may call
// On/Off without deadlocking; a handler removed mid-emission may still see
// this emission.
func (r *Router) Emit(ev Event) {
	r.mu.RLock()
	m := r.subs[ev.Kind()]
	hs := make([]Handler, 0, len(m))
	for _, h := range m {
		hs = append(hs, h)
	}
	r.mu.RUnlock()

	for _, h := range hs {
		h(ev)
	}
}

// Scope bundles the registrations of one mounted view so teardown cannot
// forget any of them. After Close, On is a no-op and every handler added
// through the scope is deregistered.
type Scope struct {
	r      *Router
	mu     sync.Mutex
	subs   []Subscription
	closed bool
}

func (r *Router) NewScope() *Scope {
	return &Scope{r: r}
}

func (s *Scope) On(k Kind, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.subs = append(s.subs, s.r.On(k, h))
}

func (s *Scope) Close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.closed = true
	s.mu.Unlock()

	for _, sub := range subs {
		s.r.Off(sub)
	}
}
