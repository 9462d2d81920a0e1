package reconcile

import "sync"

// Lifetime is the mount-liveness flag of one view. Every state mutation
// that follows an asynchronous call goes through Do, so a fetch resolving
// after the view closed mutates nothing.
type Lifetime struct {
	mu     sync.Mutex
	closed bool
}

func NewLifetime() *Lifetime {
	return &Lifetime{}
}

func (l *Lifetime) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed
}

// Do runs f only while the lifetime is still open and reports whether it
// ran. Close blocks until an in-flight Do returns, so after Close there is
// no concurrently running f.
func (l *Lifetime) Do(f func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	f()
	return true
}

func (l *Lifetime) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}
