package reconcile

import (
	"sync"
	"time"
)

// Banner holds one transient inline message scoped to a view or modal; it
// auto-clears after the configured delay. A zero TTL disables the timer
// (useful in tests asserting on the message).
type Banner struct {
	mu    sync.Mutex
	ttl   time.Duration
	msg   string
	timer *time.Timer
}

func NewBanner(ttl time.Duration) *Banner {
	return &Banner{ttl: ttl}
}

func (b *Banner) Set(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msg = msg
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if msg == "" || b.ttl <= 0 {
		return
	}
	b.timer = time.AfterFunc(b.ttl, func() { b.Clear() })
}

func (b *Banner) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msg = ""
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Banner) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.msg
}
