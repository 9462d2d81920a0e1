package notify

import (
	"context"
	"sync"

	"AMProject/module/notify/model"
	"AMProject/service/reconcile"
	"AMProject/tools/errs"
)

// CounterSet holds per-parent-entity unread counters (assignment threads,
// conversations). Counts are authoritative server values applied
// last-write-wins by arrival order; there is no local increment arithmetic,
// so a count can never drift below zero or diverge from the server once the
// next event lands.
type CounterSet struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewCounterSet() *CounterSet {
	return &CounterSet{counts: make(map[string]int)}
}

// Apply sets the counter to the server-supplied value. Negative values are
// clamped to zero.
func (c *CounterSet) Apply(parentID string, count int) {
	if parentID == "" {
		return
	}
	if count < 0 {
		count = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if count == 0 {
		delete(c.counts, parentID)
		return
	}
	c.counts[parentID] = count
}

// Seed converges all counters to a fetched snapshot.
func (c *CounterSet) Seed(counts map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int, len(counts))
	for id, n := range counts {
		if id != "" && n > 0 {
			c.counts[id] = n
		}
	}
}

func (c *CounterSet) Get(parentID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[parentID]
}

func (c *CounterSet) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t := 0
	for _, n := range c.counts {
		t += n
	}
	return t
}

// ReadMarker is the network confirmation behind MarkRead.
type ReadMarker interface {
	MarkRead(ctx context.Context, id string) error
}

// Aggregator maintains the global notification feed and the counters. The
// two are independent projections of the same underlying activity: a feed
// update without a matching counter update is legal, never conflated.
type Aggregator struct {
	feed     *reconcile.Store[model.Notification]
	counters *CounterSet
	marker   ReadMarker
}

func NewAggregator(marker ReadMarker) *Aggregator {
	return &Aggregator{
		feed:     reconcile.NewStore[model.Notification](reconcile.NewestFirst),
		counters: NewCounterSet(),
		marker:   marker,
	}
}

func (a *Aggregator) Counters() *CounterSet { return a.counters }

// SeedFeed converges the feed to a fetched snapshot.
func (a *Aggregator) SeedFeed(items []model.Notification) {
	a.feed.Seed(items)
}

// ApplyNewItemEvent prepends a pushed notification to the feed. It touches
// no counter; count events travel separately.
func (a *Aggregator) ApplyNewItemEvent(n model.Notification) {
	a.feed.ApplyUpsert(n)
}

// ApplyCountEvent records the server's authoritative count for one parent.
func (a *Aggregator) ApplyCountEvent(parentID string, count int) {
	a.counters.Apply(parentID, count)
}

func (a *Aggregator) Feed() []model.Notification {
	return a.feed.CurrentView()
}

func (a *Aggregator) UnreadInFeed() int {
	n := 0
	for _, item := range a.feed.CurrentView() {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkRead is the explicit two-phase optimistic mutation: stage the local
// read flag, confirm over the network, revert on failure. The error is
// returned to the caller either way so the view can surface it inline.
func (a *Aggregator) MarkRead(ctx context.Context, id string) error {
	prev, staged := a.stageRead(id)
	if !staged {
		return errs.NewCodeError(errs.CodeValidation, "unknown notification").WithDetail(id)
	}
	if err := a.marker.MarkRead(ctx, id); err != nil {
		a.revertRead(prev)
		return err
	}
	return nil
}

// stageRead applies the tentative read=true and returns the prior entry for
// a possible revert.
func (a *Aggregator) stageRead(id string) (model.Notification, bool) {
	prev, ok := a.feed.Get(id)
	if !ok {
		return model.Notification{}, false
	}
	next := prev
	next.Read = true
	a.feed.ApplyUpsert(next)
	return prev, true
}

func (a *Aggregator) revertRead(prev model.Notification) {
	a.feed.ApplyUpsert(prev)
}
