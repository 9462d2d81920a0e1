package assignment

import (
	"context"
	"strings"
	"sync"
	"time"

	"AMProject/module/assignment/model"
	"AMProject/module/notify"
	"AMProject/service/realtime"
	"AMProject/service/reconcile"
	"AMProject/tools/errs"
	"AMProject/tools/safe"
)

// ListView is the live assignments list: seeded by fetch, kept current by
// assignmentCreated/assignmentUpdated upserts, refetched wholesale on
// refreshAssignments, with per-assignment unread counts fed by
// assignmentUnreadUpdated. Newest first.
type ListView struct {
	svc    *Service
	store  *reconcile.Store[model.Assignment]
	unread *notify.CounterSet
	life   *reconcile.Lifetime
	scope  *realtime.Scope
	banner *reconcile.Banner

	mu      sync.Mutex
	search  string
	status  string
	loading bool
}

func NewListView(svc *Service, router *realtime.Router, bannerTTL time.Duration) *ListView {
	return &ListView{
		svc:    svc,
		store:  reconcile.NewStore[model.Assignment](reconcile.NewestFirst),
		unread: notify.NewCounterSet(),
		life:   reconcile.NewLifetime(),
		scope:  router.NewScope(),
		banner: reconcile.NewBanner(bannerTTL),
	}
}

// Open registers push handlers and loads the initial snapshot. Handlers are
// live from here until Close; an event landing while the fetch is still in
// flight is simply overwritten by the seed, and the next event for the same
// id reconverges — identity is by id, so nothing duplicates.
func (v *ListView) Open(ctx context.Context) error {
	v.scope.On(realtime.KindAssignmentCreated, func(ev realtime.Event) {
		e := ev.(realtime.AssignmentCreated)
		v.store.ApplyUpsert(e.Assignment)
	})
	v.scope.On(realtime.KindAssignmentUpdated, func(ev realtime.Event) {
		e := ev.(realtime.AssignmentUpdated)
		v.store.ApplyUpsert(e.Assignment)
	})
	v.scope.On(realtime.KindRefreshAssignments, func(realtime.Event) {
		v.refreshAsync()
	})
	v.scope.On(realtime.KindAssignmentUnreadUpdated, func(ev realtime.Event) {
		e := ev.(realtime.AssignmentUnreadUpdated)
		v.unread.Apply(e.Update.AssignmentID, e.Update.Unread)
	})
	v.scope.On(realtime.KindReconnected, func(realtime.Event) {
		// events may have been missed while the channel was down
		v.refreshAsync()
	})

	v.store.SetFilter(v.admission())
	return v.fetch(ctx)
}

// SetFilter installs a new filter context and refetches; the seed replaces
// the store wholesale.
func (v *ListView) SetFilter(ctx context.Context, search, status string) error {
	v.mu.Lock()
	v.search = search
	v.status = status
	v.mu.Unlock()

	v.store.SetFilter(v.admission())
	return v.fetch(ctx)
}

// admission mirrors the fetch parameters: a pushed entity joins the view
// only if the active filter would have fetched it.
func (v *ListView) admission() reconcile.Filter[model.Assignment] {
	return func(a model.Assignment) bool {
		v.mu.Lock()
		search, status := v.search, v.status
		v.mu.Unlock()

		if status != "" && a.Status != status {
			return false
		}
		if search == "" {
			return true
		}
		needle := strings.ToLower(search)
		return strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Subject), needle) ||
			strings.Contains(strings.ToLower(a.CustomerName), needle)
	}
}

func (v *ListView) fetch(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	search, status := v.search, v.status
	v.mu.Unlock()

	items, err := v.svc.List(ctx, search, status)

	v.mu.Lock()
	v.loading = false
	v.mu.Unlock()

	if err != nil {
		v.banner.Set(errs.UserMessage(err))
		return err
	}
	v.life.Do(func() { v.store.Seed(items) })
	return nil
}

// refreshAsync is the push-triggered refetch. The resolved snapshot is
// discarded when the view closed in the meantime.
func (v *ListView) refreshAsync() {
	if !v.life.Alive() {
		return
	}
	v.mu.Lock()
	v.loading = true
	search, status := v.search, v.status
	v.mu.Unlock()

	safe.SafeGo(func() {
		items, err := v.svc.List(context.Background(), search, status)
		v.life.Do(func() {
			v.mu.Lock()
			v.loading = false
			v.mu.Unlock()
			if err != nil {
				v.banner.Set(errs.UserMessage(err))
				return
			}
			v.store.Seed(items)
		})
	})
}

func (v *ListView) Items() []model.Assignment {
	return v.store.CurrentView()
}

func (v *ListView) Unread(assignmentID string) int {
	return v.unread.Get(assignmentID)
}

func (v *ListView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *ListView) Banner() string { return v.banner.Message() }

// Close deregisters every handler and seals the view against late fetches.
func (v *ListView) Close() {
	v.scope.Close()
	v.life.Close()
	v.banner.Clear()
}
