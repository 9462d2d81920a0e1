package submission

import (
	"context"
	"time"

	"AMProject/module/submission/model"
	"AMProject/service/realtime"
	"AMProject/service/reconcile"
	"AMProject/tools/errs"
	"AMProject/tools/safe"
)

// FeedView is the admin intake queue: only status-New entries, newest
// first. The server pushes no per-entity deltas for this feed, just
// refreshNewSubmissions; the filter still guards the store so a stale or
// replayed snapshot row that already left New never renders.
type FeedView struct {
	svc    *Service
	store  *reconcile.Store[model.Submission]
	life   *reconcile.Lifetime
	scope  *realtime.Scope
	banner *reconcile.Banner
}

func NewFeedView(svc *Service, router *realtime.Router, bannerTTL time.Duration) *FeedView {
	store := reconcile.NewStore[model.Submission](reconcile.NewestFirst)
	store.SetFilter(func(s model.Submission) bool { return s.Status == "New" })
	return &FeedView{
		svc:    svc,
		store:  store,
		life:   reconcile.NewLifetime(),
		scope:  router.NewScope(),
		banner: reconcile.NewBanner(bannerTTL),
	}
}

func (v *FeedView) Open(ctx context.Context) error {
	v.scope.On(realtime.KindRefreshNewSubmissions, func(realtime.Event) {
		v.refreshAsync()
	})
	v.scope.On(realtime.KindReconnected, func(realtime.Event) {
		v.refreshAsync()
	})
	return v.fetch(ctx)
}

func (v *FeedView) fetch(ctx context.Context) error {
	items, err := v.svc.Recent(ctx)
	if err != nil {
		v.banner.Set(errs.UserMessage(err))
		return err
	}
	v.life.Do(func() { v.store.Seed(items) })
	return nil
}

func (v *FeedView) refreshAsync() {
	if !v.life.Alive() {
		return
	}
	safe.SafeGo(func() {
		items, err := v.svc.Recent(context.Background())
		v.life.Do(func() {
			if err != nil {
				v.banner.Set(errs.UserMessage(err))
				return
			}
			v.store.Seed(items)
		})
	})
}

func (v *FeedView) Items() []model.Submission {
	return v.store.CurrentView()
}

func (v *FeedView) Banner() string { return v.banner.Message() }

func (v *FeedView) Close() {
	v.scope.Close()
	v.life.Close()
	v.banner.Clear()
}
