package notify

import (
	"context"
	"time"

	"AMProject/service/realtime"
	"AMProject/service/reconcile"
	"AMProject/tools/errs"
	"AMProject/tools/safe"
)

// Bell is the notification-bell view: the aggregator wired to the push
// channel plus the fetch path. One Bell is open per session.
type Bell struct {
	svc    *Service
	agg    *Aggregator
	userID string

	life   *reconcile.Lifetime
	scope  *realtime.Scope
	banner *reconcile.Banner
}

func NewBell(svc *Service, router *realtime.Router, userID string, bannerTTL time.Duration) *Bell {
	return &Bell{
		svc:    svc,
		agg:    NewAggregator(svc),
		userID: userID,
		life:   reconcile.NewLifetime(),
		scope:  router.NewScope(),
		banner: reconcile.NewBanner(bannerTTL),
	}
}

func (b *Bell) Aggregator() *Aggregator { return b.agg }

// Open registers the push handlers and loads the initial feed.
func (b *Bell) Open(ctx context.Context) error {
	b.scope.On(realtime.KindNewNotification, func(ev realtime.Event) {
		e := ev.(realtime.NewNotification)
		b.agg.ApplyNewItemEvent(e.Notification)
	})
	b.scope.On(realtime.KindReconnected, func(realtime.Event) {
		b.refreshAsync()
	})
	return b.fetch(ctx)
}

func (b *Bell) fetch(ctx context.Context) error {
	items, err := b.svc.List(ctx, b.userID)
	if err != nil {
		b.banner.Set(errs.UserMessage(err))
		return err
	}
	b.life.Do(func() { b.agg.SeedFeed(items) })
	return nil
}

func (b *Bell) refreshAsync() {
	if !b.life.Alive() {
		return
	}
	safe.SafeGo(func() {
		items, err := b.svc.List(context.Background(), b.userID)
		b.life.Do(func() {
			if err != nil {
				b.banner.Set(errs.UserMessage(err))
				return
			}
			b.agg.SeedFeed(items)
		})
	})
}

// MarkRead stages, confirms, reverts on failure; the failure lands in the
// banner as well as the returned error.
func (b *Bell) MarkRead(ctx context.Context, id string) error {
	if err := b.agg.MarkRead(ctx, id); err != nil {
		b.banner.Set(errs.UserMessage(err))
		return err
	}
	return nil
}

func (b *Bell) Banner() string { return b.banner.Message() }

func (b *Bell) Close() {
	b.scope.Close()
	b.life.Close()
	b.banner.Clear()
}
