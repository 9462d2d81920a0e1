package paysheet

import (
	"context"
	"time"

	"AMProject/module/paysheet/model"
	"AMProject/service/realtime"
	"AMProject/service/reconcile"
	"AMProject/tools/errs"
	"AMProject/tools/safe"
)

// ListView is the admin paysheets screen: snapshot order from the server,
// refetched on refreshPaysheets.
type ListView struct {
	svc    *Service
	store  *reconcile.Store[model.Paysheet]
	life   *reconcile.Lifetime
	scope  *realtime.Scope
	banner *reconcile.Banner
}

func NewListView(svc *Service, router *realtime.Router, bannerTTL time.Duration) *ListView {
	return &ListView{
		svc:    svc,
		store:  reconcile.NewStore[model.Paysheet](reconcile.Append),
		life:   reconcile.NewLifetime(),
		scope:  router.NewScope(),
		banner: reconcile.NewBanner(bannerTTL),
	}
}

func (v *ListView) Open(ctx context.Context) error {
	v.scope.On(realtime.KindRefreshPaysheets, func(realtime.Event) {
		v.refreshAsync()
	})
	v.scope.On(realtime.KindReconnected, func(realtime.Event) {
		v.refreshAsync()
	})
	return v.fetch(ctx)
}

func (v *ListView) fetch(ctx context.Context) error {
	items, err := v.svc.List(ctx)
	if err != nil {
		v.banner.Set(errs.UserMessage(err))
		return err
	}
	v.life.Do(func() { v.store.Seed(items) })
	return nil
}

func (v *ListView) refreshAsync() {
	if !v.life.Alive() {
		return
	}
	safe.SafeGo(func() {
		items, err := v.svc.List(context.Background())
		v.life.Do(func() {
			if err != nil {
				v.banner.Set(errs.UserMessage(err))
				return
			}
			v.store.Seed(items)
		})
	})
}

// Generate triggers server-side generation and reseeds from its result.
func (v *ListView) Generate(ctx context.Context) error {
	items, err := v.svc.Generate(ctx)
	if err != nil {
		v.banner.Set(errs.UserMessage(err))
		return err
	}
	v.life.Do(func() { v.store.Seed(items) })
	return nil
}

func (v *ListView) Items() []model.Paysheet {
	return v.store.CurrentView()
}

func (v *ListView) Banner() string { return v.banner.Message() }

func (v *ListView) Close() {
	v.scope.Close()
	v.life.Close()
	v.banner.Clear()
}
