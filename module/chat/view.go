package chat

import (
	"context"
	"time"

	"AMProject/module/chat/model"
	"AMProject/service/realtime"
	"AMProject/service/reconcile"
	"AMProject/tools/errs"
	"AMProject/tools/ids"
	"AMProject/tools/safe"
)

// ConversationsView is the conversations list, newest activity first.
// updateConversation upserts move nothing: an existing head is replaced in
// place, only genuinely new conversations enter at the top.
type ConversationsView struct {
	svc    *Service
	store  *reconcile.Store[model.Conversation]
	life   *reconcile.Lifetime
	scope  *realtime.Scope
	banner *reconcile.Banner
}

func NewConversationsView(svc *Service, router *realtime.Router, bannerTTL time.Duration) *ConversationsView {
	return &ConversationsView{
		svc:    svc,
		store:  reconcile.NewStore[model.Conversation](reconcile.NewestFirst),
		life:   reconcile.NewLifetime(),
		scope:  router.NewScope(),
		banner: reconcile.NewBanner(bannerTTL),
	}
}

func (v *ConversationsView) Open(ctx context.Context) error {
	v.scope.On(realtime.KindUpdateConversation, func(ev realtime.Event) {
		e := ev.(realtime.UpdateConversation)
		v.store.ApplyUpsert(e.Conversation)
	})
	v.scope.On(realtime.KindReconnected, func(realtime.Event) {
		v.refreshAsync()
	})
	return v.fetch(ctx)
}

func (v *ConversationsView) fetch(ctx context.Context) error {
	items, err := v.svc.Conversations(ctx)
	if err != nil {
		v.banner.Set(errs.UserMessage(err))
		return err
	}
	v.life.Do(func() { v.store.Seed(items) })
	return nil
}

func (v *ConversationsView) refreshAsync() {
	if !v.life.Alive() {
		return
	}
	safe.SafeGo(func() {
		items, err := v.svc.Conversations(context.Background())
		v.life.Do(func() {
			if err != nil {
				v.banner.Set(errs.UserMessage(err))
				return
			}
			v.store.Seed(items)
		})
	})
}

func (v *ConversationsView) Items() []model.Conversation {
	return v.store.CurrentView()
}

func (v *ConversationsView) Banner() string { return v.banner.Message() }

func (v *ConversationsView) Close() {
	v.scope.Close()
	v.life.Close()
	v.banner.Clear()
}

// TranscriptView is one open conversation: chronological append order,
// receiveMessage events admitted only for this conversation. Sending is an
// explicit two-phase update: a local echo is staged immediately, then
// replaced by the server's message on success or withdrawn on failure.
type TranscriptView struct {
	svc    *Service
	conv   model.Conversation
	self   string // own user id, marks the local echo's sender
	store  *reconcile.Store[model.ChatMessage]
	life   *reconcile.Lifetime
	scope  *realtime.Scope
	banner *reconcile.Banner
}

func NewTranscriptView(svc *Service, router *realtime.Router, conv model.Conversation, selfID string, bannerTTL time.Duration) *TranscriptView {
	store := reconcile.NewStore[model.ChatMessage](reconcile.Append)
	store.SetFilter(func(m model.ChatMessage) bool { return m.ConversationID == conv.ID })
	return &TranscriptView{
		svc:    svc,
		conv:   conv,
		self:   selfID,
		store:  store,
		life:   reconcile.NewLifetime(),
		scope:  router.NewScope(),
		banner: reconcile.NewBanner(bannerTTL),
	}
}

func (v *TranscriptView) Open(ctx context.Context) error {
	v.scope.On(realtime.KindReceiveMessage, func(ev realtime.Event) {
		e := ev.(realtime.ReceiveMessage)
		v.store.ApplyUpsert(e.Message)
	})
	v.scope.On(realtime.KindReconnected, func(realtime.Event) {
		v.refreshAsync()
	})
	return v.fetch(ctx)
}

func (v *TranscriptView) fetch(ctx context.Context) error {
	items, err := v.svc.Messages(ctx, v.conv.ID)
	if err != nil {
		v.banner.Set(errs.UserMessage(err))
		return err
	}
	v.life.Do(func() { v.store.Seed(items) })
	return nil
}

func (v *TranscriptView) refreshAsync() {
	if !v.life.Alive() {
		return
	}
	safe.SafeGo(func() {
		items, err := v.svc.Messages(context.Background(), v.conv.ID)
		v.life.Do(func() {
			if err != nil {
				v.banner.Set(errs.UserMessage(err))
				return
			}
			v.store.Seed(items)
		})
	})
}

// Send stages a local echo, posts, then commits or reverts. Gate and
// validation rejections surface before the echo is staged at all.
func (v *TranscriptView) Send(ctx context.Context, body string) error {
	echo, err := v.stageEcho(body)
	if err != nil {
		v.banner.Set(errs.UserMessage(err))
		return err
	}

	sent, err := v.svc.SendMessage(ctx, v.conv, body)
	if err != nil {
		v.revertEcho(echo)
		v.banner.Set(errs.UserMessage(err))
		return err
	}
	v.commitEcho(echo, sent)
	return nil
}

// stageEcho runs the same pre-send validation the service applies, so a
// message the gate would reject never flickers into the transcript.
func (v *TranscriptView) stageEcho(body string) (model.ChatMessage, error) {
	if verdict := CheckOutbound(body, GateContext{ConversationName: v.conv.Name}); !verdict.Allowed {
		return model.ChatMessage{}, errs.NewCodeError(errs.CodeValidation, verdict.Reason)
	}
	echo := model.ChatMessage{
		ID:             "local-" + ids.GenerateString(),
		ConversationID: v.conv.ID,
		SenderID:       v.self,
		Body:           body,
		SentAt:         time.Now(),
	}
	v.life.Do(func() { v.store.ApplyUpsert(echo) })
	return echo, nil
}

func (v *TranscriptView) revertEcho(echo model.ChatMessage) {
	v.life.Do(func() { v.store.ApplyDelete(echo.ID) })
}

// commitEcho swaps the echo for the server's message. When the push copy of
// our own message raced ahead, the upsert converges by id — no duplicate.
func (v *TranscriptView) commitEcho(echo model.ChatMessage, sent model.ChatMessage) {
	v.life.Do(func() {
		v.store.ApplyDelete(echo.ID)
		v.store.ApplyUpsert(sent)
	})
}

func (v *TranscriptView) Messages() []model.ChatMessage {
	return v.store.CurrentView()
}

func (v *TranscriptView) Banner() string { return v.banner.Message() }

func (v *TranscriptView) Close() {
	v.scope.Close()
	v.life.Close()
	v.banner.Clear()
}
