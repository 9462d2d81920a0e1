package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AMProject/module/chat/model"
	"AMProject/service/realtime"
)

func newTranscript(t *testing.T) (*TranscriptView, *realtime.Router) {
	t.Helper()
	router := realtime.NewRouter()
	conv := model.Conversation{ID: "c1", Name: "Order #9"}
	return NewTranscriptView(nil, router, conv, "me", 0), router
}

func msgIDs(msgs []model.ChatMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestEchoStageCommit(t *testing.T) {
	v, _ := newTranscript(t)

	echo, err := v.stageEcho("the draft looks good")
	require.NoError(t, err)
	require.Equal(t, []string{echo.ID}, msgIDs(v.Messages()))
	assert.Equal(t, "me", echo.SenderID)

	sent := model.ChatMessage{ID: "srv-1", ConversationID: "c1", SenderID: "me", Body: "the draft looks good", SentAt: time.Now()}
	v.commitEcho(echo, sent)

	// the echo is gone, only the server's copy remains
	assert.Equal(t, []string{"srv-1"}, msgIDs(v.Messages()))
}

func TestEchoStageRevert(t *testing.T) {
	v, _ := newTranscript(t)

	echo, err := v.stageEcho("second thoughts")
	require.NoError(t, err)
	require.Len(t, v.Messages(), 1)

	v.revertEcho(echo)
	assert.Empty(t, v.Messages())
}

func TestEchoNeverStagedWhenGateBlocks(t *testing.T) {
	v, _ := newTranscript(t)

	_, err := v.stageEcho("mail me at user@example.com")
	require.Error(t, err)
	assert.Empty(t, v.Messages(), "a blocked message must not flicker into the transcript")
}

func TestTranscriptAdmitsOnlyItsConversation(t *testing.T) {
	v, router := newTranscript(t)
	v.scope.On(realtime.KindReceiveMessage, func(ev realtime.Event) {
		e := ev.(realtime.ReceiveMessage)
		v.store.ApplyUpsert(e.Message)
	})

	router.Emit(realtime.ReceiveMessage{Message: model.ChatMessage{ID: "m1", ConversationID: "c1"}})
	router.Emit(realtime.ReceiveMessage{Message: model.ChatMessage{ID: "m2", ConversationID: "other"}})

	assert.Equal(t, []string{"m1"}, msgIDs(v.Messages()))
}

func TestClosedTranscriptIgnoresLateWrites(t *testing.T) {
	v, router := newTranscript(t)
	v.scope.On(realtime.KindReceiveMessage, func(ev realtime.Event) {
		e := ev.(realtime.ReceiveMessage)
		v.store.ApplyUpsert(e.Message)
	})
	v.Close()

	// handlers are deregistered and lifetime-gated mutations are no-ops
	router.Emit(realtime.ReceiveMessage{Message: model.ChatMessage{ID: "m1", ConversationID: "c1"}})
	v.commitEcho(model.ChatMessage{ID: "local-x"}, model.ChatMessage{ID: "srv-1", ConversationID: "c1"})

	assert.Empty(t, v.Messages())
}
