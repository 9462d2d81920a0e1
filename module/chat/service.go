package chat

import (
	"context"
	"strings"

	"AMProject/module/chat/model"
	"AMProject/service/rest"
	"AMProject/tools/errs"
	"AMProject/tools/ids"
)

// Service is the conversations/messages REST surface. SendMessage runs the
// outbound gate before anything touches the network.
type Service struct {
	api *rest.Client
}

func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

func (s *Service) Conversations(ctx context.Context) ([]model.Conversation, error) {
	var out []model.Conversation
	err := s.api.GetJSON(ctx, "/conversations", nil, &out)
	return out, err
}

func (s *Service) Messages(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	err := s.api.GetJSON(ctx, "/conversations/"+conversationID+"/messages", nil, &out)
	return out, err
}

type sendBody struct {
	ClientMsgID string `json:"client_msg_id"`
	Body        string `json:"body"`
}

// SendMessage validates, gates, then posts. A gate rejection or empty body
// comes back as a validation CodeError and the network is never reached.
func (s *Service) SendMessage(ctx context.Context, conv model.Conversation, body string) (model.ChatMessage, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return model.ChatMessage{}, errs.NewCodeError(errs.CodeValidation, "message is empty")
	}
	if verdict := CheckOutbound(trimmed, GateContext{ConversationName: conv.Name}); !verdict.Allowed {
		return model.ChatMessage{}, errs.NewCodeError(errs.CodeValidation, verdict.Reason)
	}

	var out model.ChatMessage
	err := s.api.PostJSON(ctx, "/conversations/"+conv.ID+"/messages",
		sendBody{ClientMsgID: ids.GenerateString(), Body: trimmed}, &out)
	if err != nil {
		return model.ChatMessage{}, err
	}
	return out, nil
}
