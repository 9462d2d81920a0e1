package realtime

import (
	"encoding/json"

	"github.com/pkg/errors"

	assignmodel "AMProject/module/assignment/model"
	chatmodel "AMProject/module/chat/model"
	notifymodel "AMProject/module/notify/model"
	"AMProject/tools/decode"
)

// Kind names one push event on the channel. The inbound set is closed:
// anything else coming off the wire is dropped at the boundary.
type Kind string

const (
	// Lifecycle signals emitted locally by the ConnManager, never by the
	// server. Views subscribe to them like any other event.
	KindConnected    Kind = "connected"
	KindDisconnected Kind = "disconnected"
	KindReconnected  Kind = "reconnected"

	KindNewNotification         Kind = "newNotification"
	KindRefreshNewSubmissions   Kind = "refreshNewSubmissions"
	KindAssignmentCreated       Kind = "assignmentCreated"
	KindAssignmentUpdated       Kind = "assignmentUpdated"
	KindRefreshAssignments      Kind = "refreshAssignments"
	KindRefreshPaysheets        Kind = "refreshPaysheets"
	KindReceiveMessage          Kind = "receiveMessage"
	KindUpdateConversation      Kind = "updateConversation"
	KindAssignmentUnreadUpdated Kind = "assignmentUnreadUpdated"
)

// Event is the closed tagged union delivered to handlers. Each concrete
// type carries an already-decoded payload; handlers never see raw maps.
type Event interface {
	Kind() Kind
}

type Connected struct{}

// Reconnected marks an establishment that followed a transport loss. The
// identity announce has already been re-sent when handlers see it.
type Reconnected struct{}

type Disconnected struct {
	// Terminal is true when the reconnect budget is exhausted and the
	// manager gave up; otherwise a reconnect attempt is underway.
	Terminal bool
}

type NewNotification struct {
	Notification notifymodel.Notification
}

type AssignmentCreated struct {
	Assignment assignmodel.Assignment
}

type AssignmentUpdated struct {
	Assignment assignmodel.Assignment
}

type AssignmentUnreadUpdated struct {
	Update assignmodel.UnreadUpdate
}

type ReceiveMessage struct {
	Message chatmodel.ChatMessage
}

type UpdateConversation struct {
	Conversation chatmodel.Conversation
}

// Refresh events carry no payload; they tell the owning view to refetch.
type RefreshNewSubmissions struct{}
type RefreshAssignments struct{}
type RefreshPaysheets struct{}

func (Connected) Kind() Kind               { return KindConnected }
func (Reconnected) Kind() Kind             { return KindReconnected }
func (Disconnected) Kind() Kind            { return KindDisconnected }
func (NewNotification) Kind() Kind         { return KindNewNotification }
func (AssignmentCreated) Kind() Kind       { return KindAssignmentCreated }
func (AssignmentUpdated) Kind() Kind       { return KindAssignmentUpdated }
func (AssignmentUnreadUpdated) Kind() Kind { return KindAssignmentUnreadUpdated }
func (ReceiveMessage) Kind() Kind          { return KindReceiveMessage }
func (UpdateConversation) Kind() Kind      { return KindUpdateConversation }
func (RefreshNewSubmissions) Kind() Kind   { return KindRefreshNewSubmissions }
func (RefreshAssignments) Kind() Kind      { return KindRefreshAssignments }
func (RefreshPaysheets) Kind() Kind        { return KindRefreshPaysheets }

// envelope is the wire shape of every inbound frame.
type envelope struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// DecodeEvent turns one raw frame into a typed Event. Decoding happens
// exactly once, here; a failure means the frame is dropped by the caller.
func DecodeEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "unmarshal frame")
	}
	if env.Event == "" {
		return nil, errors.New("frame without event name")
	}

	switch Kind(env.Event) {
	case KindNewNotification:
		p, err := decode.DecodeMap[notifymodel.Notification](env.Data)
		if err != nil {
			return nil, errors.Wrap(err, env.Event)
		}
		return NewNotification{Notification: *p}, nil
	case KindAssignmentCreated:
		p, err := decode.DecodeMap[assignmodel.Assignment](env.Data)
		if err != nil {
			return nil, errors.Wrap(err, env.Event)
		}
		return AssignmentCreated{Assignment: *p}, nil
	case KindAssignmentUpdated:
		p, err := decode.DecodeMap[assignmodel.Assignment](env.Data)
		if err != nil {
			return nil, errors.Wrap(err, env.Event)
		}
		return AssignmentUpdated{Assignment: *p}, nil
	case KindAssignmentUnreadUpdated:
		p, err := decode.DecodeMap[assignmodel.UnreadUpdate](env.Data)
		if err != nil {
			return nil, errors.Wrap(err, env.Event)
		}
		return AssignmentUnreadUpdated{Update: *p}, nil
	case KindReceiveMessage:
		p, err := decode.DecodeMap[chatmodel.ChatMessage](env.Data)
		if err != nil {
			return nil, errors.Wrap(err, env.Event)
		}
		return ReceiveMessage{Message: *p}, nil
	case KindUpdateConversation:
		p, err := decode.DecodeMap[chatmodel.Conversation](env.Data)
		if err != nil {
			return nil, errors.Wrap(err, env.Event)
		}
		return UpdateConversation{Conversation: *p}, nil
	case KindRefreshNewSubmissions:
		return RefreshNewSubmissions{}, nil
	case KindRefreshAssignments:
		return RefreshAssignments{}, nil
	case KindRefreshPaysheets:
		return RefreshPaysheets{}, nil
	default:
		return nil, errors.Errorf("unknown event %q", env.Event)
	}
}

// Outbound is a control frame the client emits on the channel.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type presencePayload struct {
	UserID string `json:"user_id"`
}

// AddUser announces the identity->connection mapping after (re)establishment.
// The server treats repeats for the same identity as an overwrite.
func AddUser(userID string) Outbound {
	return Outbound{Event: "addUser", Data: presencePayload{UserID: userID}}
}

// RemoveUser revokes the mapping; sent on logout before disconnecting.
func RemoveUser(userID string) Outbound {
	return Outbound{Event: "removeUser", Data: presencePayload{UserID: userID}}
}
