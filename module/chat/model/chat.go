package model

import "time"

// Conversation heads the conversations list; LastActivity drives the
// newest-first ordering, Unread mirrors the server's count.
type Conversation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AssignmentID string    `json:"assignment_id,omitempty"`
	Participants []string  `json:"participants,omitempty"`
	LastMessage  string    `json:"last_message,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	Unread       int       `json:"unread"`
}

func (c Conversation) EntityID() string { return c.ID }

// ChatMessage is one transcript entry. ClientMsgID is assigned by the
// sending client for dedup across the optimistic-send and push paths.
type ChatMessage struct {
	ID             string    `json:"id"`
	ClientMsgID    string    `json:"client_msg_id,omitempty"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name,omitempty"`
	Body           string    `json:"body"`
	Read           bool      `json:"read"`
	SentAt         time.Time `json:"sent_at"`
}

func (m ChatMessage) EntityID() string { return m.ID }
