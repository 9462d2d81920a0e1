package model

import "time"

// Assignment status values as the API reports them. The client never
// invents transitions; it mirrors what the server sends.
const (
	StatusNew             = "New"
	StatusPriced          = "Priced"
	StatusAwaitingPayment = "Awaiting Payment"
	StatusAssigned        = "Assigned"
	StatusInProgress      = "In Progress"
	StatusSubmitted       = "Submitted"
	StatusCompleted       = "Completed"
	StatusCancelled       = "Cancelled"
)

// Assignment is the server-owned record projected into the client.
type Assignment struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Status       string    `json:"status"`
	Price        float64   `json:"price"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	WriterID     string    `json:"writer_id,omitempty"`
	WriterName   string    `json:"writer_name,omitempty"`
	Deadline     time.Time `json:"deadline"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a Assignment) EntityID() string { return a.ID }

// UnreadUpdate is the push payload carrying the server's authoritative
// unread count for one assignment thread.
type UnreadUpdate struct {
	AssignmentID string `json:"assignment_id"`
	Unread       int    `json:"unread"`
}
