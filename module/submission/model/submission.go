package model

import "time"

// Submission is a freshly submitted assignment in the admin intake queue.
// The recent feed only ever shows status New; once an admin prices it the
// next push event evicts it from that view.
type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	Title        string    `json:"title"`
	Subject      string    `json:"subject,omitempty"`
	Status       string    `json:"status"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	Deadline     time.Time `json:"deadline"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s Submission) EntityID() string { return s.ID }
