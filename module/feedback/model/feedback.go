package model

import "time"

// Feedback is a customer review; pending entries await admin approval
// before they join the public list.
type Feedback struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func (f Feedback) EntityID() string { return f.ID }
