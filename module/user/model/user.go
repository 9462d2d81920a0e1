package model

import "time"

// User is an account record as the admin screens see it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) EntityID() string { return u.ID }

// Writer extends the account with writer-profile fields.
type Writer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subjects  []string  `json:"subjects,omitempty"`
	Rating    float64   `json:"rating"`
	Active    bool      `json:"active"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func (w Writer) EntityID() string { return w.ID }
