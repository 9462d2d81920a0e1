package model

import "time"

const (
	StatusPending = "Pending"
	StatusPaid    = "Paid"
)

// Paysheet is one writer payout statement for a billing period.
type Paysheet struct {
	ID          string    `json:"id"`
	WriterID    string    `json:"writer_id"`
	WriterName  string    `json:"writer_name,omitempty"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	ProofURL    string    `json:"proof_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	PaidAt      time.Time `json:"paid_at,omitempty"`
}

func (p Paysheet) EntityID() string { return p.ID }
