package domain

import "time"

type PaymentMethod string

const (
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "net_banking"
	PaymentCard       PaymentMethod = "card"
	PaymentCash       PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentNetBanking, PaymentCard, PaymentCash:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Payment is the customer's evidence of an out-of-band transfer. Cash bookings
// never create one.
type Payment struct {
	ID              string        `json:"id"`
	BookingID       int64         `json:"booking_id"`
	Amount          float64       `json:"amount"`
	Method          PaymentMethod `json:"method"`
	TransactionRef  string        `json:"transaction_ref"`
	ReceiptRef      string        `json:"receipt_ref"`
	Status          PaymentStatus `json:"status"`
	VerifiedBy      *int64        `json:"verified_by,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func (p *Payment) Decided() bool {
	return p.Status != PaymentStatusPending
}
