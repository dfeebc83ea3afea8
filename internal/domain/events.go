package domain

import (
	"strconv"
	"time"
)

// Event is a fact emitted by a lifecycle transition.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// PaymentVerified is emitted by the payment machine and consumed by the booking
// machine, which confirms the booking.
type PaymentVerified struct {
	BookingID    int64     `json:"booking_id"`
	PaymentID    string    `json:"payment_id"`
	VerifiedBy   int64     `json:"verified_by"`
	VerifierRole Role      `json:"verifier_role"`
	At           time.Time `json:"at"`
}

func (e PaymentVerified) EventName() string     { return "payment.verified" }
func (e PaymentVerified) AggregateID() string   { return strconv.FormatInt(e.BookingID, 10) }
func (e PaymentVerified) OccurredAt() time.Time { return e.At }

type PaymentRejected struct {
	BookingID  int64     `json:"booking_id"`
	PaymentID  string    `json:"payment_id"`
	RejectedBy int64     `json:"rejected_by"`
	Reason     string    `json:"reason"`
	At         time.Time `json:"at"`
}

func (e PaymentRejected) EventName() string     { return "payment.rejected" }
func (e PaymentRejected) AggregateID() string   { return strconv.FormatInt(e.BookingID, 10) }
func (e PaymentRejected) OccurredAt() time.Time { return e.At }

type BookingStatusChanged struct {
	BookingID  int64         `json:"booking_id"`
	CustomerID int64         `json:"customer_id"`
	HostID     int64         `json:"host_id"`
	From       BookingStatus `json:"from"`
	To         BookingStatus `json:"to"`
	Actor      ActorContext  `json:"actor"`
	At         time.Time     `json:"at"`
}

func (e BookingStatusChanged) EventName() string     { return "booking.status_changed" }
func (e BookingStatusChanged) AggregateID() string   { return strconv.FormatInt(e.BookingID, 10) }
func (e BookingStatusChanged) OccurredAt() time.Time { return e.At }
