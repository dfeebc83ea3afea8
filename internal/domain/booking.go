package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingPending             BookingStatus = "pending"
	BookingPaymentPending      BookingStatus = "payment_pending"
	BookingConfirmed           BookingStatus = "confirmed"
	BookingCompleted           BookingStatus = "completed"
	BookingCancelled           BookingStatus = "cancelled"
	BookingCancelledByCustomer BookingStatus = "cancelled_by_customer"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingPaymentPending, BookingConfirmed,
		BookingCompleted, BookingCancelled, BookingCancelledByCustomer:
		return true
	}
	return false
}

// AwaitingConfirmation is true while the booking has not been confirmed yet.
func (s BookingStatus) AwaitingConfirmation() bool {
	return s == BookingPending || s == BookingPaymentPending
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingCancelledByCustomer
}

func (s BookingStatus) IsCancelled() bool {
	return s == BookingCancelled || s == BookingCancelledByCustomer
}

type Booking struct {
	ID                 int64         `json:"id"`
	Department         Department    `json:"department"`
	PropertyID         int64         `json:"property_id"`
	HostID             int64         `json:"host_id"`
	CustomerID         int64         `json:"customer_id"`
	SpecialistID       *int64        `json:"specialist_id,omitempty"`
	ServiceID          *int64        `json:"service_id,omitempty"`
	Details            Details       `json:"details"`
	BasePrice          float64       `json:"base_price"`
	ServiceSurcharge   float64       `json:"service_surcharge"`
	DiscountAmount     float64       `json:"discount_amount"`
	CouponCode         string        `json:"coupon_code,omitempty"`
	FinalPrice         float64       `json:"final_price"`
	Status             BookingStatus `json:"status"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	Version            int64         `json:"-"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// IsParty reports whether the actor is the customer or the host of the booking,
// or an admin.
func (b *Booking) IsParty(actor ActorContext) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UserID != 0 && (actor.UserID == b.CustomerID || actor.UserID == b.HostID)
}

// UnmarshalJSON picks the details variant from the department field.
func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	var aux struct {
		*plain
		Details json.RawMessage `json:"details"`
	}
	aux.plain = (*plain)(b)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Details) == 0 || string(aux.Details) == "null" {
		b.Details = nil
		return nil
	}
	d, err := DecodeDetails(b.Department, aux.Details)
	if err != nil {
		return err
	}
	b.Details = d
	return nil
}
