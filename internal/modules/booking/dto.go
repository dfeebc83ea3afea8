package booking

import (
	"encoding/json"
	"time"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
)

// BookingRequest is the body of both the quote and the create endpoints. The
// details are raw JSON; the property's department decides which variant they
// decode into.
type BookingRequest struct {
	SpecialistID *int64          `json:"specialist_id"`
	ServiceID    *int64          `json:"service_id"`
	Details      json.RawMessage `json:"details" validate:"required"`
	CouponCode   string          `json:"coupon_code" validate:"omitempty,max=64"`
}

type QuoteResult struct {
	PropertyID int64                   `json:"property_id"`
	Department domain.Department       `json:"department"`
	Quote      lifecycle.Quote         `json:"quote"`
	Coupon     *lifecycle.CouponResult `json:"coupon,omitempty"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ListQuery is bound from the query string of booking lists.
type ListQuery struct {
	Status     domain.BookingStatus `form:"status"`
	Department domain.Department    `form:"department"`
	PropertyID int64                `form:"property_id"`
	From       *time.Time           `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time           `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int                  `form:"limit"`
	Offset     int                  `form:"offset"`
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (q ListQuery) validate() error {
	if q.Status != "" && !q.Status.Valid() {
		return domain.Validation("unknown booking status %q", q.Status)
	}
	if q.Department != "" && !q.Department.Valid() {
		return domain.Validation("unknown department %q", q.Department)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return domain.Validation("to must not be before from")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return domain.Validation("limit and offset must not be negative")
	}
	return nil
}

func (q ListQuery) limit() int {
	switch {
	case q.Limit == 0:
		return defaultListLimit
	case q.Limit > maxListLimit:
		return maxListLimit
	}
	return q.Limit
}
