package lifecycle

import (
	"time"

	"servicehub/internal/domain"
)

type CouponRequest struct {
	Code       string
	UserID     int64
	PropertyID int64
	Amount     float64
}

// CouponResult is either Valid with a discount, or carries the rejection Reason.
type CouponResult struct {
	Valid          bool             `json:"valid"`
	DiscountAmount float64          `json:"discount_amount"`
	Reason         domain.ErrorKind `json:"reason,omitempty"`
	Message        string           `json:"message,omitempty"`
}

// Err converts a rejected result into a typed error; nil when valid.
func (r CouponResult) Err() error {
	if r.Valid {
		return nil
	}
	return &domain.Error{Kind: r.Reason, Message: r.Message}
}

// ValidateCoupon checks c against req in a fixed order: not found, inactive,
// expired, user scope, property scope. c is the result of the lookup by code
// and may be nil. Nothing is redeemed.
func ValidateCoupon(c *domain.Coupon, req CouponRequest, now time.Time) CouponResult {
	switch {
	case c == nil || c.Code != req.Code:
		return reject(domain.KindNotFound, "coupon not found")
	case c.Status != domain.CouponActive:
		return reject(domain.KindInactive, "coupon is not active")
	case now.Before(c.ValidFrom) || now.After(c.ValidTo):
		return reject(domain.KindExpired, "coupon is outside its validity window")
	case c.UserID != nil && *c.UserID != req.UserID:
		return reject(domain.KindNotApplicableToUser, "coupon is not applicable to this user")
	case c.PropertyID != nil && *c.PropertyID != req.PropertyID:
		return reject(domain.KindNotApplicableToProperty, "coupon is not applicable to this property")
	}

	return CouponResult{Valid: true, DiscountAmount: Discount(c, req.Amount)}
}

// Discount is the amount c takes off amount, never more than amount.
func Discount(c *domain.Coupon, amount float64) float64 {
	if amount <= 0 || c.DiscountValue <= 0 {
		return 0
	}
	var d float64
	switch c.DiscountType {
	case domain.DiscountPercentage:
		d = amount * c.DiscountValue / 100
	case domain.DiscountFlat:
		d = c.DiscountValue
	}
	if d > amount {
		d = amount
	}
	return round2(d)
}

func reject(kind domain.ErrorKind, msg string) CouponResult {
	return CouponResult{Valid: false, Reason: kind, Message: msg}
}
