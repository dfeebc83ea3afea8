package domain

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

type CouponStatus string

const (
	CouponActive   CouponStatus = "active"
	CouponInactive CouponStatus = "inactive"
)

// Coupon scope: a nil UserID or PropertyID means "any".
type Coupon struct {
	ID            int64        `json:"id"`
	Code          string       `json:"code"`
	Description   string       `json:"description,omitempty"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	ValidFrom     time.Time    `json:"valid_from"`
	ValidTo       time.Time    `json:"valid_to"`
	UserID        *int64       `json:"user_id,omitempty"`
	PropertyID    *int64       `json:"property_id,omitempty"`
	Status        CouponStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}
