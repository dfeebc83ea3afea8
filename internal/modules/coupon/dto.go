package coupon

import (
	"time"

	"servicehub/internal/domain"
)

type CreateCouponRequest struct {
	Code          string              `json:"code" validate:"required,min=3,max=64"`
	Description   string              `json:"description" validate:"max=500"`
	DiscountType  domain.DiscountType `json:"discount_type" validate:"required,oneof=percentage flat"`
	DiscountValue float64             `json:"discount_value" validate:"required,gt=0"`
	ValidFrom     time.Time           `json:"valid_from" validate:"required"`
	ValidTo       time.Time           `json:"valid_to" validate:"required"`
	UserID        *int64              `json:"user_id" validate:"omitempty,gt=0"`
	PropertyID    *int64              `json:"property_id" validate:"omitempty,gt=0"`
}

type UpdateStatusRequest struct {
	Status domain.CouponStatus `json:"status" validate:"required,oneof=active inactive"`
}

type ValidateQuery struct {
	PropertyID int64   `form:"property_id"`
	Amount     float64 `form:"amount"`
}

type ListQuery struct {
	UserID int64 `form:"user_id"`
}
