package coupon

import "servicehub/internal/domain"

var (
	ErrAdminOnly     = domain.Forbidden("only admins can manage coupons")
	ErrDuplicateCode = domain.NewError(domain.KindConflict, "coupon code already exists")
)
