package coupon

import (
	"context"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CouponStatus) (*domain.Coupon, error)
	List(ctx context.Context, f repository.CouponFilter) ([]*domain.Coupon, error)
}

type Logger interface {
	Info(format string, args ...any)
}
