package booking

import (
	"context"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Mutate(ctx context.Context, id int64, fn func(b *domain.Booking) error) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.BookingFilter) ([]*domain.Booking, error)
}

type PropertyReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

type CouponLookup interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// Notifier delivers lifecycle events to the given users.
type Notifier interface {
	Notify(ev domain.Event, recipients ...int64)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Event, ...int64) {}
