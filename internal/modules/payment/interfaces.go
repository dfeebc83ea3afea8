package payment

import (
	"context"

	"servicehub/internal/domain"
)

type paymentRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	Submit(ctx context.Context, bookingID int64, build func(b *domain.Booking, existing []domain.Payment) (*domain.Payment, error)) (*domain.Payment, error)
	Decide(ctx context.Context, paymentID string, decide func(b *domain.Booking, p *domain.Payment) error) (*domain.Booking, *domain.Payment, error)
}

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type notifier interface {
	Notify(ev domain.Event, recipients ...int64)
}
