package subscription

import (
	"context"
	"time"

	"servicehub/internal/domain"
)

type SubscriptionRepository interface {
	ListPlans(ctx context.Context, onlyActive bool) ([]domain.Plan, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	GetByHost(ctx context.Context, hostID int64) (*domain.HostSubscription, error)
	GetByID(ctx context.Context, id string) (*domain.HostSubscription, error)
	Create(ctx context.Context, s *domain.HostSubscription) error
	Mutate(ctx context.Context, id string, fn func(s *domain.HostSubscription) error) (*domain.HostSubscription, error)
	ListByPaymentStatus(ctx context.Context, status domain.BillingStatus) ([]*domain.HostSubscription, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
	EndLapsedTrials(ctx context.Context, now time.Time) (int64, error)
}

// PropertyCounter is implemented by the property repository.
type PropertyCounter interface {
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}
