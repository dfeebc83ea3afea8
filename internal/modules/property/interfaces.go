package property

import (
	"context"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	Update(ctx context.Context, p *domain.Property) error
	UpdateStatus(ctx context.Context, id int64, status domain.PropertyStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	List(ctx context.Context, f repository.PropertyFilter) ([]*domain.Property, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	Delete(ctx context.Context, id int64) error
	AddService(ctx context.Context, s *domain.OfferedService) error
	DeleteService(ctx context.Context, propertyID, serviceID int64) error
	AddSpecialist(ctx context.Context, s *domain.Specialist) error
	DeleteSpecialist(ctx context.Context, propertyID, specialistID int64) error
}

// PlanProvider returns the host's current plan and the active plan catalog
// used for upgrade hints.
type PlanProvider interface {
	PropertyAllowance(ctx context.Context, hostID int64) (*domain.Plan, []domain.Plan, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}
