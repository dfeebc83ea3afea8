package property

import (
	"context"
	"strings"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	properties PropertyRepository
	plans      PlanProvider
	log        Logger
}

func NewService(properties PropertyRepository, plans PlanProvider, log Logger) *Service {
	return &Service{properties: properties, plans: plans, log: log}
}

// Create adds a property for the calling host, subject to the plan's property
// limit. Admins may create on behalf of req.OwnerID without a limit check.
func (s *Service) Create(ctx context.Context, actor domain.ActorContext, req CreatePropertyRequest) (*domain.Property, error) {
	ownerID := req.OwnerID
	switch {
	case actor.IsHost():
		ownerID = actor.UserID
		if err := s.checkLimit(ctx, ownerID); err != nil {
			return nil, err
		}
	case actor.IsAdmin():
		if ownerID == 0 {
			return nil, domain.Validation("owner_id is required when an admin creates a property")
		}
	default:
		return nil, domain.Forbidden("only hosts can create properties")
	}

	if !req.Department.Valid() {
		return nil, domain.Validation("unknown department %q", req.Department)
	}
	if err := validateRates(req.Department, req.BasePrice, req.CabRates); err != nil {
		return nil, err
	}

	p := &domain.Property{
		Department:         req.Department,
		OwnerID:            ownerID,
		Name:               strings.TrimSpace(req.Name),
		City:               strings.TrimSpace(req.City),
		Address:            strings.TrimSpace(req.Address),
		Description:        strings.TrimSpace(req.Description),
		BasePrice:          req.BasePrice,
		CabRates:           req.CabRates,
		RequiresPrepayment: req.RequiresPrepayment,
		Status:             domain.PropertyActive,
	}
	for _, in := range req.Services {
		p.Services = append(p.Services, domain.OfferedService{Name: strings.TrimSpace(in.Name), Price: in.Price})
	}
	for _, in := range req.Specialists {
		p.Specialists = append(p.Specialists, domain.Specialist{Name: strings.TrimSpace(in.Name), Title: strings.TrimSpace(in.Title)})
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, storeErr(err, "property")
	}

	s.log.Info("Property: created id=%d owner_id=%d department=%s", p.ID, p.OwnerID, p.Department)
	return p, nil
}

func (s *Service) checkLimit(ctx context.Context, hostID int64) error {
	plan, catalog, err := s.plans.PropertyAllowance(ctx, hostID)
	if err != nil {
		return err
	}
	current, err := s.properties.CountByOwner(ctx, hostID)
	if err != nil {
		return storeErr(err, "property count")
	}
	if err := lifecycle.CheckPropertyLimit(plan, current, catalog); err != nil {
		s.log.Warn("Property: limit reached owner_id=%d current=%d", hostID, current)
		return err
	}
	return nil
}

// validateRates requires a usable price source: a base price for flat-priced
// departments, and for cabs at least one positive category rate or a base
// price to fall back on.
func validateRates(dep domain.Department, base float64, rates map[domain.CabCategory]float64) error {
	if base < 0 {
		return domain.Validation("base price must not be negative")
	}
	if dep != domain.DepartmentCab {
		if len(rates) > 0 {
			return domain.Validation("cab rates are only allowed for cab properties")
		}
		return nil
	}

	usable := base > 0
	for cat, rate := range rates {
		if !cat.Valid() {
			return domain.Validation("unknown cab category %q", cat)
		}
		if rate < 0 {
			return domain.Validation("rate for %s must not be negative", cat)
		}
		if rate > 0 {
			usable = true
		}
	}
	if !usable {
		return domain.NewError(domain.KindInvalidRateConfiguration, "cab properties need a category rate or a base price")
	}
	return nil
}

// owned loads a property the actor may manage.
func (s *Service) owned(ctx context.Context, actor domain.ActorContext, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "property")
	}
	if actor.IsAdmin() || (actor.IsHost() && actor.UserID == p.OwnerID) {
		return p, nil
	}
	return nil, ErrNotOwner
}

func (s *Service) Update(ctx context.Context, actor domain.ActorContext, id int64, req UpdatePropertyRequest) (*domain.Property, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateRates(p.Department, req.BasePrice, req.CabRates); err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(req.Name)
	p.City = strings.TrimSpace(req.City)
	p.Address = strings.TrimSpace(req.Address)
	p.Description = strings.TrimSpace(req.Description)
	p.BasePrice = req.BasePrice
	p.CabRates = req.CabRates
	p.RequiresPrepayment = req.RequiresPrepayment

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, storeErr(err, "property")
	}
	out, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "property")
	}
	return out, nil
}

// SetStatus toggles a property. Bringing a cancelled property back counts
// against the plan limit again.
func (s *Service) SetStatus(ctx context.Context, actor domain.ActorContext, id int64, status domain.PropertyStatus) (*domain.Property, error) {
	if !status.Valid() {
		return nil, domain.Validation("unknown property status %q", status)
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Status == status {
		return p, nil
	}
	if p.Status == domain.PropertyCancelled && !actor.IsAdmin() {
		if err := s.checkLimit(ctx, p.OwnerID); err != nil {
			return nil, err
		}
	}

	if err := s.properties.UpdateStatus(ctx, id, status); err != nil {
		return nil, storeErr(err, "property")
	}
	s.log.Info("Property: status changed id=%d from=%s to=%s by=%d", id, p.Status, status, actor.UserID)
	p.Status = status
	return p, nil
}

// Get is public; properties that are not active are only shown to their
// owner and admins.
func (s *Service) Get(ctx context.Context, actor domain.ActorContext, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "property")
	}
	if p.Status != domain.PropertyActive && !actor.IsAdmin() && actor.UserID != p.OwnerID {
		return nil, domain.NotFound("property not found")
	}
	return p, nil
}

func (s *Service) ListPublic(ctx context.Context, q ListQuery) ([]*domain.Property, error) {
	if q.Department != "" && !q.Department.Valid() {
		return nil, domain.Validation("unknown department %q", q.Department)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	out, err := s.properties.List(ctx, repository.PropertyFilter{
		Department: q.Department,
		City:       strings.TrimSpace(q.City),
		Status:     domain.PropertyActive,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return nil, storeErr(err, "properties")
	}
	return out, nil
}

// ListMine lists every property of the calling host, whatever its status.
func (s *Service) ListMine(ctx context.Context, actor domain.ActorContext) ([]*domain.Property, error) {
	if !actor.IsHost() && !actor.IsAdmin() {
		return nil, domain.Forbidden("only hosts have properties")
	}
	out, err := s.properties.List(ctx, repository.PropertyFilter{OwnerID: actor.UserID})
	if err != nil {
		return nil, storeErr(err, "properties")
	}
	return out, nil
}

func (s *Service) AddService(ctx context.Context, actor domain.ActorContext, propertyID int64, in ServiceInput) (*domain.OfferedService, error) {
	if _, err := s.owned(ctx, actor, propertyID); err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, domain.Validation("service price must not be negative")
	}
	svc := &domain.OfferedService{PropertyID: propertyID, Name: strings.TrimSpace(in.Name), Price: in.Price}
	if err := s.properties.AddService(ctx, svc); err != nil {
		return nil, storeErr(err, "service")
	}
	return svc, nil
}

func (s *Service) RemoveService(ctx context.Context, actor domain.ActorContext, propertyID, serviceID int64) error {
	if _, err := s.owned(ctx, actor, propertyID); err != nil {
		return err
	}
	return storeErr(s.properties.DeleteService(ctx, propertyID, serviceID), "service")
}

func (s *Service) AddSpecialist(ctx context.Context, actor domain.ActorContext, propertyID int64, in SpecialistInput) (*domain.Specialist, error) {
	if _, err := s.owned(ctx, actor, propertyID); err != nil {
		return nil, err
	}
	sp := &domain.Specialist{PropertyID: propertyID, Name: strings.TrimSpace(in.Name), Title: strings.TrimSpace(in.Title)}
	if err := s.properties.AddSpecialist(ctx, sp); err != nil {
		return nil, storeErr(err, "specialist")
	}
	return sp, nil
}

func (s *Service) RemoveSpecialist(ctx context.Context, actor domain.ActorContext, propertyID, specialistID int64) error {
	if _, err := s.owned(ctx, actor, propertyID); err != nil {
		return err
	}
	return storeErr(s.properties.DeleteSpecialist(ctx, propertyID, specialistID), "specialist")
}

// Delete is an admin operation; hosts cancel instead.
func (s *Service) Delete(ctx context.Context, actor domain.ActorContext, id int64) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("only admins can delete properties")
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return storeErr(err, "property")
	}
	s.log.Info("Property: deleted id=%d by=%d", id, actor.UserID)
	return nil
}
