package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/repository"
)

type Service struct {
	coupons CouponRepository
	clock   lifecycle.TimeProvider
	log     Logger
}

func NewService(coupons CouponRepository, clock lifecycle.TimeProvider, log Logger) *Service {
	if clock == nil {
		clock = lifecycle.RealTimeProvider{}
	}
	return &Service{coupons: coupons, clock: clock, log: log}
}

func (s *Service) Create(ctx context.Context, actor domain.ActorContext, req CreateCouponRequest) (*domain.Coupon, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	code := strings.TrimSpace(req.Code)
	switch {
	case code == "":
		return nil, domain.Validation("code is required")
	case req.DiscountType != domain.DiscountPercentage && req.DiscountType != domain.DiscountFlat:
		return nil, domain.Validation("unknown discount type %q", req.DiscountType)
	case req.DiscountValue <= 0:
		return nil, domain.Validation("discount value must be positive")
	case req.DiscountType == domain.DiscountPercentage && req.DiscountValue > 100:
		return nil, domain.Validation("percentage discount cannot exceed 100")
	case !req.ValidTo.After(req.ValidFrom):
		return nil, domain.Validation("valid_to must be after valid_from")
	}

	c := &domain.Coupon{
		Code:          code,
		Description:   strings.TrimSpace(req.Description),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom.UTC(),
		ValidTo:       req.ValidTo.UTC(),
		UserID:        req.UserID,
		PropertyID:    req.PropertyID,
		Status:        domain.CouponActive,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.coupons.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.log.Info("Coupon: created id=%d code=%s type=%s value=%.2f", c.ID, c.Code, c.DiscountType, c.DiscountValue)
	return c, nil
}

func (s *Service) SetStatus(ctx context.Context, actor domain.ActorContext, id int64, status domain.CouponStatus) (*domain.Coupon, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if status != domain.CouponActive && status != domain.CouponInactive {
		return nil, domain.Validation("unknown coupon status %q", status)
	}

	c, err := s.coupons.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("coupon %d not found", id)
		}
		return nil, fmt.Errorf("update coupon status: %w", err)
	}

	s.log.Info("Coupon: status changed id=%d status=%s", id, status)
	return c, nil
}

// List shows admins every coupon (optionally those scoped to userID). Everyone
// else sees the coupons they could redeem right now.
func (s *Service) List(ctx context.Context, actor domain.ActorContext, userID int64) ([]*domain.Coupon, error) {
	f := repository.CouponFilter{}
	if actor.IsAdmin() {
		f.UserID = userID
	} else {
		now := s.clock.Now()
		f.VisibleTo = actor.UserID
		f.OnlyActive = true
		f.ActiveAt = &now
	}

	out, err := s.coupons.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return out, nil
}

// Validate reports whether code applies to the caller, propertyID and amount.
// Nothing is redeemed.
func (s *Service) Validate(ctx context.Context, actor domain.ActorContext, code string, propertyID int64, amount float64) (lifecycle.CouponResult, error) {
	if amount < 0 {
		return lifecycle.CouponResult{}, domain.Validation("amount must not be negative")
	}

	code = strings.TrimSpace(code)
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return lifecycle.CouponResult{}, fmt.Errorf("get coupon: %w", err)
	}

	return lifecycle.ValidateCoupon(c, lifecycle.CouponRequest{
		Code:       code,
		UserID:     actor.UserID,
		PropertyID: propertyID,
		Amount:     amount,
	}, s.clock.Now()), nil
}
