package subscription

import (
	"errors"
	"fmt"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

var (
	ErrHostOnly             = domain.Forbidden("only hosts have subscriptions")
	ErrAdminOnly            = domain.Forbidden("only admins can review subscription payments")
	ErrPlanNotFound         = domain.NotFound("subscription plan not found")
	ErrSubscriptionNotFound = domain.NotFound("select a plan first")
	ErrPaymentUnderReview   = domain.NewError(domain.KindConflict, "a subscription payment is under review")
)

func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound("%s not found", what)
	case errors.Is(err, repository.ErrDuplicate):
		return domain.NewError(domain.KindConflict, "%s already exists", what)
	}
	return fmt.Errorf("%s: %w", what, err)
}
