package lifecycle

import (
	"errors"
	"fmt"

	"servicehub/internal/domain"
)

var ErrPropertyLimitReached = errors.New("property limit reached for your current plan, upgrade to add more properties")

// LimitError carries the numbers a client needs to render an upgrade prompt.
type LimitError struct {
	Err       error
	Current   int
	Limit     int
	PlanName  string
	UpgradeTo string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s (%d/%d on %s)", e.Err.Error(), e.Current, e.Limit, e.PlanName)
}

func (e *LimitError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, domain.ErrLimitReached) match.
func (e *LimitError) Is(target error) bool {
	return target == domain.ErrLimitReached
}

// CheckPropertyLimit fails when adding one more property would exceed plan.
// plans is the full catalog, used to suggest the next tier.
func CheckPropertyLimit(plan *domain.Plan, current int, plans []domain.Plan) error {
	if plan == nil {
		return domain.NewError(domain.KindAccessDenied, "no plan selected")
	}
	if plan.Unlimited() || current < plan.MaxProperties {
		return nil
	}
	return &LimitError{
		Err:       ErrPropertyLimitReached,
		Current:   current,
		Limit:     plan.MaxProperties,
		PlanName:  plan.Name,
		UpgradeTo: nextPlan(plan, plans),
	}
}

// nextPlan is the cheapest active plan allowing more properties than current.
func nextPlan(current *domain.Plan, plans []domain.Plan) string {
	var best *domain.Plan
	for i := range plans {
		p := &plans[i]
		if !p.IsActive || p.ID == current.ID {
			continue
		}
		if !p.Unlimited() && p.MaxProperties <= current.MaxProperties {
			continue
		}
		if best == nil || p.PriceMonthly < best.PriceMonthly {
			best = p
		}
	}
	if best == nil {
		return ""
	}
	return best.ID
}
