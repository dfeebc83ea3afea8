package subscription

import (
	"context"
	"errors"
	"math"
	"strings"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/repository"
)

// Service runs the host side of billing: plan selection with a trial,
// payment submission and admin review. Access itself is never stored; it is
// evaluated from the subscription on every call.
type Service struct {
	subs       SubscriptionRepository
	properties PropertyCounter
	clock      lifecycle.TimeProvider
	log        Logger
}

func NewService(subs SubscriptionRepository, properties PropertyCounter, clock lifecycle.TimeProvider, log Logger) *Service {
	if clock == nil {
		clock = lifecycle.RealTimeProvider{}
	}
	return &Service{subs: subs, properties: properties, clock: clock, log: log}
}

func (s *Service) Plans(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.subs.ListPlans(ctx, true)
	if err != nil {
		return nil, storeErr(err, "plans")
	}
	return plans, nil
}

// current returns the host's subscription or nil when none was selected yet.
func (s *Service) current(ctx context.Context, hostID int64) (*domain.HostSubscription, error) {
	sub, err := s.subs.GetByHost(ctx, hostID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "subscription")
	}
	return sub, nil
}

func (s *Service) Current(ctx context.Context, actor domain.ActorContext) (*Overview, error) {
	if !actor.IsHost() {
		return nil, ErrHostOnly
	}
	sub, err := s.current(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := &Overview{Subscription: sub, Access: lifecycle.EvaluateAccess(sub, s.clock.Now())}
	if sub != nil {
		plan, err := s.subs.GetPlan(ctx, sub.PlanID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, storeErr(err, "plan")
		}
		out.Plan = plan
	}
	return out, nil
}

// Access implements the host gate used by the HTTP middleware.
func (s *Service) Access(ctx context.Context, hostID int64) (lifecycle.AccessDecision, error) {
	sub, err := s.current(ctx, hostID)
	if err != nil {
		return lifecycle.AccessDecision{}, err
	}
	return lifecycle.EvaluateAccess(sub, s.clock.Now()), nil
}

// SelectPlan starts a subscription, with the plan's trial, for a host that
// has none. For an existing subscription it switches plan and period and asks
// for a new payment; this is refused while a payment is under review. During
// a paid period the change is only recorded and takes effect when the next
// payment is approved.
func (s *Service) SelectPlan(ctx context.Context, actor domain.ActorContext, req SelectPlanRequest) (*domain.HostSubscription, error) {
	if !actor.IsHost() {
		return nil, ErrHostOnly
	}
	if !req.BillingPeriod.Valid() {
		return nil, domain.Validation("unknown billing period %q", req.BillingPeriod)
	}
	plan, err := s.subs.GetPlan(ctx, strings.TrimSpace(req.PlanID))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !plan.IsActive) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, storeErr(err, "plan")
	}

	existing, err := s.current(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	if existing == nil {
		sub := &domain.HostSubscription{
			HostID:        actor.UserID,
			PlanID:        plan.ID,
			Status:        domain.SubscriptionPending,
			BillingPeriod: req.BillingPeriod,
			PaymentStatus: domain.BillingPending,
		}
		if plan.TrialDays > 0 {
			end := now.AddDate(0, 0, plan.TrialDays)
			sub.IsTrialActive = true
			sub.TrialEndDate = &end
		}
		if err := s.subs.Create(ctx, sub); err != nil {
			return nil, storeErr(err, "subscription")
		}
		s.log.Info("Subscription: created host_id=%d plan=%s trial_days=%d", actor.UserID, plan.ID, plan.TrialDays)
		return sub, nil
	}

	out, err := s.subs.Mutate(ctx, existing.ID, func(sub *domain.HostSubscription) error {
		if sub.PaymentStatus == domain.BillingSubmitted {
			return ErrPaymentUnderReview
		}
		if sub.PaidThrough(now) {
			// the paid period runs out on the current plan
			if plan.ID == sub.PlanID && req.BillingPeriod == sub.BillingPeriod {
				sub.PendingPlanID, sub.PendingPeriod = "", ""
			} else {
				sub.PendingPlanID, sub.PendingPeriod = plan.ID, req.BillingPeriod
			}
			return nil
		}
		sub.PendingPlanID, sub.PendingPeriod = "", ""
		sub.PlanID = plan.ID
		sub.BillingPeriod = req.BillingPeriod
		sub.PaymentStatus = domain.BillingPending
		sub.RejectionReason = ""
		sub.TransactionRef = ""
		sub.ReceiptRef = ""
		sub.AmountPaid = 0
		if !sub.TrialRunning(now) {
			sub.Status = domain.SubscriptionPending
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "subscription")
	}
	if out.PendingPlanID != "" {
		s.log.Info("Subscription: plan change scheduled host_id=%d plan=%s period=%s after=%s", actor.UserID, plan.ID, req.BillingPeriod, out.EndDate.Format("2006-01-02"))
		return out, nil
	}
	s.log.Info("Subscription: plan changed host_id=%d plan=%s period=%s", actor.UserID, plan.ID, req.BillingPeriod)
	return out, nil
}

// SubmitPayment records the host's billing payment for admin review. It is
// accepted while payment is pending or was rejected, and for renewals once a
// verified period has lapsed.
func (s *Service) SubmitPayment(ctx context.Context, actor domain.ActorContext, req SubmitPaymentRequest) (*domain.HostSubscription, error) {
	if !actor.IsHost() {
		return nil, ErrHostOnly
	}
	ref := strings.TrimSpace(req.TransactionRef)
	if ref == "" {
		return nil, domain.Validation("transaction reference is required")
	}
	existing, err := s.current(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrSubscriptionNotFound
	}
	planID, period := existing.NextBilling()
	plan, err := s.subs.GetPlan(ctx, planID)
	if err != nil {
		return nil, storeErr(err, "plan")
	}
	price := plan.Price(period)
	if math.Abs(req.Amount-price) > 0.005 {
		return nil, domain.Validation("amount must be %.2f for the %s %s plan", price, period, plan.Name)
	}
	now := s.clock.Now()

	out, err := s.subs.Mutate(ctx, existing.ID, func(sub *domain.HostSubscription) error {
		switch sub.PaymentStatus {
		case domain.BillingPending, domain.BillingRejected:
		case domain.BillingVerified:
			if sub.EndDate != nil && !now.After(*sub.EndDate) {
				return domain.InvalidTransition("subscription is paid until %s", sub.EndDate.Format("2006-01-02"))
			}
		default:
			return domain.InvalidTransition("cannot submit payment while payment is %s", sub.PaymentStatus)
		}
		sub.PaymentStatus = domain.BillingSubmitted
		sub.TransactionRef = ref
		sub.ReceiptRef = strings.TrimSpace(req.ReceiptRef)
		sub.AmountPaid = req.Amount
		sub.RejectionReason = ""
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "subscription")
	}
	s.log.Info("Subscription: payment submitted id=%s host_id=%d amount=%.2f", out.ID, actor.UserID, req.Amount)
	return out, nil
}

func (s *Service) Usage(ctx context.Context, actor domain.ActorContext) (*Usage, error) {
	if !actor.IsHost() {
		return nil, ErrHostOnly
	}
	plan, _, err := s.PropertyAllowance(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrSubscriptionNotFound
	}
	n, err := s.properties.CountByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "property count")
	}

	u := &Usage{PlanID: plan.ID, PlanName: plan.Name, Properties: n, Limit: -1, Remaining: -1}
	if !plan.Unlimited() {
		u.Limit = plan.MaxProperties
		u.Remaining = max(plan.MaxProperties-n, 0)
	}
	return u, nil
}

// PropertyAllowance returns the host's plan, or nil without a subscription,
// together with the active catalog for upgrade hints.
func (s *Service) PropertyAllowance(ctx context.Context, hostID int64) (*domain.Plan, []domain.Plan, error) {
	catalog, err := s.Plans(ctx)
	if err != nil {
		return nil, nil, err
	}
	sub, err := s.current(ctx, hostID)
	if err != nil || sub == nil {
		return nil, catalog, err
	}
	plan, err := s.subs.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, storeErr(err, "plan")
	}
	return plan, catalog, nil
}

/* ---------- ADMIN ---------- */

func (s *Service) ListForReview(ctx context.Context, actor domain.ActorContext, status domain.BillingStatus) ([]*domain.HostSubscription, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	switch status {
	case "", domain.BillingPending, domain.BillingSubmitted, domain.BillingVerified, domain.BillingRejected:
	default:
		return nil, domain.Validation("unknown payment status %q", status)
	}
	out, err := s.subs.ListByPaymentStatus(ctx, status)
	if err != nil {
		return nil, storeErr(err, "subscriptions")
	}
	return out, nil
}

// Approve verifies a submitted payment and starts a paid period from now.
func (s *Service) Approve(ctx context.Context, actor domain.ActorContext, id string) (*domain.HostSubscription, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	now := s.clock.Now()
	out, err := s.subs.Mutate(ctx, id, func(sub *domain.HostSubscription) error {
		if sub.PaymentStatus != domain.BillingSubmitted {
			return domain.InvalidTransition("cannot approve a subscription whose payment is %s", sub.PaymentStatus)
		}
		if sub.PendingPlanID != "" {
			sub.PlanID, sub.BillingPeriod = sub.PendingPlanID, sub.PendingPeriod
			sub.PendingPlanID, sub.PendingPeriod = "", ""
		}
		end := sub.BillingPeriod.Extend(now)
		start := now
		reviewer := actor.UserID
		sub.PaymentStatus = domain.BillingVerified
		sub.Status = domain.SubscriptionActive
		sub.StartDate = &start
		sub.EndDate = &end
		sub.IsTrialActive = false
		sub.RejectionReason = ""
		sub.ReviewedBy = &reviewer
		sub.ReviewedAt = &start
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "subscription")
	}
	s.log.Info("Subscription: approved id=%s host_id=%d by=%d until=%s", out.ID, out.HostID, actor.UserID, out.EndDate.Format("2006-01-02"))
	return out, nil
}

// Reject needs a reason the host can act on. The subscription status is left
// alone so a running trial keeps working.
func (s *Service) Reject(ctx context.Context, actor domain.ActorContext, id, reason string) (*domain.HostSubscription, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Validation("rejection reason is required")
	}
	now := s.clock.Now()
	out, err := s.subs.Mutate(ctx, id, func(sub *domain.HostSubscription) error {
		if sub.PaymentStatus != domain.BillingSubmitted {
			return domain.InvalidTransition("cannot reject a subscription whose payment is %s", sub.PaymentStatus)
		}
		reviewer := actor.UserID
		sub.PaymentStatus = domain.BillingRejected
		sub.RejectionReason = reason
		sub.ReviewedBy = &reviewer
		sub.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "subscription")
	}
	s.log.Warn("Subscription: rejected id=%s host_id=%d by=%d reason=%q", out.ID, out.HostID, actor.UserID, reason)
	return out, nil
}

// Sweep is the periodic bookkeeping job: lapsed paid periods become expired
// and finished trials are switched off.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	now := s.clock.Now()
	var res SweepResult
	var err error
	if res.Expired, err = s.subs.ExpireLapsed(ctx, now); err != nil {
		return res, storeErr(err, "expire subscriptions")
	}
	if res.TrialsEnded, err = s.subs.EndLapsedTrials(ctx, now); err != nil {
		return res, storeErr(err, "end trials")
	}
	if res.Expired > 0 || res.TrialsEnded > 0 {
		s.log.Info("Subscription: sweep expired=%d trials_ended=%d", res.Expired, res.TrialsEnded)
	}
	return res, nil
}
