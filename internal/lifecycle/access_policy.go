package lifecycle

import (
	"time"

	"servicehub/internal/domain"
)

type AccessReason string

const (
	ReasonNoSubscription               AccessReason = "no_subscription"
	ReasonTrialActive                  AccessReason = "trial_active"
	ReasonTrialExpiredPaymentPending   AccessReason = "trial_expired_payment_pending"
	ReasonTrialExpiredAwaitingApproval AccessReason = "trial_expired_awaiting_approval"
	ReasonActive                       AccessReason = "active"
	ReasonTrialExpired                 AccessReason = "trial_expired"
	ReasonSubscriptionExpired          AccessReason = "subscription_expired"
)

type NextAction string

const (
	ActionNone            NextAction = ""
	ActionSelectPlan      NextAction = "select_plan"
	ActionSubmitPayment   NextAction = "submit_payment"
	ActionWaitForApproval NextAction = "wait_for_approval"
	ActionRenew           NextAction = "renew"
)

type AccessDecision struct {
	HasAccess    bool         `json:"has_access"`
	Reason       AccessReason `json:"reason"`
	Message      string       `json:"message"`
	TrialEndDate *time.Time   `json:"trial_end_date,omitempty"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	NextAction   NextAction   `json:"next_action,omitempty"`
}

// Err is nil when access is granted and an access_denied error otherwise.
func (d AccessDecision) Err() error {
	if d.HasAccess {
		return nil
	}
	return &domain.Error{Kind: domain.KindAccessDenied, Message: d.Message}
}

// EvaluateAccess decides whether a host may manage properties and bookings.
// Rules are checked in order and the first match wins; an active trial
// overrides whatever state the billing record is in.
func EvaluateAccess(sub *domain.HostSubscription, now time.Time) AccessDecision {
	if sub == nil || sub.Status == domain.SubscriptionNone || sub.Status == "" {
		return AccessDecision{
			Reason:     ReasonNoSubscription,
			Message:    "Select a plan to start managing your properties",
			NextAction: ActionSelectPlan,
		}
	}

	d := AccessDecision{TrialEndDate: sub.TrialEndDate, EndDate: sub.EndDate}

	if sub.TrialRunning(now) {
		d.HasAccess = true
		d.Reason = ReasonTrialActive
		d.Message = "Free trial is active"
		return d
	}

	switch sub.PaymentStatus {
	case domain.BillingPending, "":
		d.Reason = ReasonTrialExpiredPaymentPending
		d.Message = "Your trial has ended. Submit the subscription payment to continue"
		d.NextAction = ActionSubmitPayment
		return d
	case domain.BillingSubmitted:
		d.Reason = ReasonTrialExpiredAwaitingApproval
		d.Message = "Your payment is awaiting admin approval"
		d.NextAction = ActionWaitForApproval
		return d
	}

	if sub.PaymentStatus == domain.BillingVerified &&
		sub.Status == domain.SubscriptionActive &&
		sub.EndDate != nil && !now.After(*sub.EndDate) {
		d.HasAccess = true
		d.Reason = ReasonActive
		d.Message = "Subscription is active"
		return d
	}

	d.NextAction = ActionRenew
	if sub.PaymentStatus == domain.BillingVerified {
		d.Reason = ReasonSubscriptionExpired
		d.Message = "Your subscription has expired. Renew to continue"
		return d
	}
	d.Reason = ReasonTrialExpired
	d.Message = "Your trial has expired. Renew your subscription to continue"
	return d
}
