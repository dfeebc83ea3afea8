package subscription

import (
	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
)

type SelectPlanRequest struct {
	PlanID        string               `json:"plan_id" validate:"required"`
	BillingPeriod domain.BillingPeriod `json:"billing_period" validate:"required,oneof=monthly yearly"`
}

type SubmitPaymentRequest struct {
	Amount         float64 `json:"amount" validate:"gte=0"`
	TransactionRef string  `json:"transaction_ref" validate:"required,max=120"`
	ReceiptRef     string  `json:"receipt_ref" validate:"max=500"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ReviewQuery struct {
	PaymentStatus domain.BillingStatus `form:"payment_status"`
}

// Overview is what a host sees for GET /host/subscription.
type Overview struct {
	Subscription *domain.HostSubscription `json:"subscription"`
	Plan         *domain.Plan             `json:"plan,omitempty"`
	Access       lifecycle.AccessDecision `json:"access"`
}

// Usage compares the host's live properties with the plan limit. Limit and
// Remaining are -1 for unlimited plans.
type Usage struct {
	PlanID     string `json:"plan_id"`
	PlanName   string `json:"plan_name"`
	Properties int    `json:"properties"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
}

type SweepResult struct {
	Expired     int64 `json:"expired"`
	TrialsEnded int64 `json:"trials_ended"`
}
