package domain

import "time"

// Plan is a host subscription tier. MaxProperties < 0 means unlimited.
type Plan struct {
	ID            string  `json:"id" toml:"id"`
	Name          string  `json:"name" toml:"name"`
	Description   string  `json:"description,omitempty" toml:"description"`
	PriceMonthly  float64 `json:"price_monthly" toml:"price_monthly"`
	PriceYearly   float64 `json:"price_yearly" toml:"price_yearly"`
	MaxProperties int     `json:"max_properties" toml:"max_properties"`
	TrialDays     int     `json:"trial_days" toml:"trial_days"`
	SortOrder     int     `json:"sort_order" toml:"sort_order"`
	IsActive      bool    `json:"is_active" toml:"is_active"`
}

func (p *Plan) Unlimited() bool { return p.MaxProperties < 0 }

func (p *Plan) Price(period BillingPeriod) float64 {
	if period == BillingYearly {
		return p.PriceYearly
	}
	return p.PriceMonthly
}

type SubscriptionStatus string

const (
	SubscriptionNone    SubscriptionStatus = "none"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionPending SubscriptionStatus = "pending"
	SubscriptionExpired SubscriptionStatus = "expired"
)

type BillingStatus string

const (
	BillingPending   BillingStatus = "pending"
	BillingSubmitted BillingStatus = "submitted"
	BillingVerified  BillingStatus = "verified"
	BillingRejected  BillingStatus = "rejected"
)

type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

func (p BillingPeriod) Valid() bool {
	return p == BillingMonthly || p == BillingYearly
}

// Extend returns from advanced by one billing period.
func (p BillingPeriod) Extend(from time.Time) time.Time {
	if p == BillingYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

// HostSubscription is the host's plan state plus the billing record the admin
// reviews. Expiry is never stored as truth; it is evaluated at read time.
type HostSubscription struct {
	ID              string             `json:"id"`
	HostID          int64              `json:"host_id"`
	PlanID          string             `json:"plan_id"`
	Status          SubscriptionStatus `json:"status"`
	IsTrialActive   bool               `json:"is_trial_active"`
	TrialEndDate    *time.Time         `json:"trial_end_date,omitempty"`
	StartDate       *time.Time         `json:"start_date,omitempty"`
	EndDate         *time.Time         `json:"end_date,omitempty"`
	BillingPeriod   BillingPeriod      `json:"billing_period"`
	PaymentStatus   BillingStatus      `json:"payment_status"`
	PendingPlanID   string             `json:"pending_plan_id,omitempty"`
	PendingPeriod   BillingPeriod      `json:"pending_billing_period,omitempty"`
	TransactionRef  string             `json:"transaction_ref,omitempty"`
	ReceiptRef      string             `json:"receipt_ref,omitempty"`
	AmountPaid      float64            `json:"amount_paid,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	ReviewedBy      *int64             `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// PaidThrough reports whether a verified paid period still covers now.
func (s *HostSubscription) PaidThrough(now time.Time) bool {
	return s.PaymentStatus == BillingVerified && s.EndDate != nil && !now.After(*s.EndDate)
}

// NextBilling is the plan and period the next payment is for: a change
// scheduled during a paid period, or the current plan.
func (s *HostSubscription) NextBilling() (string, BillingPeriod) {
	if s.PendingPlanID != "" {
		return s.PendingPlanID, s.PendingPeriod
	}
	return s.PlanID, s.BillingPeriod
}

// TrialRunning reports whether the trial window is still open at now.
func (s *HostSubscription) TrialRunning(now time.Time) bool {
	return s.IsTrialActive && s.TrialEndDate != nil && now.Before(*s.TrialEndDate)
}
