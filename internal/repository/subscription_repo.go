package repository

import (
	"context"
	"time"

	"servicehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

type planModel struct {
	ID            string  `gorm:"column:id;type:varchar(50);primaryKey"`
	Name          string  `gorm:"column:name;not null"`
	Description   string  `gorm:"column:description"`
	PriceMonthly  float64 `gorm:"column:price_monthly"`
	PriceYearly   float64 `gorm:"column:price_yearly"`
	MaxProperties int     `gorm:"column:max_properties"`
	TrialDays     int     `gorm:"column:trial_days"`
	SortOrder     int     `gorm:"column:sort_order"`
	IsActive      bool    `gorm:"column:is_active"`
}

func (planModel) TableName() string { return "subscription_plans" }

type subscriptionModel struct {
	ID              string     `gorm:"column:id;type:varchar(36);primaryKey"`
	HostID          int64      `gorm:"column:host_id;uniqueIndex;not null"`
	PlanID          string     `gorm:"column:plan_id;not null"`
	Status          string     `gorm:"column:status;index;not null"`
	IsTrialActive   bool       `gorm:"column:is_trial_active"`
	TrialEndDate    *time.Time `gorm:"column:trial_end_date"`
	StartDate       *time.Time `gorm:"column:start_date"`
	EndDate         *time.Time `gorm:"column:end_date"`
	BillingPeriod   string     `gorm:"column:billing_period"`
	PaymentStatus   string     `gorm:"column:payment_status;index"`
	PendingPlanID   *string    `gorm:"column:pending_plan_id"`
	PendingPeriod   *string    `gorm:"column:pending_billing_period"`
	TransactionRef  *string    `gorm:"column:transaction_ref"`
	ReceiptRef      *string    `gorm:"column:receipt_ref"`
	AmountPaid      float64    `gorm:"column:amount_paid"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`
	ReviewedBy      *int64     `gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (subscriptionModel) TableName() string { return "host_subscriptions" }

func (m *subscriptionModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func toDomainPlan(m planModel) domain.Plan {
	return domain.Plan{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		PriceMonthly:  m.PriceMonthly,
		PriceYearly:   m.PriceYearly,
		MaxProperties: m.MaxProperties,
		TrialDays:     m.TrialDays,
		SortOrder:     m.SortOrder,
		IsActive:      m.IsActive,
	}
}

func toPlanModel(p domain.Plan) planModel {
	return planModel{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PriceMonthly:  p.PriceMonthly,
		PriceYearly:   p.PriceYearly,
		MaxProperties: p.MaxProperties,
		TrialDays:     p.TrialDays,
		SortOrder:     p.SortOrder,
		IsActive:      p.IsActive,
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDomainSubscription(m subscriptionModel) *domain.HostSubscription {
	return &domain.HostSubscription{
		ID:              m.ID,
		HostID:          m.HostID,
		PlanID:          m.PlanID,
		Status:          domain.SubscriptionStatus(m.Status),
		IsTrialActive:   m.IsTrialActive,
		TrialEndDate:    m.TrialEndDate,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		BillingPeriod:   domain.BillingPeriod(m.BillingPeriod),
		PaymentStatus:   domain.BillingStatus(m.PaymentStatus),
		PendingPlanID:   strVal(m.PendingPlanID),
		PendingPeriod:   domain.BillingPeriod(strVal(m.PendingPeriod)),
		TransactionRef:  strVal(m.TransactionRef),
		ReceiptRef:      strVal(m.ReceiptRef),
		AmountPaid:      m.AmountPaid,
		RejectionReason: strVal(m.RejectionReason),
		ReviewedBy:      m.ReviewedBy,
		ReviewedAt:      m.ReviewedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toSubscriptionModel(s *domain.HostSubscription) subscriptionModel {
	return subscriptionModel{
		ID:              s.ID,
		HostID:          s.HostID,
		PlanID:          s.PlanID,
		Status:          string(s.Status),
		IsTrialActive:   s.IsTrialActive,
		TrialEndDate:    s.TrialEndDate,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		BillingPeriod:   string(s.BillingPeriod),
		PaymentStatus:   string(s.PaymentStatus),
		PendingPlanID:   strPtr(s.PendingPlanID),
		PendingPeriod:   strPtr(string(s.PendingPeriod)),
		TransactionRef:  strPtr(s.TransactionRef),
		ReceiptRef:      strPtr(s.ReceiptRef),
		AmountPaid:      s.AmountPaid,
		RejectionReason: strPtr(s.RejectionReason),
		ReviewedBy:      s.ReviewedBy,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// UpsertPlans inserts the catalog or refreshes existing rows by id.
func (r *SubscriptionRepository) UpsertPlans(ctx context.Context, plans []domain.Plan) error {
	if len(plans) == 0 {
		return nil
	}
	rows := make([]planModel, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, toPlanModel(p))
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}

func (r *SubscriptionRepository) ListPlans(ctx context.Context, onlyActive bool) ([]domain.Plan, error) {
	q := r.db.WithContext(ctx).Model(&planModel{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var rows []planModel
	if err := q.Order("sort_order ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Plan, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainPlan(m))
	}
	return out, nil
}

func (r *SubscriptionRepository) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	var m planModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	p := toDomainPlan(m)
	return &p, nil
}

func (r *SubscriptionRepository) GetByHost(ctx context.Context, hostID int64) (*domain.HostSubscription, error) {
	var m subscriptionModel
	if err := r.db.WithContext(ctx).Where("host_id = ?", hostID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainSubscription(m), nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*domain.HostSubscription, error) {
	var m subscriptionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainSubscription(m), nil
}

// Create stores the host's first subscription. A host has at most one row.
func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.HostSubscription) error {
	m := toSubscriptionModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*s = *toDomainSubscription(m)
	return nil
}

// Mutate locks the subscription row, applies fn and saves every field.
func (r *SubscriptionRepository) Mutate(ctx context.Context, id string, fn func(s *domain.HostSubscription) error) (*domain.HostSubscription, error) {
	var out *domain.HostSubscription
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m subscriptionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
			return translate(err)
		}
		s := toDomainSubscription(m)
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = time.Now().UTC()
		updated := toSubscriptionModel(s)
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		out = toDomainSubscription(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SubscriptionRepository) ListByPaymentStatus(ctx context.Context, status domain.BillingStatus) ([]*domain.HostSubscription, error) {
	q := r.db.WithContext(ctx).Model(&subscriptionModel{})
	if status != "" {
		q = q.Where("payment_status = ?", string(status))
	}
	var rows []subscriptionModel
	if err := q.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.HostSubscription, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainSubscription(m))
	}
	return out, nil
}

// ExpireLapsed marks active subscriptions whose end date has passed as
// expired. Access decisions never depend on this; it keeps listings honest.
func (r *SubscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&subscriptionModel{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", string(domain.SubscriptionActive), now).
		Updates(map[string]any{
			"status":     string(domain.SubscriptionExpired),
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

// EndLapsedTrials clears the trial flag once the trial window is over.
func (r *SubscriptionRepository) EndLapsedTrials(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&subscriptionModel{}).
		Where("is_trial_active = ? AND trial_end_date IS NOT NULL AND trial_end_date <= ?", true, now).
		Updates(map[string]any{
			"is_trial_active": false,
			"updated_at":      now,
		})
	return res.RowsAffected, res.Error
}
