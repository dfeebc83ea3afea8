package repository

import (
	"context"
	"time"

	"servicehub/internal/domain"

	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

type couponModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Code          string    `gorm:"column:code;uniqueIndex;not null"`
	Description   string    `gorm:"column:description"`
	DiscountType  string    `gorm:"column:discount_type;not null"`
	DiscountValue float64   `gorm:"column:discount_value;not null"`
	ValidFrom     time.Time `gorm:"column:valid_from;not null"`
	ValidTo       time.Time `gorm:"column:valid_to;not null"`
	UserID        *int64    `gorm:"column:user_id;index"`
	PropertyID    *int64    `gorm:"column:property_id;index"`
	Status        string    `gorm:"column:status;index;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (couponModel) TableName() string { return "coupons" }

func toDomainCoupon(m couponModel) *domain.Coupon {
	return &domain.Coupon{
		ID:            m.ID,
		Code:          m.Code,
		Description:   m.Description,
		DiscountType:  domain.DiscountType(m.DiscountType),
		DiscountValue: m.DiscountValue,
		ValidFrom:     m.ValidFrom,
		ValidTo:       m.ValidTo,
		UserID:        m.UserID,
		PropertyID:    m.PropertyID,
		Status:        domain.CouponStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

func toCouponModel(c *domain.Coupon) couponModel {
	return couponModel{
		ID:            c.ID,
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		ValidFrom:     c.ValidFrom,
		ValidTo:       c.ValidTo,
		UserID:        c.UserID,
		PropertyID:    c.PropertyID,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
	}
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	m := toCouponModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*c = *toDomainCoupon(m)
	return nil
}

// GetByCode is an exact, case-sensitive lookup.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var m couponModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainCoupon(m), nil
}

func (r *CouponRepository) UpdateStatus(ctx context.Context, id int64, status domain.CouponStatus) (*domain.Coupon, error) {
	res := r.db.WithContext(ctx).Model(&couponModel{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var m couponModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainCoupon(m), nil
}

type CouponFilter struct {
	// VisibleTo limits the list to coupons without a user scope or scoped to
	// this user.
	VisibleTo  int64
	UserID     int64
	ActiveAt   *time.Time
	OnlyActive bool
}

func (r *CouponRepository) List(ctx context.Context, f CouponFilter) ([]*domain.Coupon, error) {
	q := r.db.WithContext(ctx).Model(&couponModel{})
	if f.VisibleTo != 0 {
		q = q.Where("user_id IS NULL OR user_id = ?", f.VisibleTo)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.OnlyActive {
		q = q.Where("status = ?", string(domain.CouponActive))
	}
	if f.ActiveAt != nil {
		q = q.Where("valid_from <= ? AND valid_to >= ?", *f.ActiveAt, *f.ActiveAt)
	}

	var rows []couponModel
	if err := q.Order("valid_to ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Coupon, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainCoupon(m))
	}
	return out, nil
}
