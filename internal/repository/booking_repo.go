package repository

import (
	"context"
	"errors"
	"time"

	"servicehub/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	Department         string    `gorm:"column:department;index;not null"`
	PropertyID         int64     `gorm:"column:property_id;index;not null"`
	HostID             int64     `gorm:"column:host_id;index;not null"`
	CustomerID         int64     `gorm:"column:customer_id;index;not null"`
	SpecialistID       *int64    `gorm:"column:specialist_id"`
	ServiceID          *int64    `gorm:"column:service_id"`
	Details            string    `gorm:"column:details;type:text"`
	BasePrice          float64   `gorm:"column:base_price"`
	ServiceSurcharge   float64   `gorm:"column:service_surcharge"`
	DiscountAmount     float64   `gorm:"column:discount_amount"`
	CouponCode         *string   `gorm:"column:coupon_code"`
	FinalPrice         float64   `gorm:"column:final_price"`
	Status             string    `gorm:"column:status;index;not null"`
	CancellationReason *string   `gorm:"column:cancellation_reason;type:text"`
	Version            int64     `gorm:"column:version;not null;default:1"`
	CreatedAt          time.Time `gorm:"column:created_at;index"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

var bookingColumns = []string{
	"id", "department", "property_id", "host_id", "customer_id", "specialist_id", "service_id",
	"details", "base_price", "service_surcharge", "discount_amount", "coupon_code", "final_price",
	"status", "cancellation_reason", "version", "created_at", "updated_at",
}

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	dep := domain.Department(m.Department)
	details, err := domain.DecodeDetails(dep, []byte(m.Details))
	if err != nil {
		return nil, err
	}

	var coupon, reason string
	if m.CouponCode != nil {
		coupon = *m.CouponCode
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		Department:         dep,
		PropertyID:         m.PropertyID,
		HostID:             m.HostID,
		CustomerID:         m.CustomerID,
		SpecialistID:       m.SpecialistID,
		ServiceID:          m.ServiceID,
		Details:            details,
		BasePrice:          m.BasePrice,
		ServiceSurcharge:   m.ServiceSurcharge,
		DiscountAmount:     m.DiscountAmount,
		CouponCode:         coupon,
		FinalPrice:         m.FinalPrice,
		Status:             domain.BookingStatus(m.Status),
		CancellationReason: reason,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	raw, err := domain.EncodeDetails(b.Details)
	if err != nil {
		return bookingModel{}, err
	}

	var coupon, reason *string
	if b.CouponCode != "" {
		v := b.CouponCode
		coupon = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		Department:         string(b.Department),
		PropertyID:         b.PropertyID,
		HostID:             b.HostID,
		CustomerID:         b.CustomerID,
		SpecialistID:       b.SpecialistID,
		ServiceID:          b.ServiceID,
		Details:            string(raw),
		BasePrice:          b.BasePrice,
		ServiceSurcharge:   b.ServiceSurcharge,
		DiscountAmount:     b.DiscountAmount,
		CouponCode:         coupon,
		FinalPrice:         b.FinalPrice,
		Status:             string(b.Status),
		CancellationReason: reason,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.Version == 0 {
		b.Version = 1
	}
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	b.ID = m.ID
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m)
}

// Mutate serializes changes to one booking. The row is read under
// SELECT ... FOR UPDATE and written back only if its version is unchanged;
// fn runs inside the transaction and may modify the booking in place.
func (r *BookingRepository) Mutate(ctx context.Context, id int64, fn func(b *domain.Booking) error) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
		if err := saveBooking(tx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lockBooking(tx *gorm.DB, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m)
}

// saveBooking persists status fields with an optimistic version check and
// bumps the version on success.
func saveBooking(tx *gorm.DB, b *domain.Booking) error {
	var reason *string
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now().UTC()
	}

	res := tx.Model(&bookingModel{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Updates(map[string]any{
			"status":              string(b.Status),
			"cancellation_reason": reason,
			"version":             b.Version + 1,
			"updated_at":          b.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	b.Version++
	return nil
}

// Delete removes the booking and its payment records.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&paymentModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&bookingModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// BookingFilter narrows booking listings. Zero values mean "no constraint".
type BookingFilter struct {
	HostID     int64
	CustomerID int64
	PropertyID int64
	Status     domain.BookingStatus
	Department domain.Department
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// List runs the filtered query built with squirrel, newest first.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]*domain.Booking, error) {
	query, args, err := buildBookingQuery(f)
	if err != nil {
		return nil, err
	}

	var rows []bookingModel
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func buildBookingQuery(f BookingFilter) (string, []any, error) {
	q := sq.Select(bookingColumns...).From("bookings").OrderBy("created_at DESC", "id DESC")

	if f.HostID != 0 {
		q = q.Where(sq.Eq{"host_id": f.HostID})
	}
	if f.CustomerID != 0 {
		q = q.Where(sq.Eq{"customer_id": f.CustomerID})
	}
	if f.PropertyID != 0 {
		q = q.Where(sq.Eq{"property_id": f.PropertyID})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Department != "" {
		q = q.Where(sq.Eq{"department": string(f.Department)})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(sq.Lt{"created_at": *f.To})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
		if f.Offset > 0 {
			q = q.Offset(uint64(f.Offset))
		}
	}

	return q.ToSql()
}

// IsConcurrentUpdate reports whether err came from a lost version race.
func IsConcurrentUpdate(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate)
}
