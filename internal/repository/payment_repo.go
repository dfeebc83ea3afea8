package repository

import (
	"context"
	"time"

	"servicehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID              string     `gorm:"column:id;type:varchar(36);primaryKey"`
	BookingID       int64      `gorm:"column:booking_id;index;not null"`
	Amount          float64    `gorm:"column:amount;not null"`
	Method          string     `gorm:"column:method;not null"`
	TransactionRef  string     `gorm:"column:transaction_ref"`
	ReceiptRef      string     `gorm:"column:receipt_ref"`
	Status          string     `gorm:"column:status;index;not null"`
	VerifiedBy      *int64     `gorm:"column:verified_by"`
	Notes           *string    `gorm:"column:notes;type:text"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (paymentModel) TableName() string { return "payments" }

func (m *paymentModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func toDomainPayment(m paymentModel) *domain.Payment {
	p := &domain.Payment{
		ID:             m.ID,
		BookingID:      m.BookingID,
		Amount:         m.Amount,
		Method:         domain.PaymentMethod(m.Method),
		TransactionRef: m.TransactionRef,
		ReceiptRef:     m.ReceiptRef,
		Status:         domain.PaymentStatus(m.Status),
		VerifiedBy:     m.VerifiedBy,
		DecidedAt:      m.DecidedAt,
		CreatedAt:      m.CreatedAt,
	}
	if m.Notes != nil {
		p.Notes = *m.Notes
	}
	if m.RejectionReason != nil {
		p.RejectionReason = *m.RejectionReason
	}
	return p
}

func toPaymentModel(p *domain.Payment) paymentModel {
	m := paymentModel{
		ID:             p.ID,
		BookingID:      p.BookingID,
		Amount:         p.Amount,
		Method:         string(p.Method),
		TransactionRef: p.TransactionRef,
		ReceiptRef:     p.ReceiptRef,
		Status:         string(p.Status),
		VerifiedBy:     p.VerifiedBy,
		DecidedAt:      p.DecidedAt,
		CreatedAt:      p.CreatedAt,
	}
	if p.Notes != "" {
		v := p.Notes
		m.Notes = &v
	}
	if p.RejectionReason != "" {
		v := p.RejectionReason
		m.RejectionReason = &v
	}
	return m
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var m paymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	return listPayments(r.db.WithContext(ctx), bookingID)
}

func listPayments(db *gorm.DB, bookingID int64) ([]domain.Payment, error) {
	var rows []paymentModel
	if err := db.Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

// Submit locks the booking, hands it and its existing payments to build, and
// stores the payment build returns. Holding the booking lock keeps two
// submissions for the same booking from both passing the "no pending payment"
// check.
func (r *PaymentRepository) Submit(
	ctx context.Context,
	bookingID int64,
	build func(b *domain.Booking, existing []domain.Payment) (*domain.Payment, error),
) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		existing, err := listPayments(tx, bookingID)
		if err != nil {
			return err
		}
		p, err := build(b, existing)
		if err != nil {
			return err
		}

		m := toPaymentModel(p)
		if err := tx.Create(&m).Error; err != nil {
			return translate(err)
		}
		out = toDomainPayment(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decide runs a verification decision for one payment. The owning booking and
// the payment are both locked; decide may change the payment and the booking
// and both are written back in the same transaction.
func (r *PaymentRepository) Decide(
	ctx context.Context,
	paymentID string,
	decide func(b *domain.Booking, p *domain.Payment) error,
) (*domain.Booking, *domain.Payment, error) {
	var (
		outBooking *domain.Booking
		outPayment *domain.Payment
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pm paymentModel
		if err := tx.Where("id = ?", paymentID).First(&pm).Error; err != nil {
			return translate(err)
		}
		b, err := lockBooking(tx, pm.BookingID)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", paymentID).First(&pm).Error; err != nil {
			return translate(err)
		}

		p := toDomainPayment(pm)
		prevStatus := p.Status
		if err := decide(b, p); err != nil {
			return err
		}

		res := tx.Model(&paymentModel{}).
			Where("id = ? AND status = ?", p.ID, string(prevStatus)).
			Updates(map[string]any{
				"status":           string(p.Status),
				"verified_by":      p.VerifiedBy,
				"notes":            toPaymentModel(p).Notes,
				"rejection_reason": toPaymentModel(p).RejectionReason,
				"decided_at":       p.DecidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}
		if err := saveBooking(tx, b); err != nil {
			return err
		}

		outBooking, outPayment = b, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outBooking, outPayment, nil
}
