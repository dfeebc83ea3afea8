package lifecycle

import (
	"strings"

	"servicehub/internal/domain"
)

type PaymentSubmission struct {
	Amount         float64
	Method         domain.PaymentMethod
	TransactionRef string
	ReceiptRef     string
}

// PaymentMachine drives the manual verification of customer payments.
type PaymentMachine struct {
	clock TimeProvider
}

func NewPaymentMachine(clock TimeProvider) *PaymentMachine {
	if clock == nil {
		clock = RealTimeProvider{}
	}
	return &PaymentMachine{clock: clock}
}

// Submit builds a pending payment for b. existing are the booking's earlier
// payments; a new one is refused while another is pending or once one was
// verified.
func (m *PaymentMachine) Submit(actor domain.ActorContext, b *domain.Booking, existing []domain.Payment, in PaymentSubmission) (*domain.Payment, error) {
	if actor.Role != domain.RoleCustomer || actor.UserID != b.CustomerID {
		return nil, domain.Forbidden("only the booking's customer can submit a payment")
	}
	if !in.Method.Valid() {
		return nil, domain.Validation("unknown payment method %q", in.Method)
	}
	if in.Method == domain.PaymentCash {
		return nil, domain.Validation("cash payments are confirmed by the host, not submitted")
	}
	if strings.TrimSpace(in.TransactionRef) == "" || strings.TrimSpace(in.ReceiptRef) == "" {
		return nil, domain.Validation("transaction reference and receipt are required")
	}
	if in.Amount <= 0 {
		return nil, domain.Validation("amount must be positive")
	}
	if !b.Status.AwaitingConfirmation() {
		return nil, domain.InvalidTransition("booking %d is %s and does not accept payments", b.ID, b.Status)
	}
	for _, p := range existing {
		switch p.Status {
		case domain.PaymentStatusPending:
			return nil, domain.InvalidTransition("booking %d already has a payment awaiting verification", b.ID)
		case domain.PaymentStatusVerified:
			return nil, domain.InvalidTransition("booking %d is already paid", b.ID)
		}
	}

	return &domain.Payment{
		BookingID:      b.ID,
		Amount:         round2(in.Amount),
		Method:         in.Method,
		TransactionRef: strings.TrimSpace(in.TransactionRef),
		ReceiptRef:     strings.TrimSpace(in.ReceiptRef),
		Status:         domain.PaymentStatusPending,
		CreatedAt:      m.clock.Now(),
	}, nil
}

// Verify marks p verified and returns the event that confirms the booking.
func (m *PaymentMachine) Verify(actor domain.ActorContext, b *domain.Booking, p *domain.Payment, notes string) (domain.PaymentVerified, error) {
	if err := m.checkDecision(actor, b, p); err != nil {
		return domain.PaymentVerified{}, err
	}

	now := m.clock.Now()
	reviewer := actor.UserID
	p.Status = domain.PaymentStatusVerified
	p.VerifiedBy = &reviewer
	p.Notes = strings.TrimSpace(notes)
	p.DecidedAt = &now

	return domain.PaymentVerified{
		BookingID:    b.ID,
		PaymentID:    p.ID,
		VerifiedBy:   reviewer,
		VerifierRole: actor.Role,
		At:           now,
	}, nil
}

// Reject marks p rejected. The booking itself is left untouched so the
// customer can pay again or cancel.
func (m *PaymentMachine) Reject(actor domain.ActorContext, b *domain.Booking, p *domain.Payment, reason string) (domain.PaymentRejected, error) {
	if err := authorizeHost(actor, b); err != nil {
		return domain.PaymentRejected{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.PaymentRejected{}, domain.Validation("rejection reason is required")
	}
	if err := m.checkDecision(actor, b, p); err != nil {
		return domain.PaymentRejected{}, err
	}

	now := m.clock.Now()
	reviewer := actor.UserID
	p.Status = domain.PaymentStatusRejected
	p.VerifiedBy = &reviewer
	p.RejectionReason = reason
	p.DecidedAt = &now

	return domain.PaymentRejected{
		BookingID:  b.ID,
		PaymentID:  p.ID,
		RejectedBy: reviewer,
		Reason:     reason,
		At:         now,
	}, nil
}

func (m *PaymentMachine) checkDecision(actor domain.ActorContext, b *domain.Booking, p *domain.Payment) error {
	if err := authorizeHost(actor, b); err != nil {
		return err
	}
	if p.BookingID != b.ID {
		return domain.Validation("payment %s does not belong to booking %d", p.ID, b.ID)
	}
	if p.Status != domain.PaymentStatusPending {
		return domain.InvalidTransition("payment %s is already %s", p.ID, p.Status)
	}
	return nil
}
