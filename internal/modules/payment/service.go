package payment

import (
	"context"
	"errors"
	"fmt"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/pkg/metrics"
	"servicehub/internal/repository"
)

var ErrPaymentConflict = domain.NewError(domain.KindConflict, "payment was decided by another request")

type Service struct {
	payments paymentRepo
	bookings bookingReader
	payment  *lifecycle.PaymentMachine
	booking  *lifecycle.BookingMachine
	notify   notifier
	metrics  *metrics.Metrics
	loggerf  func(format string, args ...interface{})
}

func NewService(
	payments paymentRepo,
	bookings bookingReader,
	clock lifecycle.TimeProvider,
	notify notifier,
	m *metrics.Metrics,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		payments: payments,
		bookings: bookings,
		payment:  lifecycle.NewPaymentMachine(clock),
		booking:  lifecycle.NewBookingMachine(clock),
		notify:   notify,
		metrics:  m,
		loggerf:  loggerf,
	}
}

// Submit records the customer's transfer evidence for bookingID. The booking
// status does not change until the host decides.
func (s *Service) Submit(ctx context.Context, actor domain.ActorContext, bookingID int64, req SubmitPaymentRequest) (*domain.Payment, error) {
	in := lifecycle.PaymentSubmission{
		Amount:         req.Amount,
		Method:         req.Method,
		TransactionRef: req.TransactionRef,
		ReceiptRef:     req.ReceiptRef,
	}
	p, err := s.payments.Submit(ctx, bookingID, func(b *domain.Booking, existing []domain.Payment) (*domain.Payment, error) {
		return s.payment.Submit(actor, b, existing, in)
	})
	if err != nil {
		return nil, mapErr(err, "booking")
	}

	s.loggerf("Payment: submitted payment_id=%s booking_id=%d amount=%.2f method=%s", p.ID, bookingID, p.Amount, p.Method)
	return p, nil
}

// List returns the payments of a booking to one of its parties.
func (s *Service) List(ctx context.Context, actor domain.ActorContext, bookingID int64) ([]domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapErr(err, "booking")
	}
	if !b.IsParty(actor) {
		return nil, domain.Forbidden("you are not a party of booking %d", bookingID)
	}
	out, err := s.payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, mapErr(err, "payments")
	}
	return out, nil
}

// Approve verifies a pending payment and confirms its booking in the same
// transaction. A booking that is already confirmed stays as it is.
func (s *Service) Approve(ctx context.Context, actor domain.ActorContext, paymentID string, notes string) (*Decision, error) {
	var (
		verified domain.PaymentVerified
		changed  *domain.BookingStatusChanged
	)
	b, p, err := s.payments.Decide(ctx, paymentID, func(b *domain.Booking, p *domain.Payment) error {
		ev, err := s.payment.Verify(actor, b, p, notes)
		if err != nil {
			return err
		}
		verified = ev
		changed, err = s.booking.ApplyPaymentVerified(b, ev)
		return err
	})
	if err != nil {
		return nil, mapErr(err, "payment")
	}

	s.loggerf("Payment: verified payment_id=%s booking_id=%d by=%d", p.ID, b.ID, actor.UserID)
	s.metrics.PaymentDecision(string(domain.PaymentStatusVerified))
	s.publish(verified, b)
	if changed != nil {
		s.metrics.BookingTransition(string(changed.From), string(changed.To), string(changed.Actor.Role))
		s.publish(*changed, b)
	}

	return &Decision{Booking: b, Payment: p}, nil
}

// Reject declines a pending payment. The booking keeps its status so the
// customer can pay again or cancel.
func (s *Service) Reject(ctx context.Context, actor domain.ActorContext, paymentID string, reason string) (*Decision, error) {
	var rejected domain.PaymentRejected
	b, p, err := s.payments.Decide(ctx, paymentID, func(b *domain.Booking, p *domain.Payment) error {
		ev, err := s.payment.Reject(actor, b, p, reason)
		if err != nil {
			return err
		}
		rejected = ev
		return nil
	})
	if err != nil {
		return nil, mapErr(err, "payment")
	}

	s.loggerf("Payment: rejected payment_id=%s booking_id=%d by=%d reason=%q", p.ID, b.ID, actor.UserID, rejected.Reason)
	s.metrics.PaymentDecision(string(domain.PaymentStatusRejected))
	s.publish(rejected, b)

	return &Decision{Booking: b, Payment: p}, nil
}

func (s *Service) publish(ev domain.Event, b *domain.Booking) {
	if s.notify == nil {
		return
	}
	s.notify.Notify(ev, b.CustomerID, b.HostID)
}

func mapErr(err error, what string) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound("%s not found", what)
	case errors.Is(err, repository.ErrConcurrentUpdate):
		return ErrPaymentConflict
	}
	return fmt.Errorf("%s: %w", what, err)
}
