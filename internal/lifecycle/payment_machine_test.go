package lifecycle

import (
	"errors"
	"testing"

	"servicehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() PaymentSubmission {
	return PaymentSubmission{Amount: 1200, Method: domain.PaymentUPI, TransactionRef: "UTR123", ReceiptRef: "receipts/42.png"}
}

func TestPaymentSubmit(t *testing.T) {
	m := NewPaymentMachine(FixedTime(machineNow))

	p, err := m.Submit(customer, newBooking(domain.BookingPending), nil, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, p.Status)
	assert.Equal(t, int64(42), p.BookingID)

	tests := []struct {
		name     string
		actor    domain.ActorContext
		status   domain.BookingStatus
		existing []domain.Payment
		edit     func(*PaymentSubmission)
		want     error
	}{
		{"cash is not submitted", customer, domain.BookingPending, nil, func(s *PaymentSubmission) { s.Method = domain.PaymentCash }, domain.ErrValidation},
		{"missing receipt", customer, domain.BookingPending, nil, func(s *PaymentSubmission) { s.ReceiptRef = " " }, domain.ErrValidation},
		{"missing reference", customer, domain.BookingPending, nil, func(s *PaymentSubmission) { s.TransactionRef = "" }, domain.ErrValidation},
		{"zero amount", customer, domain.BookingPending, nil, func(s *PaymentSubmission) { s.Amount = 0 }, domain.ErrValidation},
		{"host cannot submit", host, domain.BookingPending, nil, func(*PaymentSubmission) {}, domain.ErrForbidden},
		{"confirmed booking", customer, domain.BookingConfirmed, nil, func(*PaymentSubmission) {}, domain.ErrInvalidTransition},
		{"pending payment exists", customer, domain.BookingPending, []domain.Payment{{Status: domain.PaymentStatusPending}}, func(*PaymentSubmission) {}, domain.ErrInvalidTransition},
		{"already verified", customer, domain.BookingPending, []domain.Payment{{Status: domain.PaymentStatusVerified}}, func(*PaymentSubmission) {}, domain.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubmission()
			tt.edit(&in)
			_, err := m.Submit(tt.actor, newBooking(tt.status), tt.existing, in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err = m.Submit(customer, newBooking(domain.BookingPending), []domain.Payment{{Status: domain.PaymentStatusRejected}}, validSubmission())
	assert.NoError(t, err, "a rejected payment can be retried")
}

func TestPaymentVerify(t *testing.T) {
	m := NewPaymentMachine(FixedTime(machineNow))
	b := newBooking(domain.BookingPending)
	p := &domain.Payment{ID: "p1", BookingID: b.ID, Status: domain.PaymentStatusPending}

	ev, err := m.Verify(host, b, p, " looks good ")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusVerified, p.Status)
	assert.Equal(t, host.UserID, *p.VerifiedBy)
	assert.Equal(t, "looks good", p.Notes)
	assert.Equal(t, domain.PaymentVerified{BookingID: 42, PaymentID: "p1", VerifiedBy: host.UserID, VerifierRole: domain.RoleHost, At: machineNow}, ev)

	_, err = m.Verify(host, b, p, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = m.Reject(host, b, p, "duplicate")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestPaymentVerify_AdminConfirmsAsAdmin(t *testing.T) {
	payments := NewPaymentMachine(FixedTime(machineNow))
	bookings := NewBookingMachine(FixedTime(machineNow))
	b := newBooking(domain.BookingPaymentPending)
	p := &domain.Payment{ID: "p3", BookingID: b.ID, Status: domain.PaymentStatusPending}

	ev, err := payments.Verify(admin, b, p, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, ev.VerifierRole)

	changed, err := bookings.ApplyPaymentVerified(b, ev)
	require.NoError(t, err)
	require.NotNil(t, changed)
	assert.Equal(t, admin, changed.Actor)
	assert.Equal(t, domain.BookingConfirmed, changed.To)
}

func TestPaymentReject(t *testing.T) {
	m := NewPaymentMachine(FixedTime(machineNow))
	b := newBooking(domain.BookingPaymentPending)
	p := &domain.Payment{ID: "p2", BookingID: b.ID, Status: domain.PaymentStatusPending}

	_, err := m.Reject(host, b, p, "   ")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, domain.PaymentStatusPending, p.Status)

	_, err = m.Reject(otherHost, b, p, "blurry receipt")
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	ev, err := m.Reject(admin, b, p, "blurry receipt")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRejected, p.Status)
	assert.Equal(t, "blurry receipt", ev.Reason)
	assert.Equal(t, domain.BookingPaymentPending, b.Status, "rejection leaves the booking alone")

	_, err = m.Verify(admin, b, p, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}
