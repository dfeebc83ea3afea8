package lifecycle

import (
	"errors"
	"testing"
	"time"

	"servicehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	machineNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	customer   = domain.ActorContext{UserID: 100, Role: domain.RoleCustomer}
	host       = domain.ActorContext{UserID: 200, Role: domain.RoleHost}
	otherHost  = domain.ActorContext{UserID: 201, Role: domain.RoleHost}
	admin      = domain.ActorContext{UserID: 1, Role: domain.RoleAdmin}
)

var allStatuses = []domain.BookingStatus{
	domain.BookingPending, domain.BookingPaymentPending, domain.BookingConfirmed,
	domain.BookingCompleted, domain.BookingCancelled, domain.BookingCancelledByCustomer,
}

func newBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{ID: 42, CustomerID: customer.UserID, HostID: host.UserID, PropertyID: 5, Status: status}
}

func TestCustomerCancel(t *testing.T) {
	m := NewBookingMachine(FixedTime(machineNow))

	for _, st := range allStatuses {
		t.Run(string(st), func(t *testing.T) {
			b := newBooking(st)
			ev, err := m.CustomerCancel(customer, b, " changed plans ")

			if st == domain.BookingPending || st == domain.BookingPaymentPending {
				require.NoError(t, err)
				assert.Equal(t, domain.BookingCancelledByCustomer, b.Status)
				assert.Equal(t, "changed plans", b.CancellationReason)
				assert.Equal(t, st, ev.From)
				assert.Equal(t, domain.BookingCancelledByCustomer, ev.To)
				assert.Equal(t, machineNow, ev.At)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
			assert.Equal(t, st, b.Status)
		})
	}
}

func TestCustomerCancel_Forbidden(t *testing.T) {
	m := NewBookingMachine(FixedTime(machineNow))

	stranger := domain.ActorContext{UserID: 999, Role: domain.RoleCustomer}
	_, err := m.CustomerCancel(stranger, newBooking(domain.BookingPending), "")
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = m.CustomerCancel(host, newBooking(domain.BookingPending), "")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestHostTransition(t *testing.T) {
	m := NewBookingMachine(FixedTime(machineNow))

	tests := []struct {
		name    string
		actor   domain.ActorContext
		from    domain.BookingStatus
		to      domain.BookingStatus
		wantErr error
	}{
		{"host confirms pending", host, domain.BookingPending, domain.BookingConfirmed, nil},
		{"host cancels payment pending", host, domain.BookingPaymentPending, domain.BookingCancelled, nil},
		{"host completes confirmed", host, domain.BookingConfirmed, domain.BookingCompleted, nil},
		{"host moves confirmed back to pending", host, domain.BookingConfirmed, domain.BookingPending, nil},
		{"admin overrides", admin, domain.BookingPending, domain.BookingCancelled, nil},
		{"customer cannot use host path", customer, domain.BookingPending, domain.BookingConfirmed, domain.ErrForbidden},
		{"customer cannot reopen cancelled", customer, domain.BookingCancelled, domain.BookingPending, domain.ErrInvalidTransition},
		{"customer cannot reopen completed", customer, domain.BookingCompleted, domain.BookingConfirmed, domain.ErrInvalidTransition},
		{"customer cannot close as host", customer, domain.BookingCancelledByCustomer, domain.BookingCancelled, domain.ErrForbidden},
		{"other customer forbidden", domain.ActorContext{UserID: 101, Role: domain.RoleCustomer}, domain.BookingCancelled, domain.BookingPending, domain.ErrForbidden},
		{"other host forbidden", otherHost, domain.BookingPending, domain.BookingConfirmed, domain.ErrForbidden},
		{"host cannot cancel as customer", host, domain.BookingPending, domain.BookingCancelledByCustomer, domain.ErrInvalidTransition},
		{"completed is terminal", host, domain.BookingCompleted, domain.BookingPending, domain.ErrInvalidTransition},
		{"cancelled is terminal", admin, domain.BookingCancelled, domain.BookingConfirmed, domain.ErrInvalidTransition},
		{"same status", host, domain.BookingConfirmed, domain.BookingConfirmed, domain.ErrInvalidTransition},
		{"unknown status", host, domain.BookingPending, "archived", domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(tt.from)
			ev, err := m.HostTransition(tt.actor, b, tt.to)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, tt.from, b.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, b.Status)
			assert.Equal(t, tt.actor, ev.Actor)
		})
	}
}

func TestConfirmByCash(t *testing.T) {
	m := NewBookingMachine(FixedTime(machineNow))

	for _, st := range allStatuses {
		b := newBooking(st)
		_, err := m.ConfirmByCash(host, b)
		if st.AwaitingConfirmation() {
			require.NoError(t, err, st)
			assert.Equal(t, domain.BookingConfirmed, b.Status)
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition), st)
	}

	_, err := m.ConfirmByCash(customer, newBooking(domain.BookingPending))
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestApplyPaymentVerified(t *testing.T) {
	m := NewBookingMachine(FixedTime(machineNow))
	ev := domain.PaymentVerified{BookingID: 42, PaymentID: "p1", VerifiedBy: host.UserID, At: machineNow}

	b := newBooking(domain.BookingPaymentPending)
	changed, err := m.ApplyPaymentVerified(b, ev)
	require.NoError(t, err)
	require.NotNil(t, changed)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	assert.Equal(t, domain.RoleHost, changed.Actor.Role, "events without a role come from the host")

	changed, err = m.ApplyPaymentVerified(b, ev)
	require.NoError(t, err)
	assert.Nil(t, changed)

	_, err = m.ApplyPaymentVerified(newBooking(domain.BookingCancelledByCustomer), ev)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	other := newBooking(domain.BookingPending)
	other.ID = 43
	_, err = m.ApplyPaymentVerified(other, ev)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCheckSelection(t *testing.T) {
	at := machineNow.Add(24 * time.Hour)
	salon := &domain.Property{
		ID:          5,
		Department:  domain.DepartmentSalon,
		Status:      domain.PropertyActive,
		Services:    []domain.OfferedService{{ID: 1, PropertyID: 5, Price: 300}},
		Specialists: []domain.Specialist{{ID: 9, PropertyID: 5, Name: "Asha"}},
	}
	details := domain.AppointmentDetails{At: at}

	svc, err := CheckSelection(salon, int64Ptr(9), int64Ptr(1), details)
	require.NoError(t, err)
	assert.Equal(t, 300.0, svc.Price)

	_, err = CheckSelection(salon, nil, int64Ptr(1), details)
	assert.True(t, errors.Is(err, domain.ErrValidation), "specialist is mandatory")

	_, err = CheckSelection(salon, int64Ptr(9), nil, details)
	assert.True(t, errors.Is(err, domain.ErrValidation), "service is mandatory")

	_, err = CheckSelection(salon, int64Ptr(10), int64Ptr(1), details)
	assert.True(t, errors.Is(err, domain.ErrValidation), "foreign specialist")

	_, err = CheckSelection(salon, int64Ptr(9), int64Ptr(1), domain.StayDetails{CheckIn: at, CheckOut: at.Add(24 * time.Hour)})
	assert.True(t, errors.Is(err, domain.ErrValidation), "department mismatch")

	for _, st := range []domain.PropertyStatus{domain.PropertyInactive, domain.PropertyCancelled, domain.PropertyPending} {
		closed := *salon
		closed.Status = st
		_, err = CheckSelection(&closed, int64Ptr(9), int64Ptr(1), details)
		assert.True(t, errors.Is(err, domain.ErrValidation), st)
	}

	bare := &domain.Property{ID: 6, Department: domain.DepartmentHotel, Status: domain.PropertyActive}
	svc, err = CheckSelection(bare, nil, nil, domain.StayDetails{CheckIn: at, CheckOut: at.Add(48 * time.Hour)})
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, domain.BookingPending, InitialStatus(&domain.Property{}))
	assert.Equal(t, domain.BookingPaymentPending, InitialStatus(&domain.Property{RequiresPrepayment: true}))
}
