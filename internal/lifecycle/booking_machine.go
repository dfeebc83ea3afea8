package lifecycle

import (
	"strings"

	"servicehub/internal/domain"
)

// BookingMachine applies status transitions to a booking snapshot. It mutates
// the booking it is given and returns the resulting event; persisting the
// change atomically is the caller's job.
type BookingMachine struct {
	clock TimeProvider
}

func NewBookingMachine(clock TimeProvider) *BookingMachine {
	if clock == nil {
		clock = RealTimeProvider{}
	}
	return &BookingMachine{clock: clock}
}

// InitialStatus is payment_pending for properties that require prepayment.
func InitialStatus(p *domain.Property) domain.BookingStatus {
	if p.RequiresPrepayment {
		return domain.BookingPaymentPending
	}
	return domain.BookingPending
}

// CheckSelection validates a new booking request against the property: the
// property must be accepting bookings, the details variant must match the
// department, and a specialist/service must be chosen whenever the property
// offers any. It returns the selected service, if one was chosen.
func CheckSelection(p *domain.Property, specialistID, serviceID *int64, details domain.Details) (*domain.OfferedService, error) {
	if p == nil {
		return nil, domain.NotFound("property not found")
	}
	if !p.AcceptsBookings() {
		return nil, domain.Validation("property %d is %s and does not accept bookings", p.ID, p.Status)
	}
	if details == nil {
		return nil, domain.Validation("booking details are required")
	}
	if details.Department() != p.Department {
		return nil, domain.Validation("%s details do not match %s property", details.Department(), p.Department)
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}

	if len(p.Specialists) > 0 {
		if specialistID == nil {
			return nil, domain.Validation("a specialist must be selected for this property")
		}
		if _, ok := p.FindSpecialist(*specialistID); !ok {
			return nil, domain.Validation("specialist %d does not belong to property %d", *specialistID, p.ID)
		}
	} else if specialistID != nil {
		return nil, domain.Validation("property %d has no specialists", p.ID)
	}

	var svc *domain.OfferedService
	if len(p.Services) > 0 {
		if serviceID == nil {
			return nil, domain.Validation("a service must be selected for this property")
		}
		s, ok := p.FindService(*serviceID)
		if !ok {
			return nil, domain.Validation("service %d does not belong to property %d", *serviceID, p.ID)
		}
		svc = s
	} else if serviceID != nil {
		return nil, domain.Validation("property %d has no services", p.ID)
	}

	return svc, nil
}

// HostTransition moves a booking on behalf of its host or an admin. Any
// non-terminal status may be overridden to any other status except
// cancelled_by_customer. The booking's own customer trying to reopen a
// finished booking gets InvalidTransition rather than Forbidden.
func (m *BookingMachine) HostTransition(actor domain.ActorContext, b *domain.Booking, target domain.BookingStatus) (domain.BookingStatusChanged, error) {
	if actor.Role == domain.RoleCustomer && actor.UserID == b.CustomerID &&
		b.Status.IsTerminal() && !target.IsTerminal() {
		return domain.BookingStatusChanged{}, domain.InvalidTransition("booking %d is %s and can no longer change", b.ID, b.Status)
	}
	if err := authorizeHost(actor, b); err != nil {
		return domain.BookingStatusChanged{}, err
	}
	if !target.Valid() {
		return domain.BookingStatusChanged{}, domain.Validation("unknown booking status %q", target)
	}
	if target == domain.BookingCancelledByCustomer {
		return domain.BookingStatusChanged{}, domain.InvalidTransition("only the customer can cancel as customer")
	}
	if b.Status.IsTerminal() {
		return domain.BookingStatusChanged{}, domain.InvalidTransition("booking %d is %s and can no longer change", b.ID, b.Status)
	}
	if b.Status == target {
		return domain.BookingStatusChanged{}, domain.InvalidTransition("booking %d is already %s", b.ID, target)
	}
	return m.move(actor, b, target), nil
}

// CustomerCancel cancels a booking on behalf of its own customer, only while
// it is still awaiting confirmation.
func (m *BookingMachine) CustomerCancel(actor domain.ActorContext, b *domain.Booking, reason string) (domain.BookingStatusChanged, error) {
	if actor.Role != domain.RoleCustomer || actor.UserID != b.CustomerID {
		return domain.BookingStatusChanged{}, domain.Forbidden("only the booking's customer can cancel it")
	}
	if !b.Status.AwaitingConfirmation() {
		return domain.BookingStatusChanged{}, domain.InvalidTransition("booking %d is %s and cannot be cancelled by the customer", b.ID, b.Status)
	}
	b.CancellationReason = strings.TrimSpace(reason)
	return m.move(actor, b, domain.BookingCancelledByCustomer), nil
}

// ConfirmByCash confirms a booking paid in cash. No payment record is involved.
func (m *BookingMachine) ConfirmByCash(actor domain.ActorContext, b *domain.Booking) (domain.BookingStatusChanged, error) {
	if err := authorizeHost(actor, b); err != nil {
		return domain.BookingStatusChanged{}, err
	}
	switch b.Status {
	case domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCancelled, domain.BookingCancelledByCustomer:
		return domain.BookingStatusChanged{}, domain.InvalidTransition("booking %d is %s and cannot be confirmed by cash", b.ID, b.Status)
	}
	return m.move(actor, b, domain.BookingConfirmed), nil
}

// ApplyPaymentVerified confirms the booking a verified payment belongs to.
// Applying it to an already confirmed booking is a no-op.
func (m *BookingMachine) ApplyPaymentVerified(b *domain.Booking, ev domain.PaymentVerified) (*domain.BookingStatusChanged, error) {
	if ev.BookingID != b.ID {
		return nil, domain.Validation("payment event for booking %d applied to booking %d", ev.BookingID, b.ID)
	}
	if b.Status == domain.BookingConfirmed {
		return nil, nil
	}
	if !b.Status.AwaitingConfirmation() {
		return nil, domain.InvalidTransition("booking %d is %s and cannot be confirmed by payment", b.ID, b.Status)
	}
	actor := domain.ActorContext{UserID: ev.VerifiedBy, Role: ev.VerifierRole}
	if actor.Role == "" {
		actor.Role = domain.RoleHost
	}
	changed := m.move(actor, b, domain.BookingConfirmed)
	return &changed, nil
}

func (m *BookingMachine) move(actor domain.ActorContext, b *domain.Booking, target domain.BookingStatus) domain.BookingStatusChanged {
	from := b.Status
	now := m.clock.Now()
	b.Status = target
	b.UpdatedAt = now
	return domain.BookingStatusChanged{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		HostID:     b.HostID,
		From:       from,
		To:         target,
		Actor:      actor,
		At:         now,
	}
}

// authorizeHost permits admins and the host who owns the booked property.
func authorizeHost(actor domain.ActorContext, b *domain.Booking) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleHost:
		if actor.UserID != 0 && actor.UserID == b.HostID {
			return nil
		}
		return domain.Forbidden("booking %d belongs to another host", b.ID)
	}
	return domain.Forbidden("only the host or an admin can change booking status")
}
