package booking

import (
	"context"
	"errors"
	"strings"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/pkg/metrics"
	"servicehub/internal/repository"
)

type Service struct {
	bookings   BookingRepository
	properties PropertyReader
	coupons    CouponLookup
	machine    *lifecycle.BookingMachine
	clock      lifecycle.TimeProvider
	notifier   Notifier
	metrics    *metrics.Metrics
	log        Logger
}

func NewService(
	bookings BookingRepository,
	properties PropertyReader,
	coupons CouponLookup,
	clock lifecycle.TimeProvider,
	notifier Notifier,
	m *metrics.Metrics,
	log Logger,
) *Service {
	if clock == nil {
		clock = lifecycle.RealTimeProvider{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{
		bookings:   bookings,
		properties: properties,
		coupons:    coupons,
		machine:    lifecycle.NewBookingMachine(clock),
		clock:      clock,
		notifier:   notifier,
		metrics:    m,
		log:        log,
	}
}

// selection is a request checked against its property.
type selection struct {
	property *domain.Property
	service  *domain.OfferedService
	details  domain.Details
}

func (s *Service) selectFor(ctx context.Context, propertyID int64, req BookingRequest) (*selection, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, storeErr(err, "property")
	}
	details, err := domain.DecodeDetails(p.Department, req.Details)
	if err != nil {
		return nil, err
	}
	svc, err := lifecycle.CheckSelection(p, req.SpecialistID, req.ServiceID, details)
	if err != nil {
		return nil, err
	}
	return &selection{property: p, service: svc, details: details}, nil
}

// price computes the breakdown for sel. A coupon code is validated against the
// pre-discount subtotal; the result is returned alongside so callers decide
// whether a rejected coupon is fatal.
func (s *Service) price(ctx context.Context, actor domain.ActorContext, sel *selection, code string) (lifecycle.Quote, *lifecycle.CouponResult, error) {
	in := lifecycle.PriceInput{Property: sel.property, Service: sel.service}
	if ride, ok := sel.details.(domain.RideDetails); ok {
		in.Ride = &ride
	}

	q, err := lifecycle.PriceBooking(in, 0)
	if err != nil {
		return lifecycle.Quote{}, nil, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return q, nil, nil
	}

	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return lifecycle.Quote{}, nil, storeErr(err, "coupon")
	}
	res := lifecycle.ValidateCoupon(c, lifecycle.CouponRequest{
		Code:       code,
		UserID:     actor.UserID,
		PropertyID: sel.property.ID,
		Amount:     q.Subtotal,
	}, s.clock.Now())
	if !res.Valid {
		return q, &res, nil
	}

	return lifecycle.Compose(q.BasePrice, q.ServiceSurcharge, res.DiscountAmount), &res, nil
}

// Quote previews the price of a booking without creating it. An invalid
// coupon does not fail the quote; it is reported in the result.
func (s *Service) Quote(ctx context.Context, actor domain.ActorContext, propertyID int64, req BookingRequest) (*QuoteResult, error) {
	sel, err := s.selectFor(ctx, propertyID, req)
	if err != nil {
		return nil, err
	}
	q, coupon, err := s.price(ctx, actor, sel, req.CouponCode)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		PropertyID: sel.property.ID,
		Department: sel.property.Department,
		Quote:      q,
		Coupon:     coupon,
	}, nil
}

// Create books propertyID for the calling customer. Properties that require
// prepayment start in payment_pending, the rest in pending.
func (s *Service) Create(ctx context.Context, actor domain.ActorContext, propertyID int64, req BookingRequest) (*domain.Booking, error) {
	if !actor.IsCustomer() || actor.UserID == 0 {
		return nil, domain.Forbidden("only customers can create bookings")
	}

	sel, err := s.selectFor(ctx, propertyID, req)
	if err != nil {
		return nil, err
	}
	if sel.property.OwnerID == actor.UserID {
		return nil, domain.Validation("you cannot book your own property")
	}

	q, coupon, err := s.price(ctx, actor, sel, req.CouponCode)
	if err != nil {
		return nil, err
	}
	if coupon != nil && !coupon.Valid {
		return nil, coupon.Err()
	}

	now := s.clock.Now()
	b := &domain.Booking{
		Department:       sel.property.Department,
		PropertyID:       sel.property.ID,
		HostID:           sel.property.OwnerID,
		CustomerID:       actor.UserID,
		SpecialistID:     req.SpecialistID,
		ServiceID:        req.ServiceID,
		Details:          sel.details,
		BasePrice:        q.BasePrice,
		ServiceSurcharge: q.ServiceSurcharge,
		DiscountAmount:   q.DiscountAmount,
		FinalPrice:       q.FinalPrice,
		Status:           lifecycle.InitialStatus(sel.property),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if coupon != nil {
		b.CouponCode = strings.TrimSpace(req.CouponCode)
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, storeErr(err, "booking")
	}

	s.log.Info("Booking: created booking_id=%d property_id=%d customer_id=%d status=%s final_price=%.2f",
		b.ID, b.PropertyID, b.CustomerID, b.Status, b.FinalPrice)
	s.metrics.BookingTransition("", string(b.Status), string(actor.Role))
	s.notifier.Notify(domain.BookingStatusChanged{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		HostID:     b.HostID,
		To:         b.Status,
		Actor:      actor,
		At:         now,
	}, b.HostID)

	return b, nil
}

// Get returns a booking to one of its parties.
func (s *Service) Get(ctx context.Context, actor domain.ActorContext, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "booking")
	}
	if !b.IsParty(actor) {
		return nil, domain.Forbidden("you are not a party of booking %d", id)
	}
	return b, nil
}

// ListForCustomer is the caller's own booking history.
func (s *Service) ListForCustomer(ctx context.Context, actor domain.ActorContext, q ListQuery) ([]*domain.Booking, error) {
	if actor.UserID == 0 {
		return nil, domain.NewError(domain.KindUnauthorized, "authentication required")
	}
	f, err := toFilter(q)
	if err != nil {
		return nil, err
	}
	f.CustomerID = actor.UserID
	return s.list(ctx, f)
}

// ListForHost lists bookings of the calling host's properties. Admins see all
// bookings.
func (s *Service) ListForHost(ctx context.Context, actor domain.ActorContext, q ListQuery) ([]*domain.Booking, error) {
	f, err := toFilter(q)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.IsAdmin():
	case actor.IsHost():
		f.HostID = actor.UserID
	default:
		return nil, domain.Forbidden("only hosts can list property bookings")
	}
	return s.list(ctx, f)
}

func (s *Service) list(ctx context.Context, f repository.BookingFilter) ([]*domain.Booking, error) {
	out, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "bookings")
	}
	return out, nil
}

func toFilter(q ListQuery) (repository.BookingFilter, error) {
	if err := q.validate(); err != nil {
		return repository.BookingFilter{}, err
	}
	return repository.BookingFilter{
		PropertyID: q.PropertyID,
		Status:     q.Status,
		Department: q.Department,
		From:       q.From,
		To:         q.To,
		Limit:      q.limit(),
		Offset:     q.Offset,
	}, nil
}

// UpdateStatus is the host override. It runs under the booking lock so two
// concurrent transitions cannot both apply.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.ActorContext, id int64, target domain.BookingStatus) (*domain.Booking, error) {
	return s.transition(ctx, id, func(b *domain.Booking) (domain.BookingStatusChanged, error) {
		return s.machine.HostTransition(actor, b, target)
	})
}

func (s *Service) Cancel(ctx context.Context, actor domain.ActorContext, id int64, reason string) (*domain.Booking, error) {
	return s.transition(ctx, id, func(b *domain.Booking) (domain.BookingStatusChanged, error) {
		return s.machine.CustomerCancel(actor, b, reason)
	})
}

func (s *Service) ConfirmByCash(ctx context.Context, actor domain.ActorContext, id int64) (*domain.Booking, error) {
	return s.transition(ctx, id, func(b *domain.Booking) (domain.BookingStatusChanged, error) {
		return s.machine.ConfirmByCash(actor, b)
	})
}

func (s *Service) transition(
	ctx context.Context,
	id int64,
	apply func(b *domain.Booking) (domain.BookingStatusChanged, error),
) (*domain.Booking, error) {
	var ev domain.BookingStatusChanged
	b, err := s.bookings.Mutate(ctx, id, func(b *domain.Booking) error {
		changed, err := apply(b)
		if err != nil {
			return err
		}
		ev = changed
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConcurrentUpdate) {
			s.log.Warn("Booking: concurrent update booking_id=%d", id)
		}
		return nil, storeErr(err, "booking")
	}

	s.log.Info("Booking: status changed booking_id=%d from=%s to=%s actor_id=%d role=%s",
		ev.BookingID, ev.From, ev.To, ev.Actor.UserID, ev.Actor.Role)
	s.metrics.BookingTransition(string(ev.From), string(ev.To), string(ev.Actor.Role))
	s.notifier.Notify(ev, ev.CustomerID, ev.HostID)

	return b, nil
}

// Delete removes a booking and its payments. Only the property's host or an
// admin may do it.
func (s *Service) Delete(ctx context.Context, actor domain.ActorContext, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "booking")
	}
	if !actor.IsAdmin() && !(actor.IsHost() && actor.UserID == b.HostID) {
		return domain.Forbidden("only the host or an admin can delete booking %d", id)
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return storeErr(err, "booking")
	}
	s.log.Info("Booking: deleted booking_id=%d by user_id=%d", id, actor.UserID)
	return nil
}
