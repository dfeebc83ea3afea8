package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"servicehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_CreateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	props := NewPropertyRepository(db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	p := seedSalon(t, props, 10)
	svcID := p.Services[0].ID
	b := &domain.Booking{
		Department:       domain.DepartmentCab,
		PropertyID:       p.ID,
		HostID:           10,
		CustomerID:       20,
		ServiceID:        &svcID,
		Details:          domain.RideDetails{At: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC), Pickup: "Airport", Dropoff: "Station", Category: domain.CabPremium, DistanceKm: 14.5},
		BasePrice:        261,
		ServiceSurcharge: 0,
		DiscountAmount:   26.1,
		CouponCode:       "RIDE10",
		FinalPrice:       234.9,
		Status:           domain.BookingPending,
	}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, "RIDE10", got.CouponCode)
	assert.Equal(t, svcID, *got.ServiceID)
	ride, ok := got.Details.(domain.RideDetails)
	require.True(t, ok)
	assert.Equal(t, "Airport", ride.Pickup)
	assert.Equal(t, 14.5, ride.DistanceKm)
}

func TestBookingRepository_Mutate(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	b := seedBooking(t, repo, seedSalon(t, NewPropertyRepository(db), 10), 20, domain.BookingPending)

	updated, err := repo.Mutate(ctx, b.ID, func(cur *domain.Booking) error {
		cur.Status = domain.BookingCancelledByCustomer
		cur.CancellationReason = "sick"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelledByCustomer, got.Status)
	assert.Equal(t, "sick", got.CancellationReason)

	boom := errors.New("rule violated")
	_, err = repo.Mutate(ctx, b.ID, func(cur *domain.Booking) error {
		cur.Status = domain.BookingConfirmed
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelledByCustomer, got.Status, "failed mutation is rolled back")
	assert.Equal(t, int64(2), got.Version)

	_, err = repo.Mutate(ctx, 999, func(*domain.Booking) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingRepository_StaleVersionLoses(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	b := seedBooking(t, repo, seedSalon(t, NewPropertyRepository(db), 10), 20, domain.BookingPending)

	stale := *b
	require.NoError(t, db.Model(&bookingModel{}).Where("id = ?", b.ID).Update("version", 5).Error)

	stale.Status = domain.BookingConfirmed
	err := saveBooking(db, &stale)
	assert.True(t, IsConcurrentUpdate(err))
}

func TestBookingRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	props := NewPropertyRepository(db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	p1 := seedSalon(t, props, 10)
	p2 := seedSalon(t, props, 11)
	seedBooking(t, repo, p1, 20, domain.BookingPending)
	seedBooking(t, repo, p1, 21, domain.BookingConfirmed)
	seedBooking(t, repo, p2, 20, domain.BookingPending)

	hostOne, err := repo.List(ctx, BookingFilter{HostID: 10})
	require.NoError(t, err)
	assert.Len(t, hostOne, 2)

	pending, err := repo.List(ctx, BookingFilter{HostID: 10, Status: domain.BookingPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(20), pending[0].CustomerID)

	mine, err := repo.List(ctx, BookingFilter{CustomerID: 20, Department: domain.DepartmentSalon})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	future := time.Now().UTC().Add(time.Hour)
	none, err := repo.List(ctx, BookingFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, none)

	page, err := repo.List(ctx, BookingFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestBuildBookingQuery(t *testing.T) {
	sql, args, err := buildBookingQuery(BookingFilter{HostID: 3, Status: domain.BookingConfirmed, Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM bookings WHERE host_id = ? AND status = ?")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC LIMIT 20 OFFSET 40")
	assert.Equal(t, []any{int64(3), "confirmed"}, args)
}

func TestBookingRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()
	b := seedBooking(t, repo, seedSalon(t, NewPropertyRepository(db), 10), 20, domain.BookingPending)

	_, err := payments.Submit(ctx, b.ID, func(cur *domain.Booking, _ []domain.Payment) (*domain.Payment, error) {
		return &domain.Payment{BookingID: cur.ID, Amount: 10, Method: domain.PaymentUPI, Status: domain.PaymentStatusPending}, nil
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	left, err := payments.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
