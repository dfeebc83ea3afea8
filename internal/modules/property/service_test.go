package property

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"servicehub/internal/database"
	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/pkg/logger"
	"servicehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlans struct {
	plan    *domain.Plan
	catalog []domain.Plan
	err     error
}

func (s *stubPlans) PropertyAllowance(context.Context, int64) (*domain.Plan, []domain.Plan, error) {
	return s.plan, s.catalog, s.err
}

var (
	host      = domain.ActorContext{UserID: 200, Role: domain.RoleHost}
	otherHost = domain.ActorContext{UserID: 201, Role: domain.RoleHost}
	customer  = domain.ActorContext{UserID: 100, Role: domain.RoleCustomer}
	admin     = domain.ActorContext{UserID: 1, Role: domain.RoleAdmin}

	starter = domain.Plan{ID: "starter", Name: "Starter", PriceMonthly: 0, MaxProperties: 1, IsActive: true}
	growth  = domain.Plan{ID: "growth", Name: "Growth", PriceMonthly: 999, MaxProperties: 5, IsActive: true}
)

func newTestService(t *testing.T, plan *domain.Plan) *Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:property_%s?mode=memory&cache=shared", name), logger.Nop(), database.Options{MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	plans := &stubPlans{plan: plan, catalog: []domain.Plan{starter, growth}}
	return NewService(repository.NewPropertyRepository(db), plans, logger.Nop())
}

func salonRequest(name string) CreatePropertyRequest {
	return CreatePropertyRequest{
		Department: domain.DepartmentSalon,
		Name:       name,
		City:       "Pune",
		BasePrice:  400,
		Services:   []ServiceInput{{Name: "Haircut", Price: 250}},
	}
}

func TestCreate_HostOwnsNewActiveProperty(t *testing.T) {
	svc := newTestService(t, &growth)

	p, err := svc.Create(context.Background(), host, salonRequest(" Lotus "))
	require.NoError(t, err)

	assert.Equal(t, host.UserID, p.OwnerID)
	assert.Equal(t, "Lotus", p.Name)
	assert.Equal(t, domain.PropertyActive, p.Status)
	require.Len(t, p.Services, 1)
}

func TestCreate_IgnoresOwnerIDFromHost(t *testing.T) {
	svc := newTestService(t, &growth)

	req := salonRequest("Lotus")
	req.OwnerID = otherHost.UserID
	p, err := svc.Create(context.Background(), host, req)
	require.NoError(t, err)
	assert.Equal(t, host.UserID, p.OwnerID)
}

func TestCreate_LimitReached(t *testing.T) {
	svc := newTestService(t, &starter)
	ctx := context.Background()

	_, err := svc.Create(ctx, host, salonRequest("First"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, host, salonRequest("Second"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLimitReached))

	var limitErr *lifecycle.LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 1, limitErr.Current)
	assert.Equal(t, 1, limitErr.Limit)
	assert.Equal(t, "growth", limitErr.UpgradeTo)
}

func TestCreate_CancelledPropertiesDoNotCount(t *testing.T) {
	svc := newTestService(t, &starter)
	ctx := context.Background()

	first, err := svc.Create(ctx, host, salonRequest("First"))
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, host, first.ID, domain.PropertyCancelled)
	require.NoError(t, err)

	_, err = svc.Create(ctx, host, salonRequest("Second"))
	require.NoError(t, err)

	// reviving the cancelled one would exceed the plan again
	_, err = svc.SetStatus(ctx, host, first.ID, domain.PropertyActive)
	assert.True(t, errors.Is(err, domain.ErrLimitReached))
}

func TestCreate_NoPlanIsDenied(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Create(context.Background(), host, salonRequest("Lotus"))
	assert.Equal(t, domain.KindAccessDenied, domain.KindOf(err))
}

func TestCreate_AdminNeedsOwnerAndSkipsLimit(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, salonRequest("Lotus"))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	req := salonRequest("Lotus")
	req.OwnerID = host.UserID
	p, err := svc.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, host.UserID, p.OwnerID)
}

func TestCreate_CustomerForbidden(t *testing.T) {
	svc := newTestService(t, &growth)

	_, err := svc.Create(context.Background(), customer, salonRequest("Lotus"))
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCreate_CabRates(t *testing.T) {
	svc := newTestService(t, &growth)
	ctx := context.Background()

	cab := CreatePropertyRequest{Department: domain.DepartmentCab, Name: "City Cabs"}
	_, err := svc.Create(ctx, host, cab)
	assert.Equal(t, domain.KindInvalidRateConfiguration, domain.KindOf(err))

	cab.CabRates = map[domain.CabCategory]float64{domain.CabEconomy: 0}
	_, err = svc.Create(ctx, host, cab)
	assert.Equal(t, domain.KindInvalidRateConfiguration, domain.KindOf(err))

	cab.CabRates = map[domain.CabCategory]float64{domain.CabEconomy: 12, domain.CabPremium: 20}
	p, err := svc.Create(ctx, host, cab)
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.CabRates[domain.CabPremium])

	salon := salonRequest("Lotus")
	salon.CabRates = map[domain.CabCategory]float64{domain.CabEconomy: 12}
	_, err = svc.Create(ctx, host, salon)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdate_OnlyOwnerOrAdmin(t *testing.T) {
	svc := newTestService(t, &growth)
	ctx := context.Background()

	p, err := svc.Create(ctx, host, salonRequest("Lotus"))
	require.NoError(t, err)

	upd := UpdatePropertyRequest{Name: "Lotus Spa", City: "Mumbai", BasePrice: 500}
	_, err = svc.Update(ctx, otherHost, p.ID, upd)
	assert.ErrorIs(t, err, ErrNotOwner)

	out, err := svc.Update(ctx, host, p.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Lotus Spa", out.Name)
	assert.Equal(t, 500.0, out.BasePrice)

	_, err = svc.Update(ctx, admin, p.ID, upd)
	require.NoError(t, err)

	_, err = svc.Update(ctx, host, 9999, upd)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGet_HidesInactiveFromStrangers(t *testing.T) {
	svc := newTestService(t, &growth)
	ctx := context.Background()

	p, err := svc.Create(ctx, host, salonRequest("Lotus"))
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, host, p.ID, domain.PropertyInactive)
	require.NoError(t, err)

	_, err = svc.Get(ctx, customer, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Get(ctx, domain.ActorContext{}, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	got, err := svc.Get(ctx, host, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyInactive, got.Status)

	_, err = svc.Get(ctx, admin, p.ID)
	require.NoError(t, err)
}

func TestListPublic_OnlyActive(t *testing.T) {
	svc := newTestService(t, &growth)
	ctx := context.Background()

	a, err := svc.Create(ctx, host, salonRequest("Open"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, host, salonRequest("Closed"))
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, host, b.ID, domain.PropertyInactive)
	require.NoError(t, err)

	out, err := svc.ListPublic(ctx, ListQuery{Department: domain.DepartmentSalon})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, a.ID, out[0].ID)

	mine, err := svc.ListMine(ctx, host)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.ListPublic(ctx, ListQuery{Department: "spa"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestServicesAndSpecialists(t *testing.T) {
	svc := newTestService(t, &growth)
	ctx := context.Background()

	p, err := svc.Create(ctx, host, salonRequest("Lotus"))
	require.NoError(t, err)

	added, err := svc.AddService(ctx, host, p.ID, ServiceInput{Name: "Facial", Price: 900})
	require.NoError(t, err)
	assert.NotZero(t, added.ID)

	_, err = svc.AddService(ctx, otherHost, p.ID, ServiceInput{Name: "Massage", Price: 1200})
	assert.ErrorIs(t, err, ErrNotOwner)

	sp, err := svc.AddSpecialist(ctx, host, p.ID, SpecialistInput{Name: "Meera", Title: "Stylist"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, customer, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Services, 2)
	assert.Len(t, got.Specialists, 1)

	require.NoError(t, svc.RemoveService(ctx, host, p.ID, added.ID))
	require.NoError(t, svc.RemoveSpecialist(ctx, host, p.ID, sp.ID))

	got, err = svc.Get(ctx, customer, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Services, 1)
	assert.Empty(t, got.Specialists)
}

func TestDelete_AdminOnly(t *testing.T) {
	svc := newTestService(t, &growth)
	ctx := context.Background()

	p, err := svc.Create(ctx, host, salonRequest("Lotus"))
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(ctx, host, p.ID), domain.ErrForbidden))
	require.NoError(t, svc.Delete(ctx, admin, p.ID))

	_, err = svc.Get(ctx, admin, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
