package repository

import (
	"context"
	"testing"
	"time"

	"servicehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoupon(code string, userID *int64) *domain.Coupon {
	now := time.Now().UTC()
	return &domain.Coupon{
		Code:          code,
		DiscountType:  domain.DiscountFlat,
		DiscountValue: 100,
		ValidFrom:     now.Add(-time.Hour),
		ValidTo:       now.Add(24 * time.Hour),
		UserID:        userID,
		Status:        domain.CouponActive,
	}
}

func TestCouponRepository(t *testing.T) {
	repo := NewCouponRepository(newTestDB(t))
	ctx := context.Background()

	user := int64(20)
	require.NoError(t, repo.Create(ctx, newCoupon("WELCOME", nil)))
	require.NoError(t, repo.Create(ctx, newCoupon("VIP20", &user)))
	require.NoError(t, repo.Create(ctx, newCoupon("OTHER", func() *int64 { v := int64(21); return &v }())))

	assert.ErrorIs(t, repo.Create(ctx, newCoupon("WELCOME", nil)), ErrDuplicate)

	c, err := repo.GetByCode(ctx, "VIP20")
	require.NoError(t, err)
	assert.Equal(t, user, *c.UserID)

	_, err = repo.GetByCode(ctx, "vip20")
	assert.ErrorIs(t, err, ErrNotFound)

	visible, err := repo.List(ctx, CouponFilter{VisibleTo: user, OnlyActive: true})
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	updated, err := repo.UpdateStatus(ctx, c.ID, domain.CouponInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.CouponInactive, updated.Status)

	visible, err = repo.List(ctx, CouponFilter{VisibleTo: user, OnlyActive: true})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := repo.List(ctx, CouponFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.UpdateStatus(ctx, 999, domain.CouponActive)
	assert.ErrorIs(t, err, ErrNotFound)
}
