package lifecycle

import (
	"errors"
	"testing"
	"time"

	"servicehub/internal/domain"

	"github.com/stretchr/testify/assert"
)

var couponNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func activeCoupon() *domain.Coupon {
	return &domain.Coupon{
		Code:          "SPRING20",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		ValidFrom:     couponNow.AddDate(0, 0, -5),
		ValidTo:       couponNow.AddDate(0, 0, 5),
		Status:        domain.CouponActive,
	}
}

func TestValidateCoupon_Reasons(t *testing.T) {
	req := CouponRequest{Code: "SPRING20", UserID: 3, PropertyID: 11, Amount: 1000}

	tests := []struct {
		name   string
		mutate func(c *domain.Coupon) *domain.Coupon
		req    CouponRequest
		reason domain.ErrorKind
	}{
		{"missing coupon", func(*domain.Coupon) *domain.Coupon { return nil }, req, domain.KindNotFound},
		{"case sensitive code", func(c *domain.Coupon) *domain.Coupon { return c }, CouponRequest{Code: "spring20", Amount: 10}, domain.KindNotFound},
		{"inactive", func(c *domain.Coupon) *domain.Coupon { c.Status = domain.CouponInactive; return c }, req, domain.KindInactive},
		{"not started", func(c *domain.Coupon) *domain.Coupon { c.ValidFrom = couponNow.Add(time.Hour); return c }, req, domain.KindExpired},
		{"ended", func(c *domain.Coupon) *domain.Coupon { c.ValidTo = couponNow.Add(-time.Second); return c }, req, domain.KindExpired},
		{"other user", func(c *domain.Coupon) *domain.Coupon { c.UserID = int64Ptr(4); return c }, req, domain.KindNotApplicableToUser},
		{"other property", func(c *domain.Coupon) *domain.Coupon { c.PropertyID = int64Ptr(12); return c }, req, domain.KindNotApplicableToProperty},
		{"inactive wins over expired", func(c *domain.Coupon) *domain.Coupon {
			c.Status = domain.CouponInactive
			c.ValidTo = couponNow.AddDate(-1, 0, 0)
			return c
		}, req, domain.KindInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateCoupon(tt.mutate(activeCoupon()), tt.req, couponNow)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Zero(t, res.DiscountAmount)
			assert.True(t, errors.Is(res.Err(), &domain.Error{Kind: tt.reason}))
		})
	}
}

func TestValidateCoupon_WindowIsInclusive(t *testing.T) {
	c := activeCoupon()
	req := CouponRequest{Code: c.Code, Amount: 100}

	assert.True(t, ValidateCoupon(c, req, c.ValidFrom).Valid)
	assert.True(t, ValidateCoupon(c, req, c.ValidTo).Valid)
	assert.False(t, ValidateCoupon(c, req, c.ValidTo.Add(time.Nanosecond)).Valid)
}

func TestValidateCoupon_Discounts(t *testing.T) {
	c := activeCoupon()
	c.UserID = int64Ptr(3)
	c.PropertyID = int64Ptr(11)

	res := ValidateCoupon(c, CouponRequest{Code: c.Code, UserID: 3, PropertyID: 11, Amount: 1000}, couponNow)
	assert.True(t, res.Valid)
	assert.Equal(t, 200.0, res.DiscountAmount)
	assert.NoError(t, res.Err())

	flat := activeCoupon()
	flat.DiscountType = domain.DiscountFlat
	flat.DiscountValue = 150
	res = ValidateCoupon(flat, CouponRequest{Code: flat.Code, Amount: 100}, couponNow)
	assert.True(t, res.Valid)
	assert.Equal(t, 100.0, res.DiscountAmount, "flat discount is capped at the total")
}
