package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/utils"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }

func TestCreateCouponNormalizesCode(t *testing.T) {
	f := newOrderFixture(t)

	coupon, err := f.coupons.Create(context.Background(), CouponInput{
		Code:          " summer25 ",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, "SUMMER25", coupon.Code)
	assert.True(t, coupon.IsActive)
	assert.NotEmpty(t, coupon.ID)
	assert.Equal(t, testNow, coupon.CreatedAt)
}

func TestCreateCouponRejectsDuplicates(t *testing.T) {
	f := newOrderFixture(t)
	seedCoupon(t, f.store, "WELCOME10", models.DiscountTypePercentage, 10, true, nil)

	_, err := f.coupons.Create(context.Background(), CouponInput{
		Code:          "welcome10",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 5,
	})

	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestCreateCouponRejectsPercentageOver100(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.coupons.Create(context.Background(), CouponInput{
		Code:          "TOOMUCH",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 150,
	})

	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))
}

func TestUpdateCoupon(t *testing.T) {
	f := newOrderFixture(t)
	seedCoupon(t, f.store, "WELCOME10", models.DiscountTypePercentage, 10, true, nil)
	ctx := context.Background()

	coupon, err := f.coupons.Update(ctx, "WELCOME10-id", CouponPatch{
		Code:          strPtr("welcome10"),
		DiscountValue: floatPtr(15),
		IsActive:      boolPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "WELCOME10", coupon.Code)
	assert.Equal(t, 15.0, coupon.DiscountValue)
	assert.False(t, coupon.IsActive)

	active, err := f.coupons.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestUpdateCouponErrors(t *testing.T) {
	f := newOrderFixture(t)
	seedCoupon(t, f.store, "WELCOME10", models.DiscountTypePercentage, 10, true, nil)
	seedCoupon(t, f.store, "TENOFF", models.DiscountTypeFixed, 10, true, nil)
	ctx := context.Background()

	_, err := f.coupons.Update(ctx, "WELCOME10-id", CouponPatch{})
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))

	_, err = f.coupons.Update(ctx, "WELCOME10-id", CouponPatch{Code: strPtr("tenoff")})
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	_, err = f.coupons.Update(ctx, "WELCOME10-id", CouponPatch{DiscountValue: floatPtr(120)})
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))

	_, err = f.coupons.Update(ctx, "missing", CouponPatch{IsActive: boolPtr(true)})
	assert.True(t, utils.IsNotFoundError(err))
}

func TestActiveCouponAndDelete(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	active, err := f.coupons.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	seedCoupon(t, f.store, "WELCOME10", models.DiscountTypePercentage, 10, true, nil)
	active, err = f.coupons.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "WELCOME10", active.Code)

	require.NoError(t, f.coupons.Delete(ctx, "WELCOME10-id"))
	assert.True(t, utils.IsNotFoundError(f.coupons.Delete(ctx, "WELCOME10-id")))

	coupons, err := f.coupons.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, coupons)
}

func TestActiveCouponIsOldestActive(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	for i, c := range []struct {
		code   string
		active bool
	}{{"RETIRED", false}, {"FIRST", true}, {"LATEST", true}} {
		require.NoError(t, f.store.Coupons.Create(ctx, &models.Coupon{
			ID:            c.code + "-id",
			Code:          c.code,
			DiscountType:  models.DiscountTypeFixed,
			DiscountValue: 5,
			IsActive:      c.active,
			CreatedAt:     testNow.Add(time.Duration(i) * time.Hour),
		}))
	}

	active, err := f.coupons.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "FIRST", active.Code)
}
