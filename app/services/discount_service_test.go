package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
)

func TestValidateDiscount(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	fx.Discount("WELCOME10", models.DiscountPercentage, 10, func(d *models.DiscountCode) {
		d.MinOrderAmount = testutil.Ptr(50.0)
	})
	fx.Discount("SAVE20", models.DiscountFixed, 20)
	fx.Discount("GONE", models.DiscountFixed, 5, func(d *models.DiscountCode) {
		d.ExpiresAt = testutil.Ptr(time.Now().Add(-time.Hour))
	})
	fx.Discount("USED", models.DiscountFixed, 5, func(d *models.DiscountCode) {
		d.MaxUses = testutil.Ptr(2)
		d.CurrentUses = 2
	})
	svc := services.NewDiscountService()
	ctx := context.Background()

	applied, err := svc.Validate(ctx, services.ValidateInput{Code: "welcome10", OrderTotal: testutil.Ptr(80.0)})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", applied.Code)
	assert.Equal(t, 8.0, applied.DiscountAmount)

	applied, err = svc.Validate(ctx, services.ValidateInput{Code: "SAVE20", OrderTotal: testutil.Ptr(15.0)})
	require.NoError(t, err)
	assert.Equal(t, 15.0, applied.DiscountAmount, "fixed discount is capped at the total")

	tests := []struct {
		code  string
		total *float64
		want  string
	}{
		{"", testutil.Ptr(10.0), "Discount code and order total are required"},
		{"SAVE20", nil, "Discount code and order total are required"},
		{"GONE", testutil.Ptr(10.0), "This discount code has expired"},
		{"USED", testutil.Ptr(10.0), "This discount code has reached its usage limit"},
		{"WELCOME10", testutil.Ptr(49.99), "Minimum order amount of $50.00 required for this discount"},
	}
	for _, tt := range tests {
		_, err := svc.Validate(ctx, services.ValidateInput{Code: tt.code, OrderTotal: tt.total})
		assert.Equal(t, tt.want, messageOf(t, err), tt.code)
	}

	_, err = svc.Validate(ctx, services.ValidateInput{Code: "MISSING", OrderTotal: testutil.Ptr(10.0)})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDiscountAdmin(t *testing.T) {
	testutil.NewDB(t)
	svc := services.NewDiscountService()
	ctx := context.Background()

	d, err := svc.Create(ctx, services.DiscountInput{Code: " spring ", Type: models.DiscountPercentage, Value: testutil.Ptr(15.0)})
	require.NoError(t, err)
	assert.Equal(t, "SPRING", d.Code)
	assert.True(t, d.IsActive)

	_, err = svc.Create(ctx, services.DiscountInput{Code: "SPRING", Type: models.DiscountFixed, Value: testutil.Ptr(5.0)})
	assert.Equal(t, "Discount code already exists", messageOf(t, err))

	_, err = svc.Create(ctx, services.DiscountInput{Code: "BIG", Type: models.DiscountPercentage, Value: testutil.Ptr(150.0)})
	assert.Equal(t, "Percentage must be between 1 and 100", messageOf(t, err))

	_, err = svc.Create(ctx, services.DiscountInput{Code: "ZERO", Type: models.DiscountFixed, Value: testutil.Ptr(0.0)})
	assert.Equal(t, "Fixed amount must be greater than 0", messageOf(t, err))

	_, err = svc.Create(ctx, services.DiscountInput{Code: "ODD", Type: "BOGO", Value: testutil.Ptr(1.0)})
	assert.Equal(t, "Invalid discount type", messageOf(t, err))

	off, err := svc.SetActive(ctx, d.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	_, err = svc.Validate(ctx, services.ValidateInput{Code: "SPRING", OrderTotal: testutil.Ptr(10.0)})
	assert.Equal(t, "This discount code is no longer active", messageOf(t, err))

	require.NoError(t, svc.Delete(ctx, d.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, d.ID), apperr.ErrNotFound))
	_, err = svc.SetActive(ctx, d.ID, true)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
