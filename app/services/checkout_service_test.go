package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/payment"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
)

var shipTo = models.Address{"street": "1 Main St", "city": "Springfield"}

func orderFor(lines ...services.OrderLine) services.PlaceOrderInput {
	return services.PlaceOrderInput{
		Items:           lines,
		ShippingAddress: shipTo,
		BillingAddress:  shipTo,
		PaymentMethod:   "card",
	}
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	e, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return e.Message
}

func TestPlaceOrderTotals(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	headphones := fx.Product("Wireless Headphones", 199.99, 50)
	shirt := fx.Product("T-Shirt", 29.99, 100)
	svc := services.NewCheckoutService()
	ctx := context.Background()

	o, err := svc.Place(ctx, 0, orderFor(services.OrderLine{ProductID: headphones.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 199.99, o.Subtotal)
	assert.Equal(t, 20.00, o.Tax)
	assert.Equal(t, 0.0, o.Shipping)
	assert.Equal(t, 219.99, o.Total)
	assert.Nil(t, o.UserID)
	assert.Equal(t, models.OrderConfirmed, o.Status)

	o, err = svc.Place(ctx, 0, orderFor(services.OrderLine{ProductID: shirt.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 3.00, o.Tax)
	assert.Equal(t, 9.99, o.Shipping)
	assert.Equal(t, 42.98, o.Total)
}

func TestPlaceOrderIgnoresClientTotals(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.Product("Smartphone", 699.99, 30)

	in := orderFor(services.OrderLine{ProductID: p.ID, Quantity: 1})
	in.Subtotal, in.Total = testutil.Ptr(1.0), testutil.Ptr(1.0)

	o, err := services.NewCheckoutService().Place(context.Background(), 0, in)
	require.NoError(t, err)
	assert.Equal(t, 769.99, o.Total)
}

func TestPlaceOrderDecrementsStockAndClearsCart(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	u := fx.Customer()
	a := fx.Product("A", 10, 5)
	b := fx.Product("B", 20, 3)
	ctx := context.Background()

	_, err := services.NewCartService().Add(ctx, u.ID, services.AddToCartInput{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)

	o, err := services.NewCheckoutService().Place(ctx, u.ID, orderFor(
		services.OrderLine{ProductID: a.ID, Quantity: 2},
		services.OrderLine{ProductID: b.ID, Quantity: 3},
	))
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	require.NotNil(t, o.UserID)
	assert.Equal(t, u.ID, *o.UserID)

	var stock []int
	require.NoError(t, db.Model(&models.Product{}).Order("id").Pluck("stock_quantity", &stock).Error)
	assert.Equal(t, []int{3, 0}, stock)

	var items int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestPlaceOrderRejections(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.Product("Lamp", 40, 1)
	fx.Discount("OLD", models.DiscountFixed, 5, func(d *models.DiscountCode) {
		d.MinOrderAmount = testutil.Ptr(100.0)
	})
	svc := services.NewCheckoutService()
	ctx := context.Background()

	_, err := svc.Place(ctx, 0, services.PlaceOrderInput{ShippingAddress: shipTo, PaymentMethod: "card"})
	assert.Equal(t, "No items in order", messageOf(t, err))

	in := orderFor(services.OrderLine{ProductID: p.ID, Quantity: 1})
	in.PaymentMethod = ""
	_, err = svc.Place(ctx, 0, in)
	assert.Equal(t, "Missing required order information", messageOf(t, err))

	_, err = svc.Place(ctx, 0, orderFor(services.OrderLine{ProductID: 999, Quantity: 1}))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Place(ctx, 0, orderFor(services.OrderLine{ProductID: p.ID, Quantity: 2}))
	assert.Equal(t, "Insufficient stock for Lamp", messageOf(t, err))

	in = orderFor(services.OrderLine{ProductID: p.ID, Quantity: 1})
	in.DiscountCode = testutil.Ptr("nope")
	_, err = svc.Place(ctx, 0, in)
	assert.Equal(t, "Invalid discount code", messageOf(t, err))

	in.DiscountCode = testutil.Ptr("old")
	_, err = svc.Place(ctx, 0, in)
	assert.Equal(t, "Minimum order amount of $100 required for this discount", messageOf(t, err))

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders, "rejected orders must not be written")
}

func TestPlaceOrderAddressMustBePresent(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.Product("Lamp", 40, 5)
	svc := services.NewCheckoutService()
	ctx := context.Background()

	in := orderFor(services.OrderLine{ProductID: p.ID, Quantity: 1})
	in.ShippingAddress = nil
	_, err := svc.Place(ctx, 0, in)
	assert.Equal(t, "Missing required order information", messageOf(t, err))

	in.ShippingAddress = models.Address{}
	o, err := svc.Place(ctx, 0, in)
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
}

func TestPlaceOrderRedeemsDiscountOnce(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.Product("Jacket", 80, 10)
	code := fx.Discount("ONCE", models.DiscountPercentage, 10, func(d *models.DiscountCode) {
		d.MaxUses = testutil.Ptr(1)
	})
	svc := services.NewCheckoutService()

	in := orderFor(services.OrderLine{ProductID: p.ID, Quantity: 1})
	in.DiscountCode = testutil.Ptr("once")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Place(context.Background(), 0, in); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	var reloaded models.DiscountCode
	require.NoError(t, db.First(&reloaded, code.ID).Error)
	assert.Equal(t, 1, reloaded.CurrentUses)

	var stock int
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Pluck("stock_quantity", &stock).Error)
	assert.Equal(t, 9, stock)
}

func TestPlaceOrderStaysPendingWhenPaymentFails(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.Product("Mug", 12, 4)

	payment.Use(payment.ProcessorFunc(func(context.Context, models.Order) error {
		return errors.New("gateway timeout")
	}))
	t.Cleanup(func() { payment.Use(nil) })

	o, err := services.NewCheckoutService().Place(context.Background(), 0,
		orderFor(services.OrderLine{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, o.Status)
}
