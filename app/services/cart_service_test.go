package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
)

func TestCartLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	u := fx.Customer()
	other := fx.Customer()
	p := fx.Product("Socks", 5.5, 4)
	svc := services.NewCartService()
	ctx := context.Background()

	view, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)

	item, err := svc.Add(ctx, u.ID, services.AddToCartInput{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	item, err = svc.Add(ctx, u.ID, services.AddToCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity, "adding the same product merges lines")

	_, err = svc.Add(ctx, u.ID, services.AddToCartInput{ProductID: p.ID, Quantity: 2})
	assert.Equal(t, "Insufficient stock", messageOf(t, err))

	_, err = svc.Add(ctx, u.ID, services.AddToCartInput{ProductID: 999})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	view, err = svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 16.5, view.Total)

	err = svc.Update(ctx, other.ID, services.UpdateCartInput{ItemID: item.ID, Quantity: testutil.Ptr(1)})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "items of another cart are invisible")

	err = svc.Update(ctx, u.ID, services.UpdateCartInput{ItemID: item.ID, Quantity: testutil.Ptr(5)})
	assert.Equal(t, "Insufficient stock", messageOf(t, err))

	require.NoError(t, svc.Update(ctx, u.ID, services.UpdateCartInput{ItemID: item.ID, Quantity: testutil.Ptr(0)}))
	view, err = svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	had, err := svc.Clear(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, had)
	had, err = svc.Clear(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, had)
}

func TestWishlist(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	u := fx.Customer()
	p := fx.Product("Vase", 18, 2)
	svc := services.NewWishlistService()
	ctx := context.Background()

	entry, err := svc.Add(ctx, u.ID, p.ID)
	require.NoError(t, err)

	_, err = svc.Add(ctx, u.ID, p.ID)
	assert.Equal(t, "Item already in wishlist", messageOf(t, err))
	_, err = svc.Add(ctx, u.ID, 0)
	assert.Equal(t, "Product ID is required", messageOf(t, err))

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Product)
	assert.Equal(t, "Vase", list[0].Product.Name)

	other := fx.Customer()
	assert.True(t, errors.Is(svc.RemoveEntry(ctx, other.ID, entry.ID), apperr.ErrNotFound))
	require.NoError(t, svc.RemoveEntry(ctx, u.ID, entry.ID))
	assert.Equal(t, "Item not found in wishlist", messageOf(t, svc.RemoveProduct(ctx, u.ID, p.ID)))
}
