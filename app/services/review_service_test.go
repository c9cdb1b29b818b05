package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
)

func TestCreateReviewRequiresPurchase(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	u := fx.Customer()
	bought := fx.Product("Kettle", 30, 10)
	pending := fx.Product("Toaster", 45, 10)
	never := fx.Product("Blender", 60, 10)
	fx.Order(&u, models.OrderDelivered, map[*models.Product]int{&bought: 1})
	fx.Order(&u, models.OrderPending, map[*models.Product]int{&pending: 1})

	svc := services.NewReviewService()
	ctx := context.Background()

	_, err := svc.Create(ctx, u.ID, services.CreateReviewInput{ProductID: never.ID, Rating: 5})
	assert.Equal(t, "You can only review products you have purchased", messageOf(t, err))

	_, err = svc.Create(ctx, u.ID, services.CreateReviewInput{ProductID: pending.ID, Rating: 5})
	assert.Equal(t, "You can only review products you have purchased", messageOf(t, err))

	_, err = svc.Create(ctx, u.ID, services.CreateReviewInput{ProductID: bought.ID, Rating: 6})
	assert.Equal(t, "Rating must be between 1 and 5", messageOf(t, err))

	_, err = svc.Create(ctx, u.ID, services.CreateReviewInput{ProductID: 404, Rating: 3})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	rv, err := svc.Create(ctx, u.ID, services.CreateReviewInput{ProductID: bought.ID, Rating: 4, Comment: testutil.Ptr("Boils fast")})
	require.NoError(t, err)
	assert.False(t, rv.IsApproved)

	_, err = svc.Create(ctx, u.ID, services.CreateReviewInput{ProductID: bought.ID, Rating: 2})
	assert.Equal(t, "You have already reviewed this product", messageOf(t, err))
}

func TestProductReviewsOnlyShowApproved(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.Product("Chair", 90, 10)
	svc := services.NewReviewService()
	ctx := context.Background()

	var ids []uint
	for _, rating := range []int{5, 4, 4} {
		u := fx.Customer()
		fx.Order(&u, models.OrderConfirmed, map[*models.Product]int{&p: 1})
		rv, err := svc.Create(ctx, u.ID, services.CreateReviewInput{ProductID: p.ID, Rating: rating})
		require.NoError(t, err)
		ids = append(ids, rv.ID)
	}

	out, err := svc.ForProduct(ctx, p.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, out.Reviews)
	assert.Zero(t, out.TotalReviews)

	_, err = svc.SetApproved(ctx, ids[0], true)
	require.NoError(t, err)
	_, err = svc.SetApproved(ctx, ids[1], true)
	require.NoError(t, err)

	out, err = svc.ForProduct(ctx, p.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, out.Reviews, 2)
	assert.Equal(t, int64(2), out.TotalReviews)
	assert.InDelta(t, 4.5, out.AverageRating, 0.001)
	assert.Equal(t, int64(1), out.RatingDistribution[5])
	assert.Equal(t, int64(1), out.RatingDistribution[4])
	assert.Equal(t, int64(0), out.RatingDistribution[1])

	pending, _, err := svc.AdminList(ctx, "pending", 1, 20)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[2], pending[0].ID)

	require.NoError(t, svc.Delete(ctx, ids[2]))
	assert.True(t, errors.Is(svc.Delete(ctx, ids[2]), apperr.ErrNotFound))
}
