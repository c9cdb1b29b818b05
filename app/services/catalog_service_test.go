package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
)

func names(list []services.ProductSummary) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Name
	}
	return out
}

func TestCatalogFiltersAndRatings(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()

	books := fx.Category("Books")
	novel := fx.Product("Novel", 12, 5)
	atlas := fx.Product("Atlas", 40, 5)
	lamp := fx.Product("Desk Lamp", 25, 5)
	hidden := fx.Product("Hidden", 1, 5)
	require.NoError(t, db.Model(&models.Product{}).Where("id IN ?", []uint{novel.ID, atlas.ID}).Update("category_id", books.ID).Error)
	require.NoError(t, db.Model(&hidden).Update("is_active", false).Error)

	for _, r := range []models.Review{
		{ProductID: novel.ID, UserID: fx.Customer().ID, Rating: 5, IsApproved: true},
		{ProductID: novel.ID, UserID: fx.Customer().ID, Rating: 4, IsApproved: true},
		{ProductID: novel.ID, UserID: fx.Customer().ID, Rating: 1},
	} {
		require.NoError(t, db.Create(&r).Error)
	}

	svc := services.NewCatalogService()

	all, err := svc.Products(ctx, repositories.ProductFilter{SortBy: "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Novel", "Desk Lamp", "Atlas"}, names(all))
	assert.Equal(t, 4.5, all[0].AverageRating)
	assert.Equal(t, int64(2), all[0].ReviewCount)
	assert.Zero(t, all[1].ReviewCount)

	inBooks, err := svc.Products(ctx, repositories.ProductFilter{CategorySlug: books.Slug, SortBy: "name-asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlas", "Novel"}, names(inBooks))

	min := 20.0
	found, err := svc.Products(ctx, repositories.ProductFilter{Search: "LAMP", MinPrice: &min})
	require.NoError(t, err)
	assert.Equal(t, []string{"Desk Lamp"}, names(found))

	one, err := svc.Product(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", one.Name)

	_, err = svc.Product(ctx, hidden.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Books", cats[0].Name)
}

func TestCatalogCacheIsForgotten(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()
	svc := services.NewCatalogService()

	fx.Product("First", 10, 1)
	list, err := svc.Products(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	fx.Product("Second", 10, 1)
	list, err = svc.Products(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "served from cache")

	services.ForgetCatalog()
	list, err = svc.Products(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
