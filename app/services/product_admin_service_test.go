package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
)

func TestProductCreateAndPatch(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	cat := fx.Category("Electronics")
	svc := services.NewProductAdminService()
	ctx := context.Background()

	_, err := svc.Create(ctx, services.ProductInput{Name: testutil.Ptr("Radio")})
	assert.Equal(t, "Name, price, and stock quantity are required", messageOf(t, err))

	_, err = svc.Create(ctx, services.ProductInput{
		Name: testutil.Ptr("Radio"), Price: testutil.Ptr(25.0), StockQuantity: testutil.Ptr(3),
		CategoryID: testutil.Ptr(uint(999)),
	})
	assert.Equal(t, "Invalid category", messageOf(t, err))

	p, err := svc.Create(ctx, services.ProductInput{
		Name: testutil.Ptr("Radio"), Price: testutil.Ptr(25.0), StockQuantity: testutil.Ptr(3),
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, []string{models.PlaceholderImage}, p.Images)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Electronics", p.Category.Name)

	patched, err := svc.Patch(ctx, p.ID, services.ProductInput{IsActive: testutil.Ptr(false)})
	require.NoError(t, err)
	assert.False(t, patched.IsActive)
	assert.Equal(t, "Radio", patched.Name)
	assert.Equal(t, 25.0, patched.Price)

	replaced, err := svc.Replace(ctx, p.ID, services.ProductInput{
		Name: testutil.Ptr("Radio Pro"), Price: testutil.Ptr(35.0), StockQuantity: testutil.Ptr(7),
	})
	require.NoError(t, err)
	assert.True(t, replaced.IsActive, "replace defaults isActive to true")
	assert.Nil(t, replaced.CategoryID)

	_, err = svc.Patch(ctx, p.ID, services.ProductInput{Price: testutil.Ptr(-1.0)})
	assert.Equal(t, "Price cannot be negative", messageOf(t, err))
}

func TestProductDeleteRules(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	u := fx.Customer()
	ordered := fx.Product("Ordered", 10, 10)
	loose := fx.Product("Loose", 10, 10)
	fx.Order(&u, models.OrderConfirmed, map[*models.Product]int{&ordered: 1})

	ctx := context.Background()
	_, err := services.NewCartService().Add(ctx, u.ID, services.AddToCartInput{ProductID: loose.ID})
	require.NoError(t, err)
	_, err = services.NewWishlistService().Add(ctx, u.ID, loose.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Review{ProductID: loose.ID, UserID: u.ID, Rating: 3}).Error)

	svc := services.NewProductAdminService()

	err = svc.Delete(ctx, ordered.ID)
	assert.Equal(t, "Cannot delete product with existing orders. Consider deactivating instead.", messageOf(t, err))

	assert.True(t, errors.Is(svc.Delete(ctx, 12345), apperr.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, loose.ID))
	for _, table := range []any{&models.CartItem{}, &models.Wishlist{}, &models.Review{}} {
		var n int64
		require.NoError(t, db.Model(table).Where("product_id = ?", loose.ID).Count(&n).Error)
		assert.Zero(t, n, "%T rows left behind", table)
	}
	_, err = svc.Get(ctx, loose.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestProductSheetRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	cat := fx.Category("Clothing")
	shirt := fx.Product("T-Shirt", 29.99, 100)
	require.NoError(t, db.Model(&shirt).Update("category_id", cat.ID).Error)

	svc := services.NewProductAdminService()
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0].Cells[1].String())
	assert.Equal(t, "T-Shirt", rows[1].Cells[1].String())
	assert.Equal(t, cat.Slug, rows[1].Cells[6].String())

	// Edit the existing row and append a new product.
	rows[1].Cells[4].SetInt(80)
	extra := file.Sheets[0].AddRow()
	for _, v := range []string{"", "Hoodie", "Warm", "49.5", "12", "yes", cat.Slug, ""} {
		extra.AddCell().SetString(v)
	}
	bad := file.Sheets[0].AddRow()
	for _, v := range []string{"", "Broken", "", "cheap", "1", "", "", ""} {
		bad.AddCell().SetString(v)
	}
	var edited bytes.Buffer
	require.NoError(t, file.Write(&edited))

	res, err := svc.Import(ctx, edited.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 4")

	updated, err := svc.Get(ctx, shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, updated.StockQuantity)

	var hoodie models.Product
	require.NoError(t, db.Where("name = ?", "Hoodie").First(&hoodie).Error)
	assert.Equal(t, 49.5, hoodie.Price)
	require.NotNil(t, hoodie.CategoryID)
	assert.Equal(t, cat.ID, *hoodie.CategoryID)

	_, err = svc.Import(ctx, []byte("not a workbook"))
	assert.Equal(t, "Failed to parse Excel file", messageOf(t, err))
}
