package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
)

func TestDashboardStats(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	fx.Admin()
	ann := fx.Customer()
	bob := fx.Customer()
	mug := fx.Product("Mug", 10, 3)
	pen := fx.Product("Pen", 2, 500)

	fx.Order(&ann, models.OrderConfirmed, map[*models.Product]int{&mug: 2})
	fx.Order(&ann, models.OrderDelivered, map[*models.Product]int{&pen: 5})
	fx.Order(&bob, models.OrderPending, map[*models.Product]int{&mug: 1})
	fx.Order(nil, models.OrderCancelled, map[*models.Product]int{&pen: 1})

	stats, err := services.NewAdminService().Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.DashboardStats{
		TotalProducts:    2,
		TotalOrders:      4,
		TotalCustomers:   2,
		TotalRevenue:     30,
		LowStockProducts: 1,
		PendingOrders:    1,
	}, stats)

	rows, err := services.NewAdminService().Customers(context.Background(), repositories.CustomerFilter{Role: models.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	byID := map[uint]repositories.CustomerRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.Equal(t, 30.0, byID[ann.ID].TotalSpent)
	assert.Equal(t, int64(2), byID[ann.ID].OrderCount)
	assert.Equal(t, int64(1), byID[bob.ID].OrderCount)

	none, err := services.NewAdminService().Customers(context.Background(), repositories.CustomerFilter{Search: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAnalyticsReport(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	cust := fx.Customer()
	toys := fx.Category("Toys")
	kite := fx.Product("Kite", 15, 4)
	require.NoError(t, db.Model(&kite).Update("category_id", toys.ID).Error)
	fx.Order(&cust, models.OrderConfirmed, map[*models.Product]int{&kite: 2})

	report, err := services.NewAnalyticsService().Report(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, report.Period)
	assert.Equal(t, int64(1), report.BasicStats.TotalOrders)
	assert.Len(t, report.RevenueOverTime, 8, "one bucket per day including today")

	today := time.Now().UTC().Format("2006-01-02")
	last := report.RevenueOverTime[len(report.RevenueOverTime)-1]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, 30.0, last.Revenue)

	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "Kite", report.TopProducts[0].Name)
	assert.Equal(t, int64(2), report.TopProducts[0].QuantitySold)
	require.Len(t, report.CategoryPerformance, 1)
	assert.Equal(t, "Toys", report.CategoryPerformance[0].Category)
	require.Len(t, report.LowStockProducts, 1)
	assert.Equal(t, "Kite", report.LowStockProducts[0].Name)
}
