package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
)

// LowStockThreshold is the stock level under which products are flagged.
const LowStockThreshold = 10

// DashboardStats is the body of GET /api/admin/dashboard.
type DashboardStats struct {
	TotalProducts    int64   `json:"totalProducts"`
	TotalOrders      int64   `json:"totalOrders"`
	TotalCustomers   int64   `json:"totalCustomers"`
	TotalRevenue     float64 `json:"totalRevenue"`
	LowStockProducts int64   `json:"lowStockProducts"`
	PendingOrders    int64   `json:"pendingOrders"`
}

type AdminService struct {
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
	users    *repositories.UserRepository
}

func NewAdminService() *AdminService {
	return &AdminService{
		products: repositories.NewProductRepository(),
		orders:   repositories.NewOrderRepository(),
		users:    repositories.NewUserRepository(),
	}
}

// Dashboard counts the headline numbers. Revenue only includes orders that
// were confirmed or moved past confirmation.
func (s *AdminService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalProducts, err = s.products.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalOrders, err = s.orders.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalCustomers, err = s.users.CountCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalRevenue, err = s.orders.Revenue(gctx, models.OrderConfirmed, models.OrderShipped, models.OrderDelivered)
		return err
	})
	g.Go(func() (err error) {
		out.LowStockProducts, err = s.products.CountLowStock(gctx, LowStockThreshold)
		return err
	})
	g.Go(func() (err error) {
		out.PendingOrders, err = s.orders.CountByStatus(gctx, models.OrderPending)
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return out, nil
}

// Customers lists accounts with their spend, order and review counts.
func (s *AdminService) Customers(ctx context.Context, f repositories.CustomerFilter) ([]repositories.CustomerRow, error) {
	rows, err := s.users.Customers(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if rows == nil {
		rows = []repositories.CustomerRow{}
	}
	return rows, nil
}
