package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
)

const (
	DefaultAnalyticsPeriod = 30
	MaxAnalyticsPeriod     = 365
	dateKey                = "2006-01-02"
)

// Analytics is the body of GET /api/admin/analytics.
type Analytics struct {
	Period              int                        `json:"period"`
	BasicStats          BasicStats                 `json:"basicStats"`
	OrdersByStatus      []repositories.StatusCount `json:"ordersByStatus"`
	RevenueOverTime     []RevenuePoint             `json:"revenueOverTime"`
	TopProducts         []TopProduct               `json:"topProducts"`
	CustomerAcquisition []AcquisitionPoint         `json:"customerAcquisition"`
	CategoryPerformance []CategoryPerformance      `json:"categoryPerformance"`
	RecentOrders        []RecentOrder              `json:"recentOrders"`
	LowStockProducts    []LowStockProduct          `json:"lowStockProducts"`
}

type BasicStats struct {
	TotalProducts  int64   `json:"totalProducts"`
	TotalCustomers int64   `json:"totalCustomers"`
	TotalOrders    int64   `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type AcquisitionPoint struct {
	Date      string `json:"date"`
	Customers int64  `json:"customers"`
}

type TopProduct struct {
	ProductID    uint    `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	QuantitySold int64   `json:"quantitySold"`
	OrderCount   int64   `json:"orderCount"`
}

type CategoryPerformance struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Quantity int64   `json:"quantity"`
}

type RecentOrder struct {
	ID        uint      `json:"id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Customer  string    `json:"customer"`
	ItemCount int       `json:"itemCount"`
}

type LowStockProduct struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	StockQuantity int     `json:"stockQuantity"`
	Price         float64 `json:"price"`
}

type AnalyticsService struct {
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
	users    *repositories.UserRepository
	now      func() time.Time
}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{
		products: repositories.NewProductRepository(),
		orders:   repositories.NewOrderRepository(),
		users:    repositories.NewUserRepository(),
		now:      time.Now,
	}
}

// Report builds the analytics for the last period days. The independent
// queries run concurrently.
func (s *AnalyticsService) Report(ctx context.Context, period int) (Analytics, error) {
	if period <= 0 {
		period = DefaultAnalyticsPeriod
	}
	if period > MaxAnalyticsPeriod {
		period = MaxAnalyticsPeriod
	}
	end := s.now()
	start := end.AddDate(0, 0, -period)
	weekly := period > 30

	out := Analytics{Period: period}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.BasicStats.TotalProducts, err = s.products.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.BasicStats.TotalCustomers, err = s.users.CountCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.BasicStats.TotalOrders, err = s.orders.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.BasicStats.TotalRevenue, err = s.orders.Revenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.OrdersByStatus, err = s.orders.CountByStatusBetween(gctx, start, end)
		return err
	})
	g.Go(func() error {
		points, err := s.orders.TotalsBetween(gctx, start, end)
		if err != nil {
			return err
		}
		out.RevenueOverTime = revenueBuckets(points, start, end, weekly)
		return nil
	})
	g.Go(func() error {
		signups, err := s.users.CustomerSignups(gctx, start, end)
		if err != nil {
			return err
		}
		out.CustomerAcquisition = acquisitionBuckets(signups, start, end, weekly)
		return nil
	})
	g.Go(func() (err error) {
		out.TopProducts, err = s.topProducts(gctx, start, end)
		return err
	})
	g.Go(func() error {
		sales, err := s.orders.SalesBetween(gctx, start, end, 0)
		if err != nil {
			return err
		}
		out.CategoryPerformance = categoryPerformance(sales)
		return nil
	})
	g.Go(func() error {
		recent, err := s.orders.Recent(gctx, 10)
		if err != nil {
			return err
		}
		out.RecentOrders = recentOrders(recent)
		return nil
	})
	g.Go(func() error {
		low, err := s.products.LowStock(gctx, LowStockThreshold)
		if err != nil {
			return err
		}
		out.LowStockProducts = make([]LowStockProduct, len(low))
		for i, p := range low {
			out.LowStockProducts[i] = LowStockProduct{ID: p.ID, Name: p.Name, StockQuantity: p.StockQuantity, Price: p.Price}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Analytics{}, fmt.Errorf("analytics: %w", err)
	}
	if out.OrdersByStatus == nil {
		out.OrdersByStatus = []repositories.StatusCount{}
	}
	return out, nil
}

func (s *AnalyticsService) topProducts(ctx context.Context, start, end time.Time) ([]TopProduct, error) {
	sales, err := s.orders.SalesBetween(ctx, start, end, 5)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(sales))
	for i, row := range sales {
		ids[i] = row.ProductID
	}
	products, err := s.products.FindMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TopProduct, len(sales))
	for i, row := range sales {
		tp := TopProduct{ProductID: row.ProductID, Name: "Unknown Product", QuantitySold: row.Quantity, OrderCount: row.OrderCount}
		if p, ok := products[row.ProductID]; ok {
			tp.Name, tp.Price = p.Name, p.Price
		}
		out[i] = tp
	}
	return out, nil
}

// bucketKey is the day of t, or the Sunday on or before it when weekly.
func bucketKey(t time.Time, weekly bool) string {
	t = t.UTC()
	if weekly {
		t = t.AddDate(0, 0, -int(t.Weekday()))
	}
	return t.Format(dateKey)
}

// bucketKeys lists every bucket between start and end in order.
func bucketKeys(start, end time.Time, weekly bool) []string {
	step := 1
	cur := start.UTC()
	if weekly {
		step = 7
		cur = cur.AddDate(0, 0, -int(cur.Weekday()))
	}
	cur = time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, time.UTC)

	var keys []string
	for !cur.After(end) {
		keys = append(keys, cur.Format(dateKey))
		cur = cur.AddDate(0, 0, step)
	}
	return keys
}

func revenueBuckets(points []repositories.TotalPoint, start, end time.Time, weekly bool) []RevenuePoint {
	sums := map[string]decimal.Decimal{}
	for _, p := range points {
		k := bucketKey(p.CreatedAt, weekly)
		sums[k] = sums[k].Add(decimal.NewFromFloat(p.Total))
	}
	keys := bucketKeys(start, end, weekly)
	out := make([]RevenuePoint, len(keys))
	for i, k := range keys {
		out[i] = RevenuePoint{Date: k, Revenue: money(sums[k])}
	}
	return out
}

func acquisitionBuckets(signups []time.Time, start, end time.Time, weekly bool) []AcquisitionPoint {
	counts := map[string]int64{}
	for _, t := range signups {
		counts[bucketKey(t, weekly)]++
	}
	keys := bucketKeys(start, end, weekly)
	out := make([]AcquisitionPoint, len(keys))
	for i, k := range keys {
		out[i] = AcquisitionPoint{Date: k, Customers: counts[k]}
	}
	return out
}

func categoryPerformance(sales []repositories.ProductSales) []CategoryPerformance {
	byName := map[string]*CategoryPerformance{}
	for _, row := range sales {
		if row.CategoryName == nil {
			continue
		}
		cp, ok := byName[*row.CategoryName]
		if !ok {
			cp = &CategoryPerformance{Category: *row.CategoryName}
			byName[*row.CategoryName] = cp
		}
		cp.Revenue = money(decimal.NewFromFloat(cp.Revenue).Add(decimal.NewFromFloat(row.PriceSum)))
		cp.Quantity += row.Quantity
	}

	out := make([]CategoryPerformance, 0, len(byName))
	for _, cp := range byName {
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func recentOrders(list []models.Order) []RecentOrder {
	out := make([]RecentOrder, len(list))
	for i, o := range list {
		customer := "Guest"
		if o.User != nil {
			customer = o.User.FirstName + " " + o.User.LastName
		}
		out[i] = RecentOrder{
			ID:        o.ID,
			Total:     o.Total,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
			Customer:  customer,
			ItemCount: len(o.Items),
		}
	}
	return out
}
