package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// OrderRepository handles database operations for Order and OrderItem.
type OrderRepository struct{ base }

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// WithTx returns a copy bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{base{db: tx}}
}

// Create inserts the order and its items.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.query(ctx).Create(o)
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("Items.Product")
}

// ForUser lists a user's orders with items and products, newest first.
func (r *OrderRepository) ForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	err := r.query(ctx).Scopes(withItems).Where("user_id = ?", userID).
		Order("created_at DESC").Get(&out)
	return out, err
}

// FindForUser loads one order owned by userID.
func (r *OrderRepository) FindForUser(ctx context.Context, userID, id uint) (models.Order, error) {
	var o models.Order
	err := r.query(ctx).Scopes(withItems).Where("id = ? AND user_id = ?", id, userID).First(&o)
	return o, err
}

// Find loads any order with its items and customer.
func (r *OrderRepository) Find(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.query(ctx).Scopes(withItems).Preload("User").Where("id = ?", id).First(&o)
	return o, err
}

// List pages through all orders, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status string, page, limit int) ([]models.Order, response.Pagination, error) {
	q := r.query(ctx).Model(&models.Order{}).Scopes(withItems).Preload("User")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var out []models.Order
	p, err := q.Order("created_at DESC").Paginate(&out, page, limit)
	return out, p, err
}

// UpdateStatus moves an order to status and reports the affected rows.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (int64, error) {
	return r.query(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]any{"status": status})
}

// ConfirmPending confirms the order only if it is still PENDING.
func (r *OrderRepository) ConfirmPending(ctx context.Context, id uint) (int64, error) {
	return r.query(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderPending).
		Updates(map[string]any{"status": models.OrderConfirmed})
}

// StalePending returns ids of PENDING orders created before cutoff.
func (r *OrderRepository) StalePending(ctx context.Context, cutoff time.Time) ([]uint, error) {
	var ids []uint
	err := r.gorm(ctx).Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderPending, cutoff).
		Pluck("id", &ids).Error
	return ids, err
}

// HasPurchased reports whether userID has an order in one of statuses that
// contains productID.
func (r *OrderRepository) HasPurchased(ctx context.Context, userID, productID uint, statuses ...string) (bool, error) {
	return r.query(ctx).Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status IN ?", userID, productID, statuses).
		Exists()
}

// DetachUser keeps a deleted user's orders as guest orders.
func (r *OrderRepository) DetachUser(ctx context.Context, userID uint) error {
	return r.gorm(ctx).Model(&models.Order{}).Where("user_id = ?", userID).
		UpdateColumn("user_id", nil).Error
}

// Count counts every order.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	return r.query(ctx).Model(&models.Order{}).Count()
}

// CountByStatus counts orders in status.
func (r *OrderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.query(ctx).Model(&models.Order{}).Where("status = ?", status).Count()
}

// Revenue sums order totals, restricted to statuses when any are given.
func (r *OrderRepository) Revenue(ctx context.Context, statuses ...string) (float64, error) {
	var total float64
	q := r.gorm(ctx).Model(&models.Order{}).Select("COALESCE(SUM(total), 0)")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Row().Scan(&total)
	return total, err
}

// StatusCount is one row of a status histogram.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CountByStatusBetween groups orders created in [from, to] by status.
func (r *OrderRepository) CountByStatusBetween(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	var out []StatusCount
	err := r.gorm(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("status").Order("status").
		Scan(&out).Error
	return out, err
}

// TotalPoint is an order total at a point in time.
type TotalPoint struct {
	Total     float64
	CreatedAt time.Time
}

// TotalsBetween returns the total and creation time of orders in [from, to].
func (r *OrderRepository) TotalsBetween(ctx context.Context, from, to time.Time) ([]TotalPoint, error) {
	var out []TotalPoint
	err := r.gorm(ctx).Model(&models.Order{}).
		Select("total, created_at").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Scan(&out).Error
	return out, err
}

// ProductSales aggregates order items of one product.
type ProductSales struct {
	ProductID    uint
	Quantity     int64
	OrderCount   int64
	PriceSum     float64
	CategoryName *string
}

// SalesBetween aggregates order items of orders created in [from, to] per
// product, highest quantity first. limit <= 0 returns every product.
func (r *OrderRepository) SalesBetween(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	q := r.gorm(ctx).Model(&models.OrderItem{}).
		Select(`order_items.product_id, SUM(order_items.quantity) AS quantity,
			COUNT(order_items.id) AS order_count, SUM(order_items.price) AS price_sum,
			MAX(categories.name) AS category_name`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("orders.created_at >= ? AND orders.created_at <= ?", from, to).
		Group("order_items.product_id").
		Order("quantity DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []ProductSales
	err := q.Scan(&out).Error
	return out, err
}

// Recent returns the newest orders with customer and items.
func (r *OrderRepository) Recent(ctx context.Context, n int) ([]models.Order, error) {
	var out []models.Order
	err := r.query(ctx).Preload("User").Preload("Items").Order("created_at DESC").Limit(n).Get(&out)
	return out, err
}
