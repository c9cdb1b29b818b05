package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/mockshop/app/models"
)

// ProductRepository handles database operations for Product and Category.
type ProductRepository struct{ base }

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// WithTx returns a copy bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{base{db: tx}}
}

// ProductFilter narrows the public product list.
type ProductFilter struct {
	CategorySlug string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	SortBy       string
}

func (f ProductFilter) order() string {
	switch f.SortBy {
	case "price-asc":
		return "products.price ASC"
	case "price-desc":
		return "products.price DESC"
	case "name-asc":
		return "products.name ASC"
	case "name-desc":
		return "products.name DESC"
	}
	return "products.created_at DESC"
}

// ListActive returns active products matching f with their category.
func (r *ProductRepository) ListActive(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.query(ctx).Model(&models.Product{}).Preload("Category").Where("products.is_active = ?", true)

	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}

	var products []models.Product
	err := q.Order(f.order()).Get(&products)
	return products, err
}

// FindActive loads an active product with its category.
func (r *ProductRepository) FindActive(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.query(ctx).Preload("Category").Where("id = ? AND is_active = ?", id, true).First(&p)
	return p, err
}

// Find loads any product with its category.
func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.query(ctx).Preload("Category").Where("id = ?", id).First(&p)
	return p, err
}

// FindMany loads the products with the given ids, keyed by id.
func (r *ProductRepository) FindMany(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var list []models.Product
	if err := r.query(ctx).Preload("Category").Where("id IN ?", ids).Get(&list); err != nil {
		return nil, err
	}
	out := make(map[uint]models.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// All returns every product with its category, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.query(ctx).Preload("Category").Order("created_at DESC").Get(&products)
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.query(ctx).Create(p)
}

// Save writes every column of p, including zero values.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return r.gorm(ctx).Omit(clause.Associations).Save(p).Error
}

// DecrementStock removes qty units if at least qty are in stock. It reports
// false when the guard rejected the update.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.gorm(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	return res.RowsAffected == 1, res.Error
}

// HasOrderItems reports whether the product appears on any order.
func (r *ProductRepository) HasOrderItems(ctx context.Context, id uint) (bool, error) {
	return r.query(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Exists()
}

// Delete removes a product together with its cart items, wishlist entries
// and reviews. It must run inside a transaction.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	for _, m := range []any{&models.CartItem{}, &models.Wishlist{}, &models.Review{}} {
		if _, err := r.query(ctx).Where("product_id = ?", id).Delete(m); err != nil {
			return err
		}
	}
	_, err := r.query(ctx).Where("id = ?", id).Delete(&models.Product{})
	return err
}

// CountActive counts active products.
func (r *ProductRepository) CountActive(ctx context.Context) (int64, error) {
	return r.query(ctx).Model(&models.Product{}).Where("is_active = ?", true).Count()
}

// LowStock lists active products with fewer than threshold units, lowest
// first.
func (r *ProductRepository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var out []models.Product
	err := r.query(ctx).Where("is_active = ? AND stock_quantity < ?", true, threshold).
		Order("stock_quantity ASC").Get(&out)
	return out, err
}

// CountLowStock counts the rows LowStock would return.
func (r *ProductRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	return r.query(ctx).Model(&models.Product{}).
		Where("is_active = ? AND stock_quantity < ?", true, threshold).Count()
}

// Rating is the approved-review aggregate of one product.
type Rating struct {
	ProductID uint    `json:"-"`
	Average   float64 `json:"averageRating"`
	Count     int64   `json:"reviewCount"`
}

// Ratings aggregates approved reviews for the given products.
func (r *ProductRepository) Ratings(ctx context.Context, ids []uint) (map[uint]Rating, error) {
	out := make(map[uint]Rating, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Rating
	err := r.gorm(ctx).Model(&models.Review{}).
		Select("product_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("is_approved = ? AND product_id IN ?", true, ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row
	}
	return out, nil
}

// ActiveCategories lists active categories by name.
func (r *ProductRepository) ActiveCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.query(ctx).Where("is_active = ?", true).Order("name ASC").Get(&out)
	return out, err
}

// CategoryExists reports whether a category with id exists.
func (r *ProductRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	return r.query(ctx).Model(&models.Category{}).Where("id = ?", id).Exists()
}

// CategoryBySlug loads a category by slug.
func (r *ProductRepository) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := r.query(ctx).Where("slug = ?", slug).First(&c)
	return c, err
}
