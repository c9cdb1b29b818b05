package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// ReviewRepository handles database operations for Review.
type ReviewRepository struct{ base }

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// WithTx returns a copy bound to tx.
func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{base{db: tx}}
}

// Exists reports whether userID already reviewed productID.
func (r *ReviewRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	return r.query(ctx).Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Exists()
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	return r.query(ctx).Create(rv)
}

func reviewer(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name")
}

func adminReviewer(db *gorm.DB) *gorm.DB {
	return db.Select("id", "email", "first_name", "last_name")
}

func reviewedProduct(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "images")
}

// Approved pages through a product's approved reviews, newest first.
func (r *ReviewRepository) Approved(ctx context.Context, productID uint, page, limit int) ([]models.Review, response.Pagination, error) {
	var out []models.Review
	p, err := r.query(ctx).Model(&models.Review{}).Preload("User", reviewer).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Paginate(&out, page, limit)
	return out, p, err
}

// Stats is the approved-review summary of a product.
type Stats struct {
	Average      float64
	Total        int64
	Distribution map[int]int64
}

// ApprovedStats aggregates a product's approved reviews. Distribution always
// holds the keys 1 to 5.
func (r *ReviewRepository) ApprovedStats(ctx context.Context, productID uint) (Stats, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := r.gorm(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return Stats{}, err
	}

	s := Stats{Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var sum int64
	for _, row := range rows {
		s.Distribution[row.Rating] = row.Count
		s.Total += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if s.Total > 0 {
		s.Average = float64(sum) / float64(s.Total)
	}
	return s, nil
}

// AdminList pages through reviews filtered by "pending", "approved" or "all".
func (r *ReviewRepository) AdminList(ctx context.Context, status string, page, limit int) ([]models.Review, response.Pagination, error) {
	q := r.query(ctx).Model(&models.Review{}).
		Preload("User", adminReviewer).
		Preload("Product", reviewedProduct)
	switch status {
	case "pending":
		q = q.Where("is_approved = ?", false)
	case "approved":
		q = q.Where("is_approved = ?", true)
	}
	var out []models.Review
	p, err := q.Order("created_at DESC").Paginate(&out, page, limit)
	return out, p, err
}

func (r *ReviewRepository) Find(ctx context.Context, id uint) (models.Review, error) {
	var rv models.Review
	err := r.query(ctx).Preload("User", reviewer).Where("id = ?", id).First(&rv)
	return rv, err
}

// SetApproved changes the moderation state and reports the affected rows.
func (r *ReviewRepository) SetApproved(ctx context.Context, id uint, approved bool) (int64, error) {
	return r.query(ctx).Model(&models.Review{}).Where("id = ?", id).
		Updates(map[string]any{"is_approved": approved})
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.query(ctx).Where("id = ?", id).Delete(&models.Review{})
}

// ForUser lists a user's reviews with the product id and name.
func (r *ReviewRepository) ForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var out []models.Review
	err := r.query(ctx).Preload("Product", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name")
	}).Where("user_id = ?", userID).Order("created_at DESC").Get(&out)
	return out, err
}

// DeleteForUser removes every review written by userID.
func (r *ReviewRepository) DeleteForUser(ctx context.Context, userID uint) error {
	_, err := r.query(ctx).Where("user_id = ?", userID).Delete(&models.Review{})
	return err
}
