package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
)

// WishlistRepository handles database operations for Wishlist.
type WishlistRepository struct{ base }

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{}
}

// WithTx returns a copy bound to tx.
func (r *WishlistRepository) WithTx(tx *gorm.DB) *WishlistRepository {
	return &WishlistRepository{base{db: tx}}
}

// ForUser lists saved products with their category, newest first.
func (r *WishlistRepository) ForUser(ctx context.Context, userID uint) ([]models.Wishlist, error) {
	var out []models.Wishlist
	err := r.query(ctx).Preload("Product").Preload("Product.Category").
		Where("user_id = ?", userID).Order("created_at DESC").Get(&out)
	return out, err
}

// Contains reports whether productID is on userID's wishlist.
func (r *WishlistRepository) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	return r.query(ctx).Model(&models.Wishlist{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Exists()
}

func (r *WishlistRepository) Create(ctx context.Context, w *models.Wishlist) error {
	return r.query(ctx).Create(w)
}

// RemoveProduct deletes the entry for productID and reports the rows removed.
func (r *WishlistRepository) RemoveProduct(ctx context.Context, userID, productID uint) (int64, error) {
	return r.query(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Wishlist{})
}

// RemoveEntry deletes an entry by id when owned by userID.
func (r *WishlistRepository) RemoveEntry(ctx context.Context, userID, id uint) (int64, error) {
	return r.query(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Wishlist{})
}

// DeleteForUser clears the user's wishlist.
func (r *WishlistRepository) DeleteForUser(ctx context.Context, userID uint) error {
	_, err := r.query(ctx).Where("user_id = ?", userID).Delete(&models.Wishlist{})
	return err
}
