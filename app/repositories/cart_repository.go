package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct{ base }

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// WithTx returns a copy bound to tx.
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{base{db: tx}}
}

// ForUser loads the user's cart with items and products. A user without a
// cart gets orm.ErrNotFound.
func (r *CartRepository) ForUser(ctx context.Context, userID uint) (models.Cart, error) {
	var c models.Cart
	err := r.query(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).First(&c)
	return c, err
}

// Ensure returns the user's cart, creating an empty one when missing.
func (r *CartRepository) Ensure(ctx context.Context, userID uint) (models.Cart, error) {
	var c models.Cart
	err := r.query(ctx).Where("user_id = ?", userID).First(&c)
	if errors.Is(err, orm.ErrNotFound) {
		c = models.Cart{UserID: userID}
		err = r.query(ctx).Create(&c)
	}
	return c, err
}

// Item finds the line for productID in cartID.
func (r *CartRepository) Item(ctx context.Context, cartID, productID uint) (models.CartItem, error) {
	var it models.CartItem
	err := r.query(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&it)
	return it, err
}

// UserItem finds a cart line by id, only if it belongs to userID's cart.
func (r *CartRepository) UserItem(ctx context.Context, userID, itemID uint) (models.CartItem, error) {
	var it models.CartItem
	err := r.query(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Preload("Product").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&it)
	return it, err
}

func (r *CartRepository) CreateItem(ctx context.Context, it *models.CartItem) error {
	return r.query(ctx).Create(it)
}

// SetQuantity changes the quantity of a cart line.
func (r *CartRepository) SetQuantity(ctx context.Context, itemID uint, qty int) error {
	_, err := r.query(ctx).Model(&models.CartItem{}).Where("id = ?", itemID).
		Updates(map[string]any{"quantity": qty})
	return err
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	_, err := r.query(ctx).Where("id = ?", itemID).Delete(&models.CartItem{})
	return err
}

// ClearUser deletes every item in the user's cart and reports whether the
// user had a cart at all.
func (r *CartRepository) ClearUser(ctx context.Context, userID uint) (bool, error) {
	var c models.Cart
	err := r.query(ctx).Where("user_id = ?", userID).First(&c)
	if errors.Is(err, orm.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, err = r.query(ctx).Where("cart_id = ?", c.ID).Delete(&models.CartItem{})
	return true, err
}

// DeleteForUser removes the cart and its items.
func (r *CartRepository) DeleteForUser(ctx context.Context, userID uint) error {
	if _, err := r.ClearUser(ctx, userID); err != nil {
		return err
	}
	_, err := r.query(ctx).Where("user_id = ?", userID).Delete(&models.Cart{})
	return err
}
