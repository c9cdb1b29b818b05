package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

type WishlistService struct {
	wishlist *repositories.WishlistRepository
	products *repositories.ProductRepository
}

func NewWishlistService() *WishlistService {
	return &WishlistService{
		wishlist: repositories.NewWishlistRepository(),
		products: repositories.NewProductRepository(),
	}
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.Wishlist, error) {
	list, err := s.wishlist.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	if list == nil {
		list = []models.Wishlist{}
	}
	return list, nil
}

// Add saves a product. Each product can be saved once.
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) (models.Wishlist, error) {
	if productID == 0 {
		return models.Wishlist{}, apperr.BadRequest("Product ID is required")
	}
	p, err := s.products.Find(ctx, productID)
	if errors.Is(err, orm.ErrNotFound) {
		return models.Wishlist{}, apperr.NotFound("Product not found")
	}
	if err != nil {
		return models.Wishlist{}, fmt.Errorf("load product: %w", err)
	}

	dup, err := s.wishlist.Contains(ctx, userID, productID)
	if err != nil {
		return models.Wishlist{}, fmt.Errorf("check wishlist: %w", err)
	}
	if dup {
		return models.Wishlist{}, apperr.BadRequest("Item already in wishlist")
	}

	w := models.Wishlist{UserID: userID, ProductID: productID}
	if err := s.wishlist.Create(ctx, &w); err != nil {
		return models.Wishlist{}, fmt.Errorf("add to wishlist: %w", err)
	}
	w.Product = &p
	return w, nil
}

// RemoveProduct drops a product from the wishlist.
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID uint) error {
	if productID == 0 {
		return apperr.BadRequest("Product ID is required")
	}
	n, err := s.wishlist.RemoveProduct(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Item not found in wishlist")
	}
	return nil
}

// RemoveEntry drops an entry by id.
func (s *WishlistService) RemoveEntry(ctx context.Context, userID, id uint) error {
	n, err := s.wishlist.RemoveEntry(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Wishlist item not found")
	}
	return nil
}
