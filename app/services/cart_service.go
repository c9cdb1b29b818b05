package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

// CartView is the body of GET /api/cart.
type CartView struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// AddToCartInput is the body of POST /api/cart.
type AddToCartInput struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartInput is the body of PUT /api/cart.
type UpdateCartInput struct {
	ItemID   uint `json:"itemId"`
	Quantity *int `json:"quantity"`
}

type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService() *CartService {
	return &CartService{
		carts:    repositories.NewCartRepository(),
		products: repositories.NewProductRepository(),
	}
}

// Get returns the user's items and the sum of price times quantity.
func (s *CartService) Get(ctx context.Context, userID uint) (CartView, error) {
	cart, err := s.carts.ForUser(ctx, userID)
	if errors.Is(err, orm.ErrNotFound) {
		return CartView{Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return CartView{}, fmt.Errorf("load cart: %w", err)
	}

	total := decimal.Zero
	for _, it := range cart.Items {
		if it.Product == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartView{Items: items, Total: money(total)}, nil
}

// Add puts quantity units of a product in the cart, merging with an
// existing line. The combined quantity must be in stock.
func (s *CartService) Add(ctx context.Context, userID uint, in AddToCartInput) (models.CartItem, error) {
	if in.ProductID == 0 {
		return models.CartItem{}, apperr.BadRequest("Product ID is required")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return models.CartItem{}, apperr.BadRequest("Invalid parameters")
	}

	var item models.CartItem
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		carts := s.carts.WithTx(tx)

		product, err := products.Find(ctx, in.ProductID)
		if errors.Is(err, orm.ErrNotFound) {
			return apperr.NotFound("Product not found")
		}
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if product.StockQuantity < in.Quantity {
			return apperr.BadRequest("Insufficient stock")
		}

		cart, err := carts.Ensure(ctx, userID)
		if err != nil {
			return fmt.Errorf("ensure cart: %w", err)
		}

		item, err = carts.Item(ctx, cart.ID, product.ID)
		switch {
		case errors.Is(err, orm.ErrNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: in.Quantity}
			if err := carts.CreateItem(ctx, &item); err != nil {
				return fmt.Errorf("create cart item: %w", err)
			}
		case err != nil:
			return fmt.Errorf("load cart item: %w", err)
		default:
			qty := item.Quantity + in.Quantity
			if product.StockQuantity < qty {
				return apperr.BadRequest("Insufficient stock")
			}
			if err := carts.SetQuantity(ctx, item.ID, qty); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
			item.Quantity = qty
		}
		item.Product = &product
		return nil
	})
	return item, err
}

// Update sets a line's quantity. Zero removes the line.
func (s *CartService) Update(ctx context.Context, userID uint, in UpdateCartInput) error {
	if in.ItemID == 0 || in.Quantity == nil || *in.Quantity < 0 {
		return apperr.BadRequest("Invalid parameters")
	}

	item, err := s.carts.UserItem(ctx, userID, in.ItemID)
	if errors.Is(err, orm.ErrNotFound) {
		return apperr.NotFound("Cart item not found")
	}
	if err != nil {
		return fmt.Errorf("load cart item: %w", err)
	}

	if *in.Quantity == 0 {
		return s.carts.DeleteItem(ctx, item.ID)
	}
	if item.Product == nil || item.Product.StockQuantity < *in.Quantity {
		return apperr.BadRequest("Insufficient stock")
	}
	return s.carts.SetQuantity(ctx, item.ID, *in.Quantity)
}

// Remove deletes one line from the user's cart.
func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if itemID == 0 {
		return apperr.BadRequest("Item ID is required")
	}
	item, err := s.carts.UserItem(ctx, userID, itemID)
	if errors.Is(err, orm.ErrNotFound) {
		return apperr.NotFound("Cart item not found")
	}
	if err != nil {
		return fmt.Errorf("load cart item: %w", err)
	}
	return s.carts.DeleteItem(ctx, item.ID)
}

// Clear empties the cart. It reports false when the user had no cart.
func (s *CartService) Clear(ctx context.Context, userID uint) (bool, error) {
	had, err := s.carts.ClearUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("clear cart: %w", err)
	}
	return had, nil
}
