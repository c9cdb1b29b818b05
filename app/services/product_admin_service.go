package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

// ProductInput is the body of the admin product endpoints. Nil fields are
// left unchanged by Patch.
type ProductInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stockQuantity"`
	CategoryID    *uint    `json:"categoryId"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"isActive"`
}

func (in ProductInput) complete() bool {
	return in.Name != nil && strings.TrimSpace(*in.Name) != "" && in.Price != nil && in.StockQuantity != nil
}

type ProductAdminService struct {
	products *repositories.ProductRepository
}

func NewProductAdminService() *ProductAdminService {
	return &ProductAdminService{products: repositories.NewProductRepository()}
}

// List returns every product with its category, newest first.
func (s *ProductAdminService) List(ctx context.Context) ([]models.Product, error) {
	list, err := s.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

func (s *ProductAdminService) Get(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return p, apperr.NotFound("Product not found")
	}
	if err != nil {
		return p, fmt.Errorf("load product: %w", err)
	}
	return p, nil
}

// Create adds a product. New products are active unless told otherwise.
func (s *ProductAdminService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if !in.complete() {
		return models.Product{}, apperr.BadRequest("Name, price, and stock quantity are required")
	}
	p := models.Product{IsActive: true}
	if err := s.apply(ctx, &p, in); err != nil {
		return models.Product{}, err
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	ForgetCatalog()
	return s.Get(ctx, p.ID)
}

// Replace overwrites a product. An omitted isActive means active.
func (s *ProductAdminService) Replace(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	if !in.complete() {
		return models.Product{}, apperr.BadRequest("Name, price, and stock quantity are required")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return p, err
	}
	if in.IsActive == nil {
		in.IsActive = ptrTo(true)
	}
	if in.Description == nil {
		in.Description = ptrTo("")
	}
	if in.CategoryID == nil {
		p.CategoryID = nil
	}
	if in.Images == nil {
		p.Images = nil
	}
	return s.save(ctx, p, in)
}

// Patch changes only the given fields.
func (s *ProductAdminService) Patch(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return p, err
	}
	return s.save(ctx, p, in)
}

func (s *ProductAdminService) save(ctx context.Context, p models.Product, in ProductInput) (models.Product, error) {
	if err := s.apply(ctx, &p, in); err != nil {
		return models.Product{}, err
	}
	p.Category = nil
	if err := s.products.Save(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("save product: %w", err)
	}
	ForgetCatalog()
	return s.Get(ctx, p.ID)
}

func (s *ProductAdminService) apply(ctx context.Context, p *models.Product, in ProductInput) error {
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return apperr.BadRequest("Name cannot be empty")
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return apperr.BadRequest("Price cannot be negative")
		}
		p.Price = *in.Price
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return apperr.BadRequest("Stock quantity cannot be negative")
		}
		p.StockQuantity = *in.StockQuantity
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if len(p.Images) == 0 {
		p.Images = []string{models.PlaceholderImage}
	}

	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			p.CategoryID = nil
			return nil
		}
		ok, err := s.products.CategoryExists(ctx, *in.CategoryID)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !ok {
			return apperr.BadRequest("Invalid category")
		}
		p.CategoryID = in.CategoryID
	}
	return nil
}

// Delete removes a product that was never ordered, along with its cart
// lines, wishlist entries and reviews.
func (s *ProductAdminService) Delete(ctx context.Context, id uint) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		if _, err := products.Find(ctx, id); err != nil {
			if errors.Is(err, orm.ErrNotFound) {
				return apperr.NotFound("Product not found")
			}
			return fmt.Errorf("load product: %w", err)
		}

		ordered, err := products.HasOrderItems(ctx, id)
		if err != nil {
			return fmt.Errorf("check orders: %w", err)
		}
		if ordered {
			return apperr.BadRequest("Cannot delete product with existing orders. Consider deactivating instead.")
		}
		if err := products.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ForgetCatalog()
	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	return nil
}

func ptrTo[T any](v T) *T { return &v }
