package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/cache"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

const (
	catalogPrefix = "catalog:"
	categoriesKey = catalogPrefix + "categories"
	catalogTTL    = 5 * time.Minute
)

// ForgetCatalog drops every cached catalog read. Called after admin writes.
func ForgetCatalog() {
	_ = cache.ForgetPrefix(catalogPrefix)
}

// CategorySummary is the public shape of a category.
type CategorySummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// ProductSummary is a product with its approved-review aggregate.
type ProductSummary struct {
	models.Product
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

type CatalogService struct {
	products *repositories.ProductRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{products: repositories.NewProductRepository()}
}

// Categories returns the active categories by name.
func (s *CatalogService) Categories(ctx context.Context) ([]CategorySummary, error) {
	return cache.Remember(categoriesKey, catalogTTL, func() ([]CategorySummary, error) {
		list, err := s.products.ActiveCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		out := make([]CategorySummary, len(list))
		for i, c := range list {
			out[i] = CategorySummary{ID: c.ID, Name: c.Name, Description: c.Description, Slug: c.Slug}
		}
		return out, nil
	})
}

// Products lists active products matching f with their ratings.
func (s *CatalogService) Products(ctx context.Context, f repositories.ProductFilter) ([]ProductSummary, error) {
	return cache.Remember(productsKey(f), catalogTTL, func() ([]ProductSummary, error) {
		list, err := s.products.ListActive(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		return s.withRatings(ctx, list)
	})
}

func productsKey(f repositories.ProductFilter) string {
	bound := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return catalogPrefix + "products:" + strings.Join([]string{
		f.CategorySlug, strings.ToLower(f.Search), bound(f.MinPrice), bound(f.MaxPrice), f.SortBy,
	}, "|")
}

// Product returns one active product with its rating.
func (s *CatalogService) Product(ctx context.Context, id uint) (ProductSummary, error) {
	p, err := s.products.FindActive(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return ProductSummary{}, apperr.NotFound("Product not found")
	}
	if err != nil {
		return ProductSummary{}, fmt.Errorf("load product: %w", err)
	}
	out, err := s.withRatings(ctx, []models.Product{p})
	if err != nil {
		return ProductSummary{}, err
	}
	return out[0], nil
}

func (s *CatalogService) withRatings(ctx context.Context, list []models.Product) ([]ProductSummary, error) {
	ids := make([]uint, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	ratings, err := s.products.Ratings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	out := make([]ProductSummary, len(list))
	for i, p := range list {
		r := ratings[p.ID]
		out[i] = ProductSummary{Product: p, AverageRating: r.Average, ReviewCount: r.Count}
	}
	return out, nil
}
