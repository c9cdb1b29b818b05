package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// CreateReviewInput is the body of POST /api/reviews.
type CreateReviewInput struct {
	ProductID uint    `json:"productId"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

// ProductReviews is the body of GET /api/reviews/product/{productId}.
type ProductReviews struct {
	Reviews            []models.Review     `json:"reviews"`
	Pagination         response.Pagination `json:"pagination"`
	AverageRating      float64             `json:"averageRating"`
	TotalReviews       int64               `json:"totalReviews"`
	RatingDistribution map[int]int64       `json:"ratingDistribution"`
}

type ReviewService struct {
	reviews  *repositories.ReviewRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewReviewService() *ReviewService {
	return &ReviewService{
		reviews:  repositories.NewReviewRepository(),
		products: repositories.NewProductRepository(),
		orders:   repositories.NewOrderRepository(),
	}
}

// Create stores an unapproved review. The user must have bought the product
// on a CONFIRMED or DELIVERED order and may review it only once.
func (s *ReviewService) Create(ctx context.Context, userID uint, in CreateReviewInput) (models.Review, error) {
	if in.ProductID == 0 || in.Rating == 0 {
		return models.Review{}, apperr.BadRequest("Product ID and rating are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return models.Review{}, apperr.BadRequest("Rating must be between 1 and 5")
	}

	if _, err := s.products.Find(ctx, in.ProductID); err != nil {
		if errors.Is(err, orm.ErrNotFound) {
			return models.Review{}, apperr.NotFound("Product not found")
		}
		return models.Review{}, fmt.Errorf("load product: %w", err)
	}

	dup, err := s.reviews.Exists(ctx, userID, in.ProductID)
	if err != nil {
		return models.Review{}, fmt.Errorf("check review: %w", err)
	}
	if dup {
		return models.Review{}, apperr.BadRequest("You have already reviewed this product")
	}

	bought, err := s.orders.HasPurchased(ctx, userID, in.ProductID, models.OrderDelivered, models.OrderConfirmed)
	if err != nil {
		return models.Review{}, fmt.Errorf("check purchase: %w", err)
	}
	if !bought {
		return models.Review{}, apperr.BadRequest("You can only review products you have purchased")
	}

	rv := models.Review{ProductID: in.ProductID, UserID: userID, Rating: in.Rating, Comment: in.Comment}
	if err := s.reviews.Create(ctx, &rv); err != nil {
		return models.Review{}, fmt.Errorf("create review: %w", err)
	}
	return s.reviews.Find(ctx, rv.ID)
}

// ForProduct pages through approved reviews with the rating summary.
func (s *ReviewService) ForProduct(ctx context.Context, productID uint, page, limit int) (ProductReviews, error) {
	list, p, err := s.reviews.Approved(ctx, productID, page, limit)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("list reviews: %w", err)
	}
	stats, err := s.reviews.ApprovedStats(ctx, productID)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("review stats: %w", err)
	}
	if list == nil {
		list = []models.Review{}
	}
	return ProductReviews{
		Reviews:            list,
		Pagination:         p,
		AverageRating:      stats.Average,
		TotalReviews:       stats.Total,
		RatingDistribution: stats.Distribution,
	}, nil
}

// AdminList pages through reviews by moderation state.
func (s *ReviewService) AdminList(ctx context.Context, status string, page, limit int) ([]models.Review, response.Pagination, error) {
	list, p, err := s.reviews.AdminList(ctx, status, page, limit)
	if err != nil {
		return nil, p, fmt.Errorf("list reviews: %w", err)
	}
	return list, p, nil
}

// SetApproved approves or rejects a review.
func (s *ReviewService) SetApproved(ctx context.Context, id uint, approved bool) (models.Review, error) {
	n, err := s.reviews.SetApproved(ctx, id, approved)
	if err != nil {
		return models.Review{}, fmt.Errorf("moderate review: %w", err)
	}
	if n == 0 {
		return models.Review{}, apperr.NotFound("Review not found")
	}
	ForgetCatalog()
	return s.reviews.Find(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	n, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Review not found")
	}
	ForgetCatalog()
	return nil
}
