package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

type DiscountService struct {
	discounts *repositories.DiscountRepository
	now       func() time.Time
}

func NewDiscountService() *DiscountService {
	return &DiscountService{
		discounts: repositories.NewDiscountRepository(),
		now:       time.Now,
	}
}

// ValidateInput is the body of POST /api/discounts/validate.
type ValidateInput struct {
	Code       string   `json:"code"`
	OrderTotal *float64 `json:"orderTotal"`
}

// AppliedDiscount describes a valid code and what it takes off.
type AppliedDiscount struct {
	ID             uint    `json:"id"`
	Code           string  `json:"code"`
	Type           string  `json:"type"`
	Value          float64 `json:"value"`
	DiscountAmount float64 `json:"discountAmount"`
}

// Validate checks a code against an order total without redeeming it.
func (s *DiscountService) Validate(ctx context.Context, in ValidateInput) (AppliedDiscount, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" || in.OrderTotal == nil {
		return AppliedDiscount{}, apperr.BadRequest("Discount code and order total are required")
	}

	d, err := s.discounts.FindByCode(ctx, code)
	if errors.Is(err, orm.ErrNotFound) {
		return AppliedDiscount{}, apperr.NotFound("Invalid discount code")
	}
	if err != nil {
		return AppliedDiscount{}, fmt.Errorf("load discount: %w", err)
	}

	switch {
	case !d.IsActive:
		return AppliedDiscount{}, apperr.BadRequest("This discount code is no longer active")
	case d.Expired(s.now()):
		return AppliedDiscount{}, apperr.BadRequest("This discount code has expired")
	case d.Exhausted():
		return AppliedDiscount{}, apperr.BadRequest("This discount code has reached its usage limit")
	case d.MinOrderAmount != nil && *in.OrderTotal < *d.MinOrderAmount:
		return AppliedDiscount{}, apperr.BadRequest("Minimum order amount of $%.2f required for this discount", *d.MinOrderAmount)
	}

	total := decimal.NewFromFloat(*in.OrderTotal)
	amount := decimal.Min(DiscountAmount(d, total), total)
	return AppliedDiscount{
		ID:             d.ID,
		Code:           d.Code,
		Type:           d.Type,
		Value:          d.Value,
		DiscountAmount: money(amount),
	}, nil
}

// forOrder loads and checks a code during checkout, using the checkout
// wording for each rejection.
func (s *DiscountService) forOrder(ctx context.Context, repo *repositories.DiscountRepository, code string, subtotal decimal.Decimal) (models.DiscountCode, decimal.Decimal, error) {
	d, err := repo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, orm.ErrNotFound) {
		return d, decimal.Zero, apperr.BadRequest("Invalid discount code")
	}
	if err != nil {
		return d, decimal.Zero, fmt.Errorf("load discount: %w", err)
	}

	switch {
	case !d.IsActive:
		return d, decimal.Zero, apperr.BadRequest("Invalid discount code")
	case d.Expired(s.now()):
		return d, decimal.Zero, apperr.BadRequest("Discount code has expired")
	case d.Exhausted():
		return d, decimal.Zero, apperr.BadRequest("Discount code usage limit reached")
	case d.MinOrderAmount != nil && subtotal.LessThan(decimal.NewFromFloat(*d.MinOrderAmount)):
		return d, decimal.Zero, apperr.BadRequest("Minimum order amount of $%s required for this discount",
			decimal.NewFromFloat(*d.MinOrderAmount).String())
	}
	return d, DiscountAmount(d, subtotal), nil
}

// DiscountInput is the body of POST /api/admin/discounts.
type DiscountInput struct {
	Code           string     `json:"code"`
	Type           string     `json:"type"`
	Value          *float64   `json:"value"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	MaxUses        *int       `json:"maxUses"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

// List returns every code, newest first.
func (s *DiscountService) List(ctx context.Context) ([]models.DiscountCode, error) {
	return s.discounts.All(ctx)
}

// Create validates and stores a new code.
func (s *DiscountService) Create(ctx context.Context, in DiscountInput) (models.DiscountCode, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" || in.Type == "" || in.Value == nil {
		return models.DiscountCode{}, apperr.BadRequest("Code, type, and value are required")
	}

	switch in.Type {
	case models.DiscountPercentage:
		if *in.Value <= 0 || *in.Value > 100 {
			return models.DiscountCode{}, apperr.BadRequest("Percentage must be between 1 and 100")
		}
	case models.DiscountFixed:
		if *in.Value <= 0 {
			return models.DiscountCode{}, apperr.BadRequest("Fixed amount must be greater than 0")
		}
	default:
		return models.DiscountCode{}, apperr.BadRequest("Invalid discount type")
	}

	taken, err := s.discounts.CodeTaken(ctx, code)
	if err != nil {
		return models.DiscountCode{}, fmt.Errorf("check discount code: %w", err)
	}
	if taken {
		return models.DiscountCode{}, apperr.BadRequest("Discount code already exists")
	}

	d := models.DiscountCode{
		Code:           code,
		Type:           in.Type,
		Value:          *in.Value,
		MinOrderAmount: in.MinOrderAmount,
		MaxUses:        in.MaxUses,
		ExpiresAt:      in.ExpiresAt,
		IsActive:       true,
	}
	if err := s.discounts.Create(ctx, &d); err != nil {
		return models.DiscountCode{}, fmt.Errorf("create discount: %w", err)
	}
	return d, nil
}

// SetActive toggles a code.
func (s *DiscountService) SetActive(ctx context.Context, id uint, active bool) (models.DiscountCode, error) {
	n, err := s.discounts.SetActive(ctx, id, active)
	if err != nil {
		return models.DiscountCode{}, fmt.Errorf("toggle discount: %w", err)
	}
	if n == 0 {
		return models.DiscountCode{}, apperr.NotFound("Discount code not found")
	}
	return s.discounts.Find(ctx, id)
}

func (s *DiscountService) Delete(ctx context.Context, id uint) error {
	n, err := s.discounts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Discount code not found")
	}
	return nil
}
