package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

// DataExport is the downloadable copy of everything stored about a user.
type DataExport struct {
	ExportDate time.Time     `json:"exportDate"`
	User       ExportedUser  `json:"user"`
	Summary    ExportSummary `json:"summary"`
}

// ExportedUser is the account with its owned rows.
type ExportedUser struct {
	models.User
	Orders   []models.Order    `json:"orders"`
	Reviews  []models.Review   `json:"reviews"`
	Wishlist []models.Wishlist `json:"wishlist"`
	Cart     *models.Cart      `json:"cart"`
}

type ExportSummary struct {
	TotalOrders   int `json:"totalOrders"`
	TotalReviews  int `json:"totalReviews"`
	WishlistItems int `json:"wishlistItems"`
	CartItems     int `json:"cartItems"`
}

type AccountService struct {
	users    *repositories.UserRepository
	orders   *repositories.OrderRepository
	reviews  *repositories.ReviewRepository
	wishlist *repositories.WishlistRepository
	carts    *repositories.CartRepository
	settings *repositories.SettingsRepository
	now      func() time.Time
}

func NewAccountService() *AccountService {
	return &AccountService{
		users:    repositories.NewUserRepository(),
		orders:   repositories.NewOrderRepository(),
		reviews:  repositories.NewReviewRepository(),
		wishlist: repositories.NewWishlistRepository(),
		carts:    repositories.NewCartRepository(),
		settings: repositories.NewSettingsRepository(),
		now:      time.Now,
	}
}

// Export collects the user's account, orders, reviews, wishlist and cart.
func (s *AccountService) Export(ctx context.Context, userID uint) (DataExport, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, orm.ErrNotFound) {
		return DataExport{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return DataExport{}, fmt.Errorf("load user: %w", err)
	}

	out := ExportedUser{User: u}
	if out.Orders, err = s.orders.ForUser(ctx, userID); err != nil {
		return DataExport{}, fmt.Errorf("export orders: %w", err)
	}
	if out.Reviews, err = s.reviews.ForUser(ctx, userID); err != nil {
		return DataExport{}, fmt.Errorf("export reviews: %w", err)
	}
	if out.Wishlist, err = s.wishlist.ForUser(ctx, userID); err != nil {
		return DataExport{}, fmt.Errorf("export wishlist: %w", err)
	}
	cart, err := s.carts.ForUser(ctx, userID)
	switch {
	case errors.Is(err, orm.ErrNotFound):
	case err != nil:
		return DataExport{}, fmt.Errorf("export cart: %w", err)
	default:
		out.Cart = &cart
	}

	summary := ExportSummary{
		TotalOrders:   len(out.Orders),
		TotalReviews:  len(out.Reviews),
		WishlistItems: len(out.Wishlist),
	}
	if out.Cart != nil {
		summary.CartItems = len(out.Cart.Items)
	}
	return DataExport{ExportDate: s.now().UTC(), User: out, Summary: summary}, nil
}

// ExportFilename names the export attachment after its date.
func (s *AccountService) ExportFilename() string {
	return "user-data-" + s.now().UTC().Format("2006-01-02") + ".json"
}

// Delete removes the account and everything it owns. Orders are kept for
// the sales history and detached from the user.
func (s *AccountService) Delete(ctx context.Context, userID uint) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.users.WithTx(tx).FindByID(ctx, userID); err != nil {
			if errors.Is(err, orm.ErrNotFound) {
				return apperr.NotFound("User not found")
			}
			return fmt.Errorf("load user: %w", err)
		}

		steps := []struct {
			name string
			run  func(context.Context, uint) error
		}{
			{"reviews", s.reviews.WithTx(tx).DeleteForUser},
			{"wishlist", s.wishlist.WithTx(tx).DeleteForUser},
			{"cart", s.carts.WithTx(tx).DeleteForUser},
			{"settings", s.settings.WithTx(tx).DeleteUser},
			{"orders", s.orders.WithTx(tx).DetachUser},
		}
		for _, step := range steps {
			if err := step.run(ctx, userID); err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
		}

		if _, err := s.users.WithTx(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err == nil {
		logger.WithCtx(ctx).Info("account deleted", "user_id", userID)
	}
	return err
}
