package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/events"
	"github.com/shashiranjanraj/mockshop/app/jobs"
	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/payment"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/event"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// PlaceOrderInput is the body of POST /api/orders. Subtotal and Total are
// accepted from the client but never used.
type PlaceOrderInput struct {
	Items           []OrderLine    `json:"items"`
	ShippingAddress models.Address `json:"shippingAddress"`
	BillingAddress  models.Address `json:"billingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	DiscountCode    *string        `json:"discountCode"`
	Subtotal        *float64       `json:"subtotal"`
	Total           *float64       `json:"total"`
}

type CheckoutService struct {
	products  *repositories.ProductRepository
	orders    *repositories.OrderRepository
	discounts *repositories.DiscountRepository
	carts     *repositories.CartRepository
	settings  *repositories.SettingsRepository
	discount  *DiscountService
}

func NewCheckoutService() *CheckoutService {
	return &CheckoutService{
		products:  repositories.NewProductRepository(),
		orders:    repositories.NewOrderRepository(),
		discounts: repositories.NewDiscountRepository(),
		carts:     repositories.NewCartRepository(),
		settings:  repositories.NewSettingsRepository(),
		discount:  NewDiscountService(),
	}
}

func checkoutFailed(reason string, err error) error {
	metrics.CheckoutFailures.WithLabelValues(reason).Inc()
	return err
}

// Place prices the order from live data, writes it in one transaction with
// guarded stock and discount updates, then settles payment. userID is 0 for
// guests.
func (s *CheckoutService) Place(ctx context.Context, userID uint, in PlaceOrderInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, checkoutFailed("validation", apperr.BadRequest("No items in order"))
	}
	if in.ShippingAddress == nil || strings.TrimSpace(in.PaymentMethod) == "" {
		return models.Order{}, checkoutFailed("validation", apperr.BadRequest("Missing required order information"))
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Items))
	names := make(map[uint]string, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return models.Order{}, checkoutFailed("validation", apperr.BadRequest("Invalid quantity for product %d", line.ProductID))
		}
		p, err := s.products.Find(ctx, line.ProductID)
		if errors.Is(err, orm.ErrNotFound) {
			return models.Order{}, checkoutFailed("validation", apperr.NotFound("Product %d not found", line.ProductID))
		}
		if err != nil {
			return models.Order{}, fmt.Errorf("load product %d: %w", line.ProductID, err)
		}
		if p.StockQuantity < line.Quantity {
			return models.Order{}, checkoutFailed("stock", apperr.BadRequest("Insufficient stock for %s", p.Name))
		}
		price := decimal.NewFromFloat(p.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{ProductID: p.ID, Quantity: line.Quantity, Price: p.Price})
		names[p.ID] = p.Name
	}

	var (
		code     models.DiscountCode
		discount = decimal.Zero
	)
	if in.DiscountCode != nil && strings.TrimSpace(*in.DiscountCode) != "" {
		var err error
		code, discount, err = s.discount.forOrder(ctx, s.discounts, *in.DiscountCode, subtotal)
		if err != nil {
			return models.Order{}, checkoutFailed("discount", err)
		}
	}

	shop, err := s.settings.Shop(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("load shop settings: %w", err)
	}
	quote := Price(subtotal, discount, RulesFrom(shop))

	order := models.Order{
		Status:          models.OrderPending,
		Subtotal:        money(quote.Subtotal),
		DiscountAmount:  money(quote.Discount),
		Tax:             money(quote.Tax),
		Shipping:        money(quote.Shipping),
		Total:           money(quote.Total),
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		PaymentMethod:   in.PaymentMethod,
		Items:           items,
	}
	if userID != 0 {
		order.UserID = &userID
	}
	if quote.Discount.IsPositive() {
		order.DiscountCode = &code.Code
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		products := s.products.WithTx(tx)
		for _, it := range items {
			ok, err := products.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock %d: %w", it.ProductID, err)
			}
			if !ok {
				return checkoutFailed("stock", apperr.BadRequest("Insufficient stock for %s", names[it.ProductID]))
			}
		}

		if quote.Discount.IsPositive() {
			ok, err := s.discounts.WithTx(tx).Redeem(ctx, code.ID)
			if err != nil {
				return fmt.Errorf("redeem discount: %w", err)
			}
			if !ok {
				return checkoutFailed("discount", apperr.BadRequest("Discount code usage limit reached"))
			}
		}

		if userID != 0 {
			if _, err := s.carts.WithTx(tx).ClearUser(ctx, userID); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	log := logger.WithCtx(ctx)
	log.Info("order placed", "order_id", order.ID, "user_id", userID, "total", order.Total)

	if s.confirm(ctx, order) {
		order.Status = models.OrderConfirmed
	}
	if full, err := s.orders.Find(ctx, order.ID); err == nil {
		order = full
	}

	payload := events.OrderPlacedPayload{Order: order}
	if order.DiscountCode != nil {
		payload.DiscountCode = *order.DiscountCode
	}
	event.FireAsync(ctx, events.OrderPlaced, payload)
	return order, nil
}

// confirm settles payment inline. On failure the confirmation is handed to
// the queue and the order stays PENDING for now.
func (s *CheckoutService) confirm(ctx context.Context, order models.Order) bool {
	log := logger.WithCtx(ctx)

	err := payment.Default().Charge(ctx, order)
	if err == nil {
		var n int64
		n, err = s.orders.ConfirmPending(ctx, order.ID)
		if err == nil && n > 0 {
			metrics.OrdersConfirmed.WithLabelValues("inline").Inc()
			return true
		}
	}

	log.Warn("order confirmation deferred", "order_id", order.ID, "error", err)
	if qerr := queue.Dispatch(context.WithoutCancel(ctx), &jobs.ConfirmOrderJob{OrderID: order.ID}); qerr != nil {
		log.Error("dispatch order confirmation", "order_id", order.ID, "error", qerr)
	}
	return false
}
