package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/mockshop/app/events"
	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/event"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService() *OrderService {
	return &OrderService{orders: repositories.NewOrderRepository()}
}

// ForUser lists the caller's orders, newest first.
func (s *OrderService) ForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	list, err := s.orders.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// GetForUser returns one of the caller's orders. Other users' orders are
// reported as missing.
func (s *OrderService) GetForUser(ctx context.Context, userID, id uint) (models.Order, error) {
	o, err := s.orders.FindForUser(ctx, userID, id)
	if errors.Is(err, orm.ErrNotFound) {
		return o, apperr.NotFound("Order not found")
	}
	if err != nil {
		return o, fmt.Errorf("load order: %w", err)
	}
	return o, nil
}

// List pages through every order for the admin, filtered by status.
func (s *OrderService) List(ctx context.Context, status string, page, limit int) ([]models.Order, response.Pagination, error) {
	list, p, err := s.orders.List(ctx, status, page, limit)
	if err != nil {
		return nil, p, fmt.Errorf("list orders: %w", err)
	}
	return list, p, nil
}

// Get returns any order for the admin.
func (s *OrderService) Get(ctx context.Context, id uint) (models.Order, error) {
	o, err := s.orders.Find(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return o, apperr.NotFound("Order not found")
	}
	if err != nil {
		return o, fmt.Errorf("load order: %w", err)
	}
	return o, nil
}

// UpdateStatus moves an order to status and announces the change.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return models.Order{}, apperr.BadRequest("Invalid status")
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return o, err
	}
	if _, err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return o, fmt.Errorf("update order status: %w", err)
	}

	from := o.Status
	o.Status = status
	logger.WithCtx(ctx).Info("order status changed", "order_id", id, "from", from, "to", status)
	event.FireAsync(ctx, events.OrderStatusChanged, events.StatusChangedPayload{OrderID: id, From: from, To: status})
	return o, nil
}
