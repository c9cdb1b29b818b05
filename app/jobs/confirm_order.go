package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/mockshop/app/events"
	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/payment"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/event"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

const ConfirmOrderName = "orders.confirm"

// ConfirmOrderJob settles a PENDING order and marks it CONFIRMED. Orders
// that already left PENDING are skipped.
type ConfirmOrderJob struct {
	OrderID uint `json:"orderId"`
}

func (ConfirmOrderJob) JobName() string { return ConfirmOrderName }

func (j *ConfirmOrderJob) Handle(ctx context.Context) error {
	orders := repositories.NewOrderRepository()

	order, err := orders.Find(ctx, j.OrderID)
	if errors.Is(err, orm.ErrNotFound) {
		logger.WithCtx(ctx).Warn("confirm order: order gone", "order_id", j.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %d: %w", j.OrderID, err)
	}
	if order.Status != models.OrderPending {
		return nil
	}

	if err := payment.Default().Charge(ctx, order); err != nil {
		return fmt.Errorf("charge order %d: %w", j.OrderID, err)
	}
	n, err := orders.ConfirmPending(ctx, j.OrderID)
	if err != nil {
		return fmt.Errorf("confirm order %d: %w", j.OrderID, err)
	}
	if n > 0 {
		metrics.OrdersConfirmed.WithLabelValues("queue").Inc()
		logger.WithCtx(ctx).Info("order confirmed", "order_id", j.OrderID, "via", "queue")
		event.FireAsync(ctx, events.OrderStatusChanged, events.StatusChangedPayload{
			OrderID: j.OrderID, From: models.OrderPending, To: models.OrderConfirmed,
		})
	}
	return nil
}
