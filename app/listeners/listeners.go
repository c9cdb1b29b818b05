// Package listeners reacts to domain events: metrics, the admin order feed,
// customer order streams and email.
package listeners

import (
	"context"
	"time"

	"github.com/shashiranjanraj/mockshop/app/events"
	"github.com/shashiranjanraj/mockshop/app/jobs"
	"github.com/shashiranjanraj/mockshop/pkg/event"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
	"github.com/shashiranjanraj/mockshop/pkg/sse"
	"github.com/shashiranjanraj/mockshop/pkg/ws"
)

// FeedMessage is what admin feed clients receive.
type FeedMessage struct {
	Type    string    `json:"type"`
	OrderID uint      `json:"orderId"`
	Status  string    `json:"status"`
	From    string    `json:"from,omitempty"`
	Total   float64   `json:"total,omitempty"`
	At      time.Time `json:"at"`
}

// Register wires every listener. hub may be nil when no feed is served.
func Register(hub *ws.Hub) {
	event.Listen(events.OrderPlaced, recordOrder)
	event.Listen(events.OrderPlaced, queueOrderMail)
	event.Listen(events.OrderStatusChanged, streamStatus)
	if hub != nil {
		event.Listen(events.OrderPlaced, publishPlaced(hub))
		event.Listen(events.OrderStatusChanged, publishStatus(hub))
	}
}

func recordOrder(_ context.Context, payload any) {
	p, ok := payload.(events.OrderPlacedPayload)
	if !ok {
		return
	}
	kind := "guest"
	if p.Order.UserID != nil {
		kind = "registered"
	}
	metrics.OrdersPlaced.WithLabelValues(kind).Inc()
	metrics.OrderRevenue.Add(p.Order.Total)
	if p.DiscountCode != "" {
		metrics.DiscountRedemptions.WithLabelValues(p.DiscountCode).Inc()
	}
}

func queueOrderMail(ctx context.Context, payload any) {
	p, ok := payload.(events.OrderPlacedPayload)
	if !ok || p.Order.UserID == nil {
		return
	}
	if err := queue.Dispatch(ctx, &jobs.SendOrderMailJob{OrderID: p.Order.ID}); err != nil {
		logger.WithCtx(ctx).Error("dispatch order mail", "order_id", p.Order.ID, "error", err)
	}
}

func publishPlaced(hub *ws.Hub) event.Listener {
	return func(ctx context.Context, payload any) {
		p, ok := payload.(events.OrderPlacedPayload)
		if !ok {
			return
		}
		publish(ctx, hub, FeedMessage{
			Type:    events.OrderPlaced,
			OrderID: p.Order.ID,
			Status:  p.Order.Status,
			Total:   p.Order.Total,
			At:      time.Now().UTC(),
		})
	}
}

func publishStatus(hub *ws.Hub) event.Listener {
	return func(ctx context.Context, payload any) {
		p, ok := payload.(events.StatusChangedPayload)
		if !ok {
			return
		}
		publish(ctx, hub, FeedMessage{
			Type:    events.OrderStatusChanged,
			OrderID: p.OrderID,
			Status:  p.To,
			From:    p.From,
			At:      time.Now().UTC(),
		})
	}
}

// streamStatus forwards a change to customers following the order.
func streamStatus(_ context.Context, payload any) {
	p, ok := payload.(events.StatusChangedPayload)
	if !ok {
		return
	}
	sse.Default.Publish(events.OrderTopic(p.OrderID), sse.Event{
		Name: "status",
		Data: FeedMessage{Type: events.OrderStatusChanged, OrderID: p.OrderID, Status: p.To, From: p.From, At: time.Now().UTC()},
	})
}

func publish(ctx context.Context, hub *ws.Hub, msg FeedMessage) {
	if err := hub.Publish(msg); err != nil {
		logger.WithCtx(ctx).Warn("feed publish failed", "type", msg.Type, "error", err)
	}
}
