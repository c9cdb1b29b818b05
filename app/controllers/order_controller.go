package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/mockshop/app/events"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/sse"
)

const streamKeepalive = 25 * time.Second

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{
		checkout: services.NewCheckoutService(),
		orders:   services.NewOrderService(),
	}
}

// Place handles POST /api/orders for customers and guests.
func (h *OrderController) Place(c *ctx.Context) {
	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := h.checkout.Place(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusCreated, "Order created successfully", map[string]any{
		"orderId": order.ID,
		"order":   order,
	})
}

// Index handles GET /api/orders.
func (h *OrderController) Index(c *ctx.Context) {
	list, err := h.orders.ForUser(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"orders": list})
}

// Show handles GET /api/orders/{id}.
func (h *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	order, err := h.orders.GetForUser(c.Context(), c.UserID(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"order": order})
}

// Events handles GET /api/orders/{id}/events. It streams the current status
// and then every change until the client disconnects.
func (h *OrderController) Events(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	// subscribe first so a change between the read and the stream is kept
	sub := sse.Default.Subscribe(events.OrderTopic(id))
	defer sub.Close()

	order, err := h.orders.GetForUser(c.Context(), c.UserID(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	stream, err := sse.New(c.W, c.R)
	if err != nil {
		logger.WithCtx(c.Context()).Warn("order stream unavailable", "error", err)
		return
	}
	if err := stream.Send("status", map[string]any{"orderId": order.ID, "status": order.Status}); err != nil {
		return
	}

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()
	for {
		select {
		case <-c.R.Context().Done():
			return
		case ev, open := <-sub.C:
			if !open || stream.Send(ev.Name, ev.Data) != nil {
				return
			}
		case <-keepalive.C:
			if stream.Comment("keepalive") != nil {
				return
			}
		}
	}
}
