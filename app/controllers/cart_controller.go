package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type CartController struct {
	service *services.CartService
}

func NewCartController() *CartController {
	return &CartController{service: services.NewCartService()}
}

// Show handles GET /api/cart.
func (h *CartController) Show(c *ctx.Context) {
	cart, err := h.service.Get(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cart)
}

// Add handles POST /api/cart.
func (h *CartController) Add(c *ctx.Context) {
	var in services.AddToCartInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.service.Add(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusCreated, "Item added to cart", map[string]any{"item": item})
}

// Update handles PUT /api/cart.
func (h *CartController) Update(c *ctx.Context) {
	var in services.UpdateCartInput
	if !c.BindJSON(&in) {
		return
	}
	if err := h.service.Update(c.Context(), c.UserID(), in); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cart updated")
}

// Remove handles DELETE /api/cart.
func (h *CartController) Remove(c *ctx.Context) {
	var in struct {
		ItemID uint `json:"itemId"`
	}
	if !c.BindJSON(&in) {
		return
	}
	if err := h.service.Remove(c.Context(), c.UserID(), in.ItemID); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Item removed from cart")
}

// Clear handles DELETE /api/cart/clear.
func (h *CartController) Clear(c *ctx.Context) {
	had, err := h.service.Clear(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	if !had {
		c.Message("Cart already empty")
		return
	}
	c.Message("Cart cleared")
}
