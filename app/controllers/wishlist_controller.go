package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type WishlistController struct {
	service *services.WishlistService
}

func NewWishlistController() *WishlistController {
	return &WishlistController{service: services.NewWishlistService()}
}

type wishlistBody struct {
	ProductID uint `json:"productId"`
}

// Index handles GET /api/wishlist.
func (h *WishlistController) Index(c *ctx.Context) {
	list, err := h.service.List(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"items": list})
}

// Add handles POST /api/wishlist.
func (h *WishlistController) Add(c *ctx.Context) {
	var in wishlistBody
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.service.Add(c.Context(), c.UserID(), in.ProductID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusCreated, "Item added to wishlist", map[string]any{"item": item})
}

// Remove handles DELETE /api/wishlist with a productId body.
func (h *WishlistController) Remove(c *ctx.Context) {
	var in wishlistBody
	if !c.BindJSON(&in) {
		return
	}
	if err := h.service.RemoveProduct(c.Context(), c.UserID(), in.ProductID); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Item removed from wishlist")
}

// Destroy handles DELETE /api/wishlist/{id}.
func (h *WishlistController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.RemoveEntry(c.Context(), c.UserID(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Item removed from wishlist")
}
