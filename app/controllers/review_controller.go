package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController() *ReviewController {
	return &ReviewController{service: services.NewReviewService()}
}

// Create handles POST /api/reviews.
func (h *ReviewController) Create(c *ctx.Context) {
	var in services.CreateReviewInput
	if !c.BindJSON(&in) {
		return
	}
	review, err := h.service.Create(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusCreated, "Review submitted successfully. It will be visible after approval.",
		map[string]any{"review": review})
}

// ForProduct handles GET /api/reviews/product/{productId}.
func (h *ReviewController) ForProduct(c *ctx.Context) {
	id, ok := c.ParamUint("productId")
	if !ok {
		return
	}
	out, err := h.service.ForProduct(c.Context(), id, c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(out)
}
