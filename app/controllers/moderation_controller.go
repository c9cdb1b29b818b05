package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

// ModerationController manages reviews and discount codes for admins.
type ModerationController struct {
	reviews   *services.ReviewService
	discounts *services.DiscountService
}

func NewModerationController() *ModerationController {
	return &ModerationController{
		reviews:   services.NewReviewService(),
		discounts: services.NewDiscountService(),
	}
}

// boolField decodes a body holding a single boolean field. Any other JSON
// type for that field is rejected with message.
func boolField(c *ctx.Context, field, message string) (bool, bool) {
	var body map[string]any
	if !c.BindJSON(&body) {
		return false, false
	}
	v, ok := body[field].(bool)
	if !ok {
		c.Error(http.StatusBadRequest, message)
		return false, false
	}
	return v, true
}

// Reviews handles GET /api/admin/reviews?status=pending|approved|all.
func (h *ModerationController) Reviews(c *ctx.Context) {
	list, p, err := h.reviews.AdminList(c.Context(), c.DefaultQuery("status", "all"),
		c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"reviews": list, "pagination": p})
}

func (h *ModerationController) ApproveReview(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	approved, ok := boolField(c, "isApproved", "isApproved must be a boolean")
	if !ok {
		return
	}
	review, err := h.reviews.SetApproved(c.Context(), id, approved)
	if err != nil {
		c.Fail(err)
		return
	}
	msg := "Review rejected successfully"
	if approved {
		msg = "Review approved successfully"
	}
	c.Respond(http.StatusOK, msg, map[string]any{"review": review})
}

func (h *ModerationController) DeleteReview(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.reviews.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Review deleted successfully")
}

func (h *ModerationController) Discounts(c *ctx.Context) {
	list, err := h.discounts.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"discounts": list})
}

func (h *ModerationController) CreateDiscount(c *ctx.Context) {
	var in services.DiscountInput
	if !c.BindJSON(&in) {
		return
	}
	d, err := h.discounts.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusCreated, "Discount code created successfully", map[string]any{"discount": d})
}

// ToggleDiscount handles PATCH /api/admin/discounts/{id} with {isActive}.
func (h *ModerationController) ToggleDiscount(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	active, ok := boolField(c, "isActive", "isActive must be a boolean")
	if !ok {
		return
	}
	d, err := h.discounts.SetActive(c.Context(), id, active)
	if err != nil {
		c.Fail(err)
		return
	}
	msg := "Discount code deactivated successfully"
	if active {
		msg = "Discount code activated successfully"
	}
	c.Respond(http.StatusOK, msg, map[string]any{"discount": d})
}

func (h *ModerationController) DeleteDiscount(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.discounts.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Discount code deleted successfully")
}
