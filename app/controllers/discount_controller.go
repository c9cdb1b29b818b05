package controllers

import (
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type DiscountController struct {
	service *services.DiscountService
}

func NewDiscountController() *DiscountController {
	return &DiscountController{service: services.NewDiscountService()}
}

// Validate handles POST /api/discounts/validate.
func (h *DiscountController) Validate(c *ctx.Context) {
	var in services.ValidateInput
	if !c.BindJSON(&in) {
		return
	}
	applied, err := h.service.Validate(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"valid": true, "discount": applied})
}
