package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

// AdminController serves the dashboard, reporting, order and shop settings
// endpoints under /api/admin.
type AdminController struct {
	admin     *services.AdminService
	analytics *services.AnalyticsService
	orders    *services.OrderService
	settings  *services.SettingsService
}

func NewAdminController() *AdminController {
	return &AdminController{
		admin:     services.NewAdminService(),
		analytics: services.NewAnalyticsService(),
		orders:    services.NewOrderService(),
		settings:  services.NewSettingsService(),
	}
}

func (h *AdminController) Dashboard(c *ctx.Context) {
	stats, err := h.admin.Dashboard(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"stats": stats})
}

// Analytics handles GET /api/admin/analytics?period=N.
func (h *AdminController) Analytics(c *ctx.Context) {
	report, err := h.analytics.Report(c.Context(), c.QueryInt("period", 30))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(report)
}

func (h *AdminController) Customers(c *ctx.Context) {
	rows, err := h.admin.Customers(c.Context(), repositories.CustomerFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"customers": rows})
}

// Orders handles GET /api/admin/orders?status=&page=&limit=.
func (h *AdminController) Orders(c *ctx.Context) {
	list, p, err := h.orders.List(c.Context(), c.DefaultQuery("status", "all"),
		c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"orders": list, "pagination": p})
}

func (h *AdminController) Order(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"order": order})
}

type statusBody struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus handles PATCH /api/admin/orders/{id}.
func (h *AdminController) UpdateOrderStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in statusBody
	if !c.BindJSON(&in) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Order status updated successfully", map[string]any{"order": order})
}

func (h *AdminController) Settings(c *ctx.Context) {
	st, err := h.settings.Shop(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"settings": st})
}

// UpdateSettings handles PUT /api/admin/settings.
func (h *AdminController) UpdateSettings(c *ctx.Context) {
	var in services.ShopSettingsInput
	if !c.BindJSON(&in) {
		return
	}
	st, err := h.settings.SaveShop(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Settings updated successfully", map[string]any{"settings": st})
}
