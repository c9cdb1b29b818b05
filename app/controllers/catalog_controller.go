package controllers

import (
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController() *CatalogController {
	return &CatalogController{service: services.NewCatalogService()}
}

// Categories handles GET /api/categories.
func (h *CatalogController) Categories(c *ctx.Context) {
	list, err := h.service.Categories(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"categories": list})
}

// Products handles GET /api/products.
func (h *CatalogController) Products(c *ctx.Context) {
	list, err := h.service.Products(c.Context(), repositories.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		MinPrice:     c.QueryFloat("minPrice"),
		MaxPrice:     c.QueryFloat("maxPrice"),
		SortBy:       c.Query("sortBy"),
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"products": list})
}

// Product handles GET /api/products/{id}.
func (h *CatalogController) Product(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := h.service.Product(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"product": p})
}
