package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

// ProductController is the admin product catalog.
type ProductController struct {
	service *services.ProductAdminService
}

func NewProductController() *ProductController {
	return &ProductController{service: services.NewProductAdminService()}
}

func (h *ProductController) Index(c *ctx.Context) {
	list, err := h.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"products": list})
}

func (h *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := h.service.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"product": p})
}

func (h *ProductController) Create(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.service.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusCreated, "Product created successfully", map[string]any{"product": p})
}

// Replace handles PUT /api/admin/products/{id}.
func (h *ProductController) Replace(c *ctx.Context) {
	h.update(c, h.service.Replace)
}

// Patch handles PATCH /api/admin/products/{id}; absent fields are kept.
func (h *ProductController) Patch(c *ctx.Context) {
	h.update(c, h.service.Patch)
}

func (h *ProductController) update(c *ctx.Context, fn func(context.Context, uint, services.ProductInput) (models.Product, error)) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := fn(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Product updated successfully", map[string]any{"product": p})
}

func (h *ProductController) Delete(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product deleted successfully")
}

// Export streams the catalog as an xlsx workbook.
func (h *ProductController) Export(c *ctx.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Context(), &buf); err != nil {
		c.Fail(err)
		return
	}
	c.SetHeader("Content-Disposition",
		fmt.Sprintf(`attachment; filename="products-%s.xlsx"`, time.Now().Format("2006-01-02")))
	c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// Import reads a workbook from the multipart field "file".
func (h *ProductController) Import(c *ctx.Context) {
	file, _, ok := formFile(c, config.UploadMaxBytes()*4)
	if !ok {
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Fail(err)
		return
	}
	res, err := h.service.Import(c.Context(), data)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Products imported", res)
}
