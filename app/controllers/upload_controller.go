package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type UploadController struct {
	service *services.UploadService
}

func NewUploadController() *UploadController {
	return &UploadController{service: services.NewUploadService()}
}

// formFile pulls the multipart field "file" out of the request, writing a
// 400 when it is absent.
func formFile(c *ctx.Context, maxBytes int64) (multipart.File, *multipart.FileHeader, bool) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxBytes+(1<<20))
	if err := c.R.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(http.StatusBadRequest, "File too large")
			return nil, nil, false
		}
		c.Error(http.StatusBadRequest, "No file uploaded")
		return nil, nil, false
	}
	file, header, err := c.R.FormFile("file")
	if err != nil {
		c.Error(http.StatusBadRequest, "No file uploaded")
		return nil, nil, false
	}
	return file, header, true
}

// Image handles POST /api/upload.
func (h *UploadController) Image(c *ctx.Context) {
	file, header, ok := formFile(c, config.UploadMaxBytes())
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.service.Image(c.Context(), header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "File uploaded successfully", res)
}
