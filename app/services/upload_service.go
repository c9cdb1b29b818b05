package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/storage"
)

var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// UploadResult is the body of POST /api/upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type UploadService struct {
	disk func() storage.Disk
	now  func() time.Time
}

func NewUploadService() *UploadService {
	return &UploadService{disk: storage.Default, now: time.Now}
}

// Image stores a product image on the default disk under images/uploads.
func (s *UploadService) Image(ctx context.Context, name, contentType string, size int64, r io.Reader) (UploadResult, error) {
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return UploadResult{}, apperr.BadRequest("Invalid file type. Only JPEG, PNG, and WebP images are allowed.")
	}
	max := config.UploadMaxBytes()
	if size > max {
		return UploadResult{}, apperr.BadRequest("File too large. Maximum size is %dMB.", max>>20)
	}

	ext := strings.TrimPrefix(path.Ext(unsafeName.ReplaceAllString(name, "_")), ".")
	if ext == "" {
		ext = strings.TrimPrefix(contentType[strings.Index(contentType, "/"):], "/")
	}
	filename := fmt.Sprintf("product_%d.%s", s.now().UnixMilli(), ext)
	key := path.Join("images", "uploads", filename)

	disk := s.disk()
	if err := disk.Put(ctx, key, io.LimitReader(r, max), contentType); err != nil {
		return UploadResult{}, fmt.Errorf("store upload: %w", err)
	}
	logger.WithCtx(ctx).Info("image uploaded", "path", key, "bytes", size)
	return UploadResult{URL: disk.URL(key), Filename: filename}, nil
}
