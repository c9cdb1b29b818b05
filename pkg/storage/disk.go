// Package storage saves uploaded files to a named disk.
//
// Disks:
//   - "local":  the filesystem under STORAGE_LOCAL_ROOT, served at STORAGE_URL
//   - "s3":     an S3-compatible bucket (AWS S3, MinIO, R2), when S3_BUCKET is set
//   - "memory": an in-process map, for tests
//
// STORAGE_DISK picks the default disk.
//
//	storage.Connect(ctx)
//	err := storage.Default().Put(ctx, "products/a.png", r, "image/png")
//	url := storage.Default().URL("products/a.png")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a path does not exist on a disk.
var ErrNotFound = errors.New("storage: file not found")

// Disk is a place files can be written to and served from.
type Disk interface {
	// Put writes r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	// Get opens the file at path. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes path. A missing file is not an error.
	Delete(ctx context.Context, path string) error
	// URL is the public address of path.
	URL(path string) string
}
