package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultName = "local"
)

// Connect registers the local disk, the S3 disk when a bucket is
// configured, and selects STORAGE_DISK as the default.
func Connect(ctx context.Context) {
	Register("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			Register("s3", d)
		}
	}

	name := config.StorageDefault()
	if _, err := Use(name); err != nil {
		logger.Warn("storage: default disk unavailable, using local", "disk", name)
		name = "local"
	}
	SetDefault(name)
}

// Register adds or replaces a disk.
func Register(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
}

// SetDefault changes which disk Default returns.
func SetDefault(name string) {
	mu.Lock()
	defer mu.Unlock()
	defaultName = name
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the default disk, registering the local disk on demand.
func Default() Disk {
	mu.RLock()
	d, ok := disks[defaultName]
	mu.RUnlock()
	if ok {
		return d
	}
	local := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	Register("local", local)
	SetDefault("local")
	return local
}
