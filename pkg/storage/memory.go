package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
)

// MemoryDisk keeps files in a map.
type MemoryDisk struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string
}

func NewMemoryDisk(baseURL string) *MemoryDisk {
	return &MemoryDisk{files: map[string][]byte{}, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *MemoryDisk) Put(_ context.Context, path string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path] = data
	return nil
}

func (d *MemoryDisk) Get(_ context.Context, path string) (io.ReadCloser, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	data, ok := d.files[path]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (d *MemoryDisk) Exists(_ context.Context, path string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.files[path]
	return ok, nil
}

func (d *MemoryDisk) Delete(_ context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, path)
	return nil
}

func (d *MemoryDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Paths lists stored paths.
func (d *MemoryDisk) Paths() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.files))
	for p := range d.files {
		out = append(out, p)
	}
	return out
}
