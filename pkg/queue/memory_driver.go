package queue

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by the memory driver when its buffer is full.
var ErrQueueFull = errors.New("queue: memory buffer full")

// MemoryDriver is an in-process channel. Jobs are lost on restart.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver returns a driver buffering up to size jobs.
func NewMemoryDriver(size int) *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, size)}
}

func (d *MemoryDriver) Push(ctx context.Context, payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// Len reports how many jobs are waiting.
func (d *MemoryDriver) Len() int { return len(d.ch) }
