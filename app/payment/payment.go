// Package payment settles orders. Only a simulated processor exists; real
// gateways plug in through Processor.
package payment

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/config"
)

// Processor charges an order.
type Processor interface {
	Charge(ctx context.Context, order models.Order) error
}

// Simulated accepts every order after Delay.
type Simulated struct {
	Delay time.Duration
}

func (p Simulated) Charge(ctx context.Context, _ models.Order) error {
	if p.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, order models.Order) error

func (f ProcessorFunc) Charge(ctx context.Context, order models.Order) error { return f(ctx, order) }

var (
	mu      sync.RWMutex
	current Processor
)

// Use replaces the processor, mainly for tests.
func Use(p Processor) {
	mu.Lock()
	defer mu.Unlock()
	current = p
}

// Default returns the installed processor, or a Simulated one using
// PAYMENT_DELAY.
func Default() Processor {
	mu.RLock()
	p := current
	mu.RUnlock()
	if p != nil {
		return p
	}
	return Simulated{Delay: config.PaymentDelay()}
}
