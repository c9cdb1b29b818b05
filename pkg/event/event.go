// Package event is an in-process publish/subscribe dispatcher.
//
// Listeners run synchronously with Fire, or on a bounded worker pool with
// FireAsync. When the pool is saturated the listener runs inline, so events
// are never dropped.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/workerpool"
)

// Listener receives an event payload.
type Listener func(ctx context.Context, payload any)

var (
	mu        sync.RWMutex
	listeners = map[string][]Listener{}

	poolMu sync.Mutex
	pool   *workerpool.Pool
)

// Listen registers l for name.
func Listen(name string, l Listener) {
	mu.Lock()
	defer mu.Unlock()
	listeners[name] = append(listeners[name], l)
}

func snapshot(name string) []Listener {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Listener, len(listeners[name]))
	copy(out, listeners[name])
	return out
}

// Fire runs every listener of name in registration order and returns when
// they are done.
func Fire(ctx context.Context, name string, payload any) {
	for _, l := range snapshot(name) {
		l(ctx, payload)
	}
}

// FireAsync hands each listener to the worker pool and returns at once. The
// listeners get a context detached from ctx's cancellation so they outlive
// the request that fired them.
func FireAsync(ctx context.Context, name string, payload any) {
	ls := snapshot(name)
	if len(ls) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)
	p := workers()
	for _, l := range ls {
		l := l
		err := p.Submit(func() { l(detached, payload) })
		if err == nil {
			continue
		}
		if errors.Is(err, workerpool.ErrPoolFull) {
			logger.WithCtx(ctx).Warn("event: pool full, running listener inline", "event", name)
		}
		l(detached, payload)
	}
}

func workers() *workerpool.Pool {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool == nil {
		pool = workerpool.Named("event", 8)
	}
	return pool
}

// Shutdown waits for queued async listeners to finish. A later FireAsync
// starts a fresh pool.
func Shutdown() {
	poolMu.Lock()
	p := pool
	pool = nil
	poolMu.Unlock()
	if p != nil {
		p.Shutdown()
	}
}

// Flush removes every listener.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	listeners = map[string][]Listener{}
}
