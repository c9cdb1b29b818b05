// Package workerpool runs tasks on a fixed number of goroutines.
//
// Submit never blocks: when every worker is busy and the buffer is full it
// returns ErrPoolFull and the caller decides what to do. SubmitWait blocks
// until a slot frees up, the context ends or the pool shuts down.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) {
//	    task() // run inline
//	}
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/shashiranjanraj/mockshop/pkg/logger"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Pool is a bounded goroutine pool.
type Pool struct {
	name    string
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed    bool
	closeCh   chan struct{}
	closeOnce sync.Once
}

// New starts a pool with size workers and a buffer of twice that many tasks.
func New(size int) *Pool {
	return Named("pool", size)
}

// Named is New with a name used in panic logs.
func Named(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		name:    name,
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait enqueues task, blocking until there is room.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-p.closeCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks, runs what is already queued and waits for
// the workers to exit. It is safe to call more than once.
func (p *Pool) Shutdown() {
	// closeCh first so blocked SubmitWait callers release the read lock
	p.closeOnce.Do(func() { close(p.closeCh) })

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.safeRun(task)
	}
}

func (p *Pool) safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked",
				"pool", p.name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	task()
}
