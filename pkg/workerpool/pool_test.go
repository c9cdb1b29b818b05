package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(n), count.Load())
}

func TestPool_ErrPoolFull(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	// buffer is 2x the worker count
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))

	err := pool.Submit(func() {})
	assert.True(t, errors.Is(err, workerpool.ErrPoolFull), "got %v", err)

	close(blocker)
}

func TestPool_SubmitWaitHonoursContext(t *testing.T) {
	pool := workerpool.New(1)
	blocker := make(chan struct{})
	defer func() {
		close(blocker)
		pool.Shutdown()
	}()

	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(started); <-blocker }))
	<-started
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.SubmitWait(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(context.Background(), func() {}), workerpool.ErrPoolClosed)
}

func TestPool_PanicRecovery(t *testing.T) {
	pool := workerpool.Named("test", 1)
	defer pool.Shutdown()

	require.NoError(t, pool.Submit(func() { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(context.Background(), func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	pool := workerpool.New(2)
	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.SubmitWait(context.Background(), func() {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}))
	}
	pool.Shutdown()
	assert.Equal(t, int32(4), ran.Load())
}
