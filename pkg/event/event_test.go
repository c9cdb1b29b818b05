package event_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/mockshop/pkg/event"
)

func TestFireRunsListenersInOrder(t *testing.T) {
	event.Flush()
	defer event.Flush()

	var got []string
	event.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "a:"+p.(string)) })
	event.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "b:"+p.(string)) })
	event.Listen("other", func(context.Context, any) { got = append(got, "other") })

	event.Fire(context.Background(), "order.placed", "42")

	assert.Equal(t, []string{"a:42", "b:42"}, got)
}

func TestFireAsyncOutlivesCancelledContext(t *testing.T) {
	event.Flush()
	defer event.Flush()

	var calls atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		event.Listen("order.placed", func(ctx context.Context, _ any) {
			defer wg.Done()
			if ctx.Err() == nil {
				calls.Add(1)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	event.FireAsync(ctx, "order.placed", nil)
	wg.Wait()
	event.Shutdown()

	assert.Equal(t, int32(3), calls.Load())
}
