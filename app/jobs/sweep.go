package jobs

import (
	"context"
	"time"

	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
	"github.com/shashiranjanraj/mockshop/pkg/schedule"
)

// Schedule registers the recurring tasks on s.
func Schedule(s *schedule.Scheduler) {
	s.Every(1).Minutes().
		Name("orders:sweep-pending").
		WithoutOverlapping().
		Run(func(ctx context.Context) {
			if _, err := SweepPending(ctx, config.PendingOrderTTL()); err != nil {
				logger.WithCtx(ctx).Error("sweep pending orders", "error", err)
			}
		})
}

// SweepPending queues confirmation for every order that has been PENDING
// for longer than ttl and returns how many were queued.
func SweepPending(ctx context.Context, ttl time.Duration) (int, error) {
	ids, err := repositories.NewOrderRepository().StalePending(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		if err := queue.Dispatch(ctx, &ConfirmOrderJob{OrderID: id}); err != nil {
			logger.WithCtx(ctx).Warn("queue stale order", "order_id", id, "error", err)
			continue
		}
		n++
	}
	if n > 0 {
		logger.WithCtx(ctx).Info("stale pending orders queued", "count", n)
	}
	return n, nil
}
