package app

import (
	"context"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/internal/server"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/event"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
	"github.com/shashiranjanraj/mockshop/pkg/schedule"
)

// Serve bootstraps the process and runs the HTTP API, the gRPC health
// server, the websocket hub, the queue workers and the scheduler until ctx
// ends. Background work is drained before it returns.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.Bootstrap(ctx); err != nil {
		return err
	}
	defer logger.Close()

	handler, err := a.Handler()
	if err != nil {
		return err
	}

	go a.hub.Run(ctx)
	queue.StartWorkers(ctx, config.QueueWorkers())
	schedule.Start(ctx)

	err = server.Run(ctx, server.Config{
		Addr:     ":" + config.AppPort(),
		GRPCPort: config.GRPCPort(),
		Handler:  handler,
		Check:    database.Ping,
	})

	queue.Wait()
	schedule.Default.Wait()
	event.Shutdown()
	return err
}

// Work runs only the queue workers, for a dedicated worker process.
func (a *Application) Work(ctx context.Context, workers int) error {
	if err := a.Bootstrap(ctx); err != nil {
		return err
	}
	defer logger.Close()
	if workers < 1 {
		workers = config.QueueWorkers()
	}
	logger.Info("queue: worker started", "workers", workers, "driver", config.QueueDriver())
	queue.StartWorkers(ctx, workers)
	<-ctx.Done()
	queue.Wait()
	event.Shutdown()
	return nil
}
