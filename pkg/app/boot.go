package app

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/cache"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
	"github.com/shashiranjanraj/mockshop/pkg/storage"
)

// ConnectDB loads config and opens the database. Commands that only touch
// the schema use this instead of Bootstrap.
func ConnectDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.Connect()
}

// Bootstrap connects every backing service the shop uses. Redis and the
// Mongo log sink are optional: failures there are logged and the process
// carries on with the in-memory fallbacks.
func (a *Application) Bootstrap(ctx context.Context) error {
	if err := ConnectDB(); err != nil {
		return err
	}

	if err := logger.EnableMongo(config.MongoLogURI()); err != nil {
		logger.Warn("logger: mongo sink disabled", "error", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("cache: using in-memory store", "error", err)
	}

	storage.Connect(ctx)

	queue.UseDB(database.DB)
	if config.QueueDriver() == "redis" {
		if cache.RDB == nil {
			logger.Warn("queue: redis unavailable, using memory driver")
		} else {
			queue.SetDriver(queue.NewRedisDriver(ctx, cache.RDB))
		}
	}
	logger.Info("app: bootstrapped",
		"env", config.AppEnv(),
		"db", config.DatabaseDriver(),
		"cache", cache.Driver(),
		"queue", config.QueueDriver(),
	)

	a.boot()
	return nil
}
