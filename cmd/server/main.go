// Command server runs the shop API with the default settings. It is the
// container entrypoint; use cmd/mockshop for maintenance tasks.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/shashiranjanraj/mockshop/app/providers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := providers.Application().Serve(ctx); err != nil {
		log.Fatal(err)
	}
}
