// Package providers wires the shop's routes, jobs, listeners and scheduled
// tasks into an application.
package providers

import (
	"github.com/shashiranjanraj/mockshop/app/jobs"
	"github.com/shashiranjanraj/mockshop/app/listeners"
	"github.com/shashiranjanraj/mockshop/app/routes"
	"github.com/shashiranjanraj/mockshop/pkg/app"
	"github.com/shashiranjanraj/mockshop/pkg/schedule"
	"github.com/shashiranjanraj/mockshop/pkg/ws"

	_ "github.com/shashiranjanraj/mockshop/database/migrations"
)

func Application() *app.Application {
	return app.New().
		Routes(routes.RegisterAPI).
		OnBoot(func(hub *ws.Hub) {
			jobs.Register()
			listeners.Register(hub)
			jobs.Schedule(schedule.Default)
		})
}
