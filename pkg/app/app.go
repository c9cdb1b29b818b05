// Package app assembles and runs the shop process. An Application collects
// route and boot callbacks; the commands in cmd/ decide which parts to run.
//
//	a := app.New().
//	    Routes(routes.RegisterAPI).
//	    OnBoot(func(hub *ws.Hub) { listeners.Register(hub) })
//	err := a.Serve(ctx)
package app

import (
	"net/http"

	"github.com/shashiranjanraj/mockshop/pkg/router"
	"github.com/shashiranjanraj/mockshop/pkg/ws"
)

// RoutesFunc mounts routes on r. hub is the process-wide websocket hub.
type RoutesFunc func(r *router.Router, hub *ws.Hub) error

// BootFunc runs once per process after infrastructure is connected and
// before any server or worker starts.
type BootFunc func(hub *ws.Hub)

type Application struct {
	hub       *ws.Hub
	routesFns []RoutesFunc
	bootFns   []BootFunc
}

func New() *Application {
	return &Application{hub: ws.NewHub()}
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn RoutesFunc) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// OnBoot adds a boot callback, typically registering jobs and listeners.
func (a *Application) OnBoot(fn BootFunc) *Application {
	a.bootFns = append(a.bootFns, fn)
	return a
}

func (a *Application) Hub() *ws.Hub { return a.hub }

// Router builds the full router: global middleware, health and metrics
// endpoints, then every registered route.
func (a *Application) Router() (*router.Router, error) {
	return buildRouter(a)
}

func (a *Application) Handler() (http.Handler, error) {
	r, err := a.Router()
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}

func (a *Application) boot() {
	for _, fn := range a.bootFns {
		fn(a.hub)
	}
}
