package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
	"github.com/shashiranjanraj/mockshop/pkg/middleware"
	"github.com/shashiranjanraj/mockshop/pkg/reqid"
	"github.com/shashiranjanraj/mockshop/pkg/response"
	"github.com/shashiranjanraj/mockshop/pkg/router"
)

func buildRouter(a *Application) (*router.Router, error) {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, outermost for accurate total latency
	//  2. Recovery
	//  3. Request ID, before anything logs
	//  4. Logger
	//  5. CORS
	//  6. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", "health", health)
	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		if err := fn(r, a.hub); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
