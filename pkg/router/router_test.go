package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/pkg/router"
)

func tag(value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupMiddlewareOrder(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Delete("/products/{id}", "admin.products.destroy", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/products/3", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route"}, rec.Header().Values("X-Chain"))
}

func TestURLBuildsNamedRoutes(t *testing.T) {
	r := router.New()
	r.Group("/api").Get("/reviews/product/{productId}", "reviews.product", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("reviews.product", map[string]string{"productId": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/reviews/product/7", url)

	_, err = r.URL("reviews.product", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Post("/cart", "cart.add", noop)
	r.Get("/cart", "cart.index", noop)
	r.Patch("/admin/orders/{id}", "", noop)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodPatch, Path: "/admin/orders/{id}"}, routes[0])
	assert.Equal(t, "GET", routes[1].Method)
	assert.Equal(t, "POST", routes[2].Method)
}
