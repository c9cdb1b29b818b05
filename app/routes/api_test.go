package routes_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/listeners"
	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/payment"
	"github.com/shashiranjanraj/mockshop/app/routes"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/app"
	"github.com/shashiranjanraj/mockshop/pkg/event"
	"github.com/shashiranjanraj/mockshop/pkg/testkit"
)

type shop struct {
	env      testkit.Env
	fx       *testutil.Fixtures
	admin    models.User
	customer models.User
	mug      models.Product
}

// newShop seeds an admin (id 1), a customer (id 2), the headphones
// (product 1), the mug (product 2, low stock) and the SAVE10 code.
func newShop(t *testing.T) *shop {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	s := &shop{fx: fx, admin: fx.Admin(), customer: fx.Customer()}
	fx.Product("Wireless Headphones", 199.99, 50)
	s.mug = fx.Product("Coffee Mug", 12.5, 3)
	fx.Discount("SAVE10", models.DiscountPercentage, 10)

	handler, err := app.New().Routes(routes.RegisterAPI).Handler()
	require.NoError(t, err)
	s.env = testkit.Env{
		Handler: handler,
		Tokens:  map[string]string{"admin": fx.Token(s.admin), "customer": fx.Token(s.customer)},
	}
	return s
}

func TestAPIScenarios(t *testing.T) {
	charge := testkit.NewMocker("payment")
	testkit.Register(charge)
	payment.Use(payment.ProcessorFunc(func(_ context.Context, o models.Order) error {
		return charge.Call(o.ID)
	}))
	t.Cleanup(func() { payment.Use(nil) })

	testkit.RunDir(t, "testdata", func(t *testing.T) testkit.Env { return newShop(t).env })
}

func TestRouteNamesAreUnique(t *testing.T) {
	r, err := app.New().Routes(routes.RegisterAPI).Router()
	require.NoError(t, err)

	seen := map[string]string{}
	for _, rt := range r.Routes() {
		if rt.Name == "" {
			continue
		}
		prev, dup := seen[rt.Name]
		assert.False(t, dup, "route name %q used by %s and %s", rt.Name, prev, rt.Path)
		seen[rt.Name] = rt.Path
	}
	path, ok := r.Path("admin.products.export")
	require.True(t, ok)
	assert.Equal(t, "/api/admin/products/export", path)
}

func TestOrderEventStream(t *testing.T) {
	event.Flush()
	listeners.Register(nil)
	t.Cleanup(event.Flush)

	s := newShop(t)
	order := s.fx.Order(&s.customer, models.OrderPending, map[*models.Product]int{&s.mug: 1})
	srv := httptest.NewServer(s.env.Handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/orders/%d/events", srv.URL, order.ID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.env.Tokens["customer"])

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := bufio.NewReader(resp.Body)
	next := func() map[string]any {
		t.Helper()
		for {
			line, err := events.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var out map[string]any
				require.NoError(t, json.Unmarshal([]byte(data), &out))
				return out
			}
		}
	}

	first := next()
	assert.Equal(t, models.OrderPending, first["status"])

	rec := httptest.NewRecorder()
	patch := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d", order.ID), strings.NewReader(`{"status":"SHIPPED"}`))
	patch.Header.Set("Content-Type", "application/json")
	patch.Header.Set("Authorization", "Bearer "+s.env.Tokens["admin"])
	s.env.Handler.ServeHTTP(rec, patch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	changed := next()
	assert.Equal(t, models.OrderShipped, changed["status"])
	assert.Equal(t, models.OrderPending, changed["from"])
}

func TestOrderEventStreamHidesOtherOrders(t *testing.T) {
	s := newShop(t)
	order := s.fx.Order(&s.admin, models.OrderPending, map[*models.Product]int{&s.mug: 1})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/orders/%d/events", order.ID), nil)
	req.Header.Set("Authorization", "Bearer "+s.env.Tokens["customer"])
	s.env.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEqual(t, "text/event-stream", rec.Header().Get("Content-Type"))
}
