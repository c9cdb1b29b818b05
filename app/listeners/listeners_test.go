package listeners_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/events"
	"github.com/shashiranjanraj/mockshop/app/listeners"
	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/pkg/event"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
	"github.com/shashiranjanraj/mockshop/pkg/ws"
)

func feedClient(t *testing.T, hub *ws.Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, hub)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readFeed(t *testing.T, conn *websocket.Conn) listeners.FeedMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg listeners.FeedMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestOrderEventsReachFeedMetricsAndQueue(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	conn := feedClient(t, hub)

	driver := queue.NewMemoryDriver(10)
	queue.SetDriver(driver)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver(1000)) })

	listeners.Register(hub)

	uid := uint(7)
	guestBefore := testutil.ToFloat64(metrics.OrdersPlaced.WithLabelValues("guest"))
	codeBefore := testutil.ToFloat64(metrics.DiscountRedemptions.WithLabelValues("SAVE10"))

	event.Fire(ctx, events.OrderPlaced, events.OrderPlacedPayload{
		Order: models.Order{Model: models.Model{ID: 41}, Status: models.OrderConfirmed, Total: 19.5},
	})
	event.Fire(ctx, events.OrderPlaced, events.OrderPlacedPayload{
		Order:        models.Order{Model: models.Model{ID: 42}, UserID: &uid, Status: models.OrderPending, Total: 80},
		DiscountCode: "SAVE10",
	})
	event.Fire(ctx, events.OrderStatusChanged, events.StatusChangedPayload{OrderID: 42, From: models.OrderPending, To: models.OrderShipped})

	first := readFeed(t, conn)
	assert.Equal(t, events.OrderPlaced, first.Type)
	assert.Equal(t, uint(41), first.OrderID)
	assert.Equal(t, 19.5, first.Total)

	second := readFeed(t, conn)
	assert.Equal(t, uint(42), second.OrderID)

	status := readFeed(t, conn)
	assert.Equal(t, events.OrderStatusChanged, status.Type)
	assert.Equal(t, models.OrderPending, status.From)
	assert.Equal(t, models.OrderShipped, status.Status)

	assert.Equal(t, guestBefore+1, testutil.ToFloat64(metrics.OrdersPlaced.WithLabelValues("guest")))
	assert.Equal(t, codeBefore+1, testutil.ToFloat64(metrics.DiscountRedemptions.WithLabelValues("SAVE10")))
	assert.Equal(t, 1, driver.Len(), "only registered customers get an order mail")
}
