package sse_test

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/pkg/sse"
)

func TestBrokerDeliversPerTopic(t *testing.T) {
	b := sse.NewBroker(1)
	a := b.Subscribe("order:1")
	other := b.Subscribe("order:2")
	defer other.Close()

	assert.Equal(t, 1, b.Publish("order:1", sse.Event{Name: "status", Data: "SHIPPED"}))
	assert.Equal(t, 0, b.Publish("order:1", sse.Event{Name: "status", Data: "DELIVERED"}), "full buffer drops")

	ev := <-a.C
	assert.Equal(t, "SHIPPED", ev.Data)
	assert.Empty(t, other.C)

	a.Close()
	a.Close()
	_, open := <-a.C
	assert.False(t, open)
	assert.Zero(t, b.Subscribers("order:1"))
}

func TestStreamWritesEvents(t *testing.T) {
	b := sse.NewBroker(4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := b.Subscribe("feed")
		defer sub.Close()
		stream, err := sse.New(w, r)
		if err != nil {
			return
		}
		_ = stream.Comment("ready")
		for {
			select {
			case <-r.Context().Done():
				return
			case ev := <-sub.C:
				_ = stream.Send(ev.Name, ev.Data)
			}
		}
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewReader(resp.Body)
	first, err := lines.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": ready\n", first)

	require.Eventually(t, func() bool { return b.Subscribers("feed") == 1 }, time.Second, 5*time.Millisecond)
	b.Publish("feed", sse.Event{Name: "status", Data: map[string]string{"status": "SHIPPED"}})

	var got []string
	for len(got) < 3 {
		line, err := lines.ReadString('\n')
		require.NoError(t, err)
		got = append(got, strings.TrimSuffix(line, "\n"))
	}
	assert.Equal(t, []string{"", "event: status", `data: {"status":"SHIPPED"}`}, got)
}
