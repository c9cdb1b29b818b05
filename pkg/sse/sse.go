// Package sse streams Server-Sent Events and fans published events out to
// topic subscribers.
//
//	sub := sse.Default.Subscribe("order:42")
//	defer sub.Close()
//	stream, err := sse.New(w, r)
//	for ev := range sub.C { stream.Send(ev.Name, ev.Data) }
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Stream is an open event stream to one client.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// New writes the event-stream headers and flushes them. The server write
// timeout is lifted for this response. Wrapped writers are reached through
// their Unwrap method.
func New(w http.ResponseWriter, r *http.Request) (*Stream, error) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	s := &Stream{w: w, rc: http.NewResponseController(w)}
	_ = s.rc.SetWriteDeadline(time.Time{})
	w.WriteHeader(http.StatusOK)
	if err := s.rc.Flush(); err != nil {
		return nil, fmt.Errorf("sse: flush unsupported: %w", err)
	}
	return s, nil
}

// Send writes a named event with a JSON payload.
func (s *Stream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Comment writes a comment line, used as a keepalive.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Event is one published message.
type Event struct {
	Name string
	Data any
}

// Subscription receives the events of one topic until closed.
type Subscription struct {
	C <-chan Event

	ch     chan Event
	topic  string
	broker *Broker
	once   sync.Once
}

// Close unsubscribes and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() { s.broker.remove(s) })
}

// Broker routes events to topic subscribers. Slow subscribers lose events
// instead of blocking publishers.
type Broker struct {
	mu     sync.Mutex
	topics map[string]map[*Subscription]struct{}
	buffer int
}

// Default is the process-wide broker.
var Default = NewBroker(16)

func NewBroker(buffer int) *Broker {
	return &Broker{topics: map[string]map[*Subscription]struct{}{}, buffer: buffer}
}

// Subscribe starts receiving events published to topic.
func (b *Broker) Subscribe(topic string) *Subscription {
	ch := make(chan Event, b.buffer)
	s := &Subscription{C: ch, ch: ch, topic: topic, broker: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.topics[topic] == nil {
		b.topics[topic] = map[*Subscription]struct{}{}
	}
	b.topics[topic][s] = struct{}{}
	return s
}

// Publish delivers ev to the current subscribers of topic and returns how
// many received it.
func (b *Broker) Publish(topic string, ev Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for s := range b.topics[topic] {
		select {
		case s.ch <- ev:
			n++
		default:
		}
	}
	return n
}

// Subscribers counts the subscribers of topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

func (b *Broker) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if subs := b.topics[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(b.topics, s.topic)
		}
	}
	close(s.ch)
}
