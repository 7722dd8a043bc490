// Package broadcast propagates "something changed, re-check" signals between
// the parts of a running client and, through a bridge, between clients that
// share the same durable storage.
package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topic names the piece of local state that changed
type Topic string

const (
	TopicAuth Topic = "auth"
	TopicCart Topic = "cart"
)

// EventName is the name UI code listens for. The auth signal keeps the name
// the web client always used.
func (t Topic) EventName() string {
	switch t {
	case TopicAuth:
		return "authStateChange"
	case TopicCart:
		return "cartChange"
	default:
		return string(t) + "Change"
	}
}

// Event carries no state. Observers re-read the authoritative value.
type Event struct {
	Topic  Topic     `json:"topic"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

type subscriber struct {
	fn     func(Event)
	topics map[Topic]bool
}

func (s subscriber) wants(t Topic) bool {
	return len(s.topics) == 0 || s.topics[t]
}

// Hub is an in-process subject. Callbacks run synchronously on the
// publisher's goroutine and must not block.
type Hub struct {
	origin string

	mu         sync.RWMutex
	subs       map[string]subscriber
	forwarders map[string]func(Event)
}

func NewHub() *Hub {
	return &Hub{
		origin:     uuid.NewString(),
		subs:       make(map[string]subscriber),
		forwarders: make(map[string]func(Event)),
	}
}

// Origin identifies events published by this hub.
func (h *Hub) Origin() string { return h.origin }

// Subscribe registers fn for the given topics, or for all topics when none
// are given. The returned function unsubscribes and is safe to call twice.
func (h *Hub) Subscribe(fn func(Event), topics ...Topic) func() {
	s := subscriber{fn: fn}
	if len(topics) > 0 {
		s.topics = make(map[Topic]bool, len(topics))
		for _, t := range topics {
			s.topics[t] = true
		}
	}
	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = s
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// SubscribeChan delivers events on a buffered channel. When the buffer is
// full the event is dropped; a pending signal already tells the reader to
// re-check.
func (h *Hub) SubscribeChan(buffer int, topics ...Topic) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	unsubscribe := h.Subscribe(func(ev Event) {
		select {
		case ch <- ev:
		default:
		}
	}, topics...)
	return ch, unsubscribe
}

// Publish notifies local subscribers and every forwarder.
func (h *Hub) Publish(topic Topic) {
	ev := Event{Topic: topic, Origin: h.origin, At: time.Now()}
	h.deliver(ev)

	h.mu.RLock()
	forwarders := make([]func(Event), 0, len(h.forwarders))
	for _, fn := range h.forwarders {
		forwarders = append(forwarders, fn)
	}
	h.mu.RUnlock()
	for _, fn := range forwarders {
		fn(ev)
	}
}

// Inject delivers an event that originated elsewhere to local subscribers
// only, so it is never forwarded back out.
func (h *Hub) Inject(ev Event) {
	if ev.Origin == h.origin {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.deliver(ev)
}

// Forward registers fn to receive every locally published event.
func (h *Hub) Forward(fn func(Event)) func() {
	id := uuid.NewString()
	h.mu.Lock()
	h.forwarders[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.forwarders, id)
		h.mu.Unlock()
	}
}

func (h *Hub) deliver(ev Event) {
	h.mu.RLock()
	targets := make([]func(Event), 0, len(h.subs))
	for _, s := range h.subs {
		if s.wants(ev.Topic) {
			targets = append(targets, s.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range targets {
		fn(ev)
	}
}
