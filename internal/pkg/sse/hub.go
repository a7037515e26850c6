package sse

import (
	"fmt"
	"io"
	"sync"

	json "github.com/goccy/go-json"
)

// Event is one server-sent event addressed to a subscriber key.
type Event struct {
	Key   string
	Event string
	Data  interface{}
}

// Hub fans events out to the subscribers of a key (one key per submitter).
type Hub struct {
	mu          sync.RWMutex
	buffer      int
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a Hub whose subscriber channels hold up to buffer pending events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 10
	}
	return &Hub{
		buffer:      buffer,
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a channel for key and returns it with its cleanup function.
func (h *Hub) Subscribe(key string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)

	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[chan Event]struct{})
	}
	h.subscribers[key][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[key], ch)
			close(ch)
			if len(h.subscribers[key]) == 0 {
				delete(h.subscribers, key)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every subscriber of key. Full channels are skipped.
func (h *Hub) Publish(key string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Key = key
	for ch := range h.subscribers[key] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[key])
}

// Write frames event in the text/event-stream format.
func Write(w io.Writer, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
	return err
}
