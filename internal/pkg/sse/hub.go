// Package sse fans server-sent events out to the open streams of each subscriber.
package sse

import (
	"sync"
)

// subscriberBuffer is how many events a slow stream may fall behind before new ones are dropped.
const subscriberBuffer = 16

type Event struct {
	Name string
	Data any
}

type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		streams: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe opens a stream for key. The returned func closes it and must be called once.
func (h *Hub) Subscribe(key string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.streams[key] == nil {
		h.streams[key] = make(map[chan Event]struct{})
	}
	h.streams[key][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.streams[key], ch)
			if len(h.streams[key]) == 0 {
				delete(h.streams, key)
			}
			close(ch)
		})
	}
}

// Publish never blocks; a full stream misses the event.
func (h *Hub) Publish(event Event, keys ...string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, key := range keys {
		for ch := range h.streams[key] {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[key])
}
