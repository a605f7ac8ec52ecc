package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 32

// Hub is an in-process broker. Slow subscribers miss events instead of
// blocking publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, room := range ev.Rooms {
		for ch := range h.subs[room] {
			select {
			case ch <- ev:
			default:
			}
		}
	}
	return nil
}

func (h *Hub) Subscribe(_ context.Context, room string) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[room] == nil {
		h.subs[room] = make(map[chan Event]struct{})
	}
	h.subs[room][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[room], ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

var _ Broker = (*Hub)(nil)
