// Package hub fans session snapshots out to spectators.
package hub

import (
	"sync"

	"github.com/vancomm/minesweeper-remote/internal/mines"
)

type Hub struct {
	mu     sync.RWMutex
	latest mines.Snapshot
	subs   map[chan mines.Snapshot]struct{}
}

func New() *Hub {
	return &Hub{subs: make(map[chan mines.Snapshot]struct{})}
}

// Render stores snap as the latest frame and offers it to every
// subscriber. Slow subscribers only ever see the newest frame.
func (h *Hub) Render(snap mines.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = snap
	for ch := range h.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (h *Hub) Latest() mines.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Subscribe returns a channel that immediately holds the latest frame,
// and a function that ends the subscription.
func (h *Hub) Subscribe() (<-chan mines.Snapshot, func()) {
	ch := make(chan mines.Snapshot, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	ch <- h.latest
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
