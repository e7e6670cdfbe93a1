// Package ws implements the live connection registry: it tracks, per
// user, the set of currently-open WebSocket connections and exposes
// them to the notification dispatcher as push channels.
package ws

import (
	"log"
	"sync"

	"github.com/yukikurage/project-management-api/internal/notify"
)

// Hub maps user IDs to their open clients. A user may hold several
// connections (tabs, devices) or none at all; zero channels is the
// normal degraded state, never an error.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]map[*Client]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint64]map[*Client]struct{}),
	}
}

// Register adds an authenticated client's connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	log.Printf("ws hub: user %d connected (%d connections)", c.userID, len(set))
}

// Unregister removes a client and shuts it down. Safe to call more
// than once for the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.userID]
	if ok {
		if _, present := set[c]; present {
			delete(set, c)
			if len(set) == 0 {
				delete(h.clients, c.userID)
			}
			log.Printf("ws hub: user %d disconnected (%d connections left)", c.userID, len(set))
		}
	}
	h.mu.Unlock()

	c.shutdown()
}

// ChannelsFor returns the user's open channels as seen by the
// dispatcher. The slice is a snapshot; a channel may still go stale
// between this call and Send.
func (h *Hub) ChannelsFor(userID uint64) []notify.Channel {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set, ok := h.clients[userID]
	if !ok {
		return nil
	}

	channels := make([]notify.Channel, 0, len(set))
	for c := range set {
		channels = append(channels, c)
	}
	return channels
}

// ConnectionCount reports how many connections a user currently holds.
func (h *Hub) ConnectionCount(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
