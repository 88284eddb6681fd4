package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload published to a workspace's subscribers.
type Event struct {
	Type    string `json:"type"`
	GameID  string `json:"gameId,omitempty"`
	TouchID string `json:"touchId,omitempty"`
	Written int    `json:"written,omitempty"`
}

const (
	eventGameCreated  = "game_created"
	eventGameSelected = "game_selected"
	eventGameDeleted  = "game_deleted"
	eventTouchAdded   = "touch_added"
	eventTouchUpdated = "touch_updated"
	eventTouchRemoved = "touch_removed"
	eventSynced       = "synced"
)

// Broker is an in-process pub/sub for SSE events, keyed by session token so
// every open tab of one session sees the same changes.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given session.
func (b *Broker) Subscribe(token string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[token] == nil {
		b.subs[token] = make(map[chan []byte]struct{})
	}
	b.subs[token][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the session's subscribers.
func (b *Broker) Unsubscribe(token string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[token], ch)
	if len(b.subs[token]) == 0 {
		delete(b.subs, token)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given session.
func (b *Broker) Publish(token string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[token] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
