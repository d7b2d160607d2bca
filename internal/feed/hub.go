package feed

import (
	"sync"
	"time"
)

// EventType identifies live feed payload variants.
type EventType string

const (
	TypeArtifact    EventType = "artifact"
	TypeScamFlagged EventType = "scam_flagged"
	TypeReply       EventType = "reply"
	TypeReport      EventType = "report"
	TypeSessionEnd  EventType = "session_end"
)

// Event is one engine occurrence pushed to connected operator consoles.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Turn      int       `json:"turn"`
	Category  string    `json:"category,omitempty"`
	Value     string    `json:"value,omitempty"`
	At        time.Time `json:"at"`
}

const subscriberBuffer = 64

// Hub fans engine events out to websocket subscribers. Publish never blocks:
// a subscriber that cannot keep up loses events, not the engine.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a consumer. The returned cancel must be called exactly
// once; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room in its buffer.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports how many consoles are connected.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
