package conversation

import (
	"sync"

	"github.com/adityakhanna/gemini-chat/backend/internal/model/chat"
)

// Event types published on the hub.
const (
	EventMessage = "message"
	EventTyping  = "typing"
)

// Event is a chatroom-scoped notification consumed by the SSE and WebSocket
// feeds.
type Event struct {
	Type       string        `json:"type"`
	ChatroomID string        `json:"chatroomId"`
	Message    *chat.Message `json:"message,omitempty"`
	Typing     bool          `json:"typing,omitempty"`
}

// Hub fans events out to per-chatroom subscribers. Publishing never blocks:
// a subscriber whose buffer is full misses the event rather than stalling
// the conversation flow.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a listener for one chatroom. The returned cancel
// function must be called exactly once; it closes the channel.
func (h *Hub) Subscribe(chatroomID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.subs[chatroomID] == nil {
		h.subs[chatroomID] = make(map[chan Event]struct{})
	}
	h.subs[chatroomID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[chatroomID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, chatroomID)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its chatroom.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[event.ChatroomID] {
		select {
		case ch <- event:
		default:
		}
	}
}
