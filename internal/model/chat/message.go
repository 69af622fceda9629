package chat

import "time"

// Message senders. Synthetic history pages reuse both senders but carry an
// "old-" id prefix instead of "user-"/"ai-".
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Message is a single conversational turn. Image holds a client-embedded
// data URI; there is no server-side media storage.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text,omitempty"`
	Image     string    `json:"image,omitempty"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}
