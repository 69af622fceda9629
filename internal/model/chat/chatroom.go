package chat

import "time"

// Chatroom is one directory entry: metadata only, message bodies live in
// the message store keyed by the chatroom id.
type Chatroom struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"lastMessage"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
