// Package chatroom holds the chatroom directory: metadata for every room,
// most-recent-first, written through to storage on each mutation.
package chatroom

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adityakhanna/gemini-chat/backend/internal/model/chat"
	"github.com/adityakhanna/gemini-chat/backend/internal/storage"
)

// Store owns the ordered chatroom collection. All mutations persist a full
// snapshot; there is no delta persistence.
type Store struct {
	mu        sync.RWMutex
	chatrooms []chat.Chatroom
	bridge    storage.Bridge
}

// NewStore restores the directory from the bridge, starting empty when no
// usable snapshot exists.
func NewStore(bridge storage.Bridge) *Store {
	s := &Store{bridge: bridge}
	bridge.Load(storage.KeyChatrooms, &s.chatrooms)
	return s
}

// Add creates a chatroom and inserts it at the head of the directory.
// Title validation happens at the HTTP boundary, not here.
func (s *Store) Add(title string) chat.Chatroom {
	room := chat.Chatroom{
		ID:        uuid.NewString(),
		Title:     title,
		UpdatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chatrooms = append([]chat.Chatroom{room}, s.chatrooms...)
	s.bridge.Save(storage.KeyChatrooms, s.chatrooms)
	return room
}

// Delete removes the chatroom with the given id. Deleting an unknown id is
// a no-op, not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chatrooms[:0]
	for _, room := range s.chatrooms {
		if room.ID != id {
			kept = append(kept, room)
		}
	}
	s.chatrooms = kept
	s.bridge.Save(storage.KeyChatrooms, s.chatrooms)
}

// UpdateLastMessage replaces the room's preview text and bumps UpdatedAt.
// Unknown ids are ignored.
func (s *Store) UpdateLastMessage(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.chatrooms {
		if s.chatrooms[i].ID == id {
			s.chatrooms[i].LastMessage = text
			s.chatrooms[i].UpdatedAt = time.Now().UTC()
			break
		}
	}
	s.bridge.Save(storage.KeyChatrooms, s.chatrooms)
}

// List returns a copy of the directory in display order.
func (s *Store) List() []chat.Chatroom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chat.Chatroom(nil), s.chatrooms...)
}

// Find looks up a chatroom by id.
func (s *Store) Find(id string) (chat.Chatroom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.chatrooms {
		if room.ID == id {
			return room, true
		}
	}
	return chat.Chatroom{}, false
}
