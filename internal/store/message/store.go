// Package message holds the per-chatroom message logs, written through to
// storage as one snapshot covering every room.
package message

import (
	"sync"

	"github.com/adityakhanna/gemini-chat/backend/internal/model/chat"
	"github.com/adityakhanna/gemini-chat/backend/internal/storage"
)

// Store maps chatroom ids to ordered message logs. Logs are chronological:
// live messages are appended, older synthetic pages are prepended wholesale.
type Store struct {
	mu         sync.RWMutex
	byChatroom map[string][]chat.Message
	bridge     storage.Bridge
}

// NewStore restores the message map from the bridge.
func NewStore(bridge storage.Bridge) *Store {
	s := &Store{
		byChatroom: make(map[string][]chat.Message),
		bridge:     bridge,
	}
	bridge.Load(storage.KeyMessages, &s.byChatroom)
	if s.byChatroom == nil {
		s.byChatroom = make(map[string][]chat.Message)
	}
	return s
}

// Append pushes a message onto the end of the chatroom's log, creating the
// log when absent.
func (s *Store) Append(chatroomID string, msg chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byChatroom[chatroomID] = append(s.byChatroom[chatroomID], msg)
	s.bridge.Save(storage.KeyMessages, s.byChatroom)
}

// Prepend splices older (already in chronological order) before the current
// log.
func (s *Store) Prepend(chatroomID string, older []chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]chat.Message, 0, len(older)+len(s.byChatroom[chatroomID]))
	merged = append(merged, older...)
	merged = append(merged, s.byChatroom[chatroomID]...)
	s.byChatroom[chatroomID] = merged
	s.bridge.Save(storage.KeyMessages, s.byChatroom)
}

// Clear drops the chatroom's entire log.
func (s *Store) Clear(chatroomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byChatroom, chatroomID)
	s.bridge.Save(storage.KeyMessages, s.byChatroom)
}

// Transcript returns a copy of the chatroom's log, oldest first.
func (s *Store) Transcript(chatroomID string) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chat.Message(nil), s.byChatroom[chatroomID]...)
}
