// Package conversation orchestrates the messaging flow for each chatroom:
// optimistic sends, reply settlement against the configured provider and
// reverse pagination over synthetic history.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adityakhanna/gemini-chat/backend/internal/model/chat"
	chatroomstore "github.com/adityakhanna/gemini-chat/backend/internal/store/chatroom"
	messagestore "github.com/adityakhanna/gemini-chat/backend/internal/store/message"
)

const (
	// PageSize is the fixed length of one synthetic history page.
	PageSize = 20
	// FallbackReply stands in for the provider's answer when generation
	// fails; it is appended as a normal conversational turn.
	FallbackReply = "Sorry, I couldn’t process that."
	// ImagePlaceholder is the directory preview for image-only messages.
	ImagePlaceholder = "[Image]"

	// paginationSeed is the starting ordinal for rooms that have never
	// paginated.
	paginationSeed = 1000

	defaultReplyTimeout = 30 * time.Second
)

var (
	ErrEmptyMessage     = errors.New("message text or image is required")
	ErrChatroomNotFound = errors.New("chatroom not found")
	ErrReplyInFlight    = errors.New("a reply is already in flight for this chatroom")
)

// ReplyProvider generates a reply for a prompt. Implementations are opaque
// to the controller: text in, text out, or an error.
type ReplyProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config carries the controller tunables.
type Config struct {
	// ReplyTimeout bounds each detached reply task.
	ReplyTimeout time.Duration
	// OlderDelay simulates network latency on pagination. Zero means no
	// delay.
	OlderDelay time.Duration
}

// roomState tracks the per-chatroom send/reply machine (Idle when
// awaitingReply is false) plus pagination progress.
type roomState struct {
	awaitingReply bool
	loadingOlder  bool
	cursor        int
	page          int
}

// Service is the conversation controller. A nil provider degrades every
// reply to the fallback text, mirroring a permanently failing backend.
type Service struct {
	rooms    *chatroomstore.Store
	msgs     *messagestore.Store
	provider ReplyProvider
	hub      *Hub
	cfg      Config

	mu     sync.Mutex
	states map[string]*roomState
}

// NewService wires the controller to its stores and provider.
func NewService(rooms *chatroomstore.Store, msgs *messagestore.Store, provider ReplyProvider, cfg Config) *Service {
	if cfg.ReplyTimeout <= 0 {
		cfg.ReplyTimeout = defaultReplyTimeout
	}
	return &Service{
		rooms:    rooms,
		msgs:     msgs,
		provider: provider,
		hub:      NewHub(),
		cfg:      cfg,
		states:   make(map[string]*roomState),
	}
}

// Events exposes the hub feeding the SSE and WebSocket endpoints.
func (s *Service) Events() *Hub {
	return s.hub
}

func (s *Service) state(chatroomID string) *roomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[chatroomID]
	if !ok {
		st = &roomState{}
		s.states[chatroomID] = st
	}
	return st
}

// SendMessage appends the user's message, updates the directory preview and
// launches the reply task. A send while a reply is pending is rejected with
// ErrReplyInFlight instead of being queued.
func (s *Service) SendMessage(ctx context.Context, chatroomID, text, image string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && image == "" {
		return chat.Message{}, ErrEmptyMessage
	}
	if _, ok := s.rooms.Find(chatroomID); !ok {
		return chat.Message{}, ErrChatroomNotFound
	}

	st := s.state(chatroomID)
	s.mu.Lock()
	if st.awaitingReply {
		s.mu.Unlock()
		return chat.Message{}, ErrReplyInFlight
	}
	st.awaitingReply = true
	s.mu.Unlock()

	msg := chat.Message{
		ID:        "user-" + uuid.NewString(),
		Text:      text,
		Image:     image,
		Sender:    chat.SenderUser,
		CreatedAt: time.Now().UTC(),
	}
	s.msgs.Append(chatroomID, msg)

	preview := text
	if preview == "" {
		preview = ImagePlaceholder
	}
	s.rooms.UpdateLastMessage(chatroomID, preview)
	s.hub.Publish(Event{Type: EventMessage, ChatroomID: chatroomID, Message: &msg})

	// Detached on purpose: the reply settles into the stores regardless of
	// which view, if any, is still watching the room.
	go s.settleReply(st, chatroomID, text)

	return msg, nil
}

func (s *Service) settleReply(st *roomState, chatroomID, prompt string) {
	s.hub.Publish(Event{Type: EventTyping, ChatroomID: chatroomID, Typing: true})

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReplyTimeout)
	defer cancel()

	reply := FallbackReply
	if s.provider == nil {
		log.Printf("[conversation] no reply provider configured, using fallback for chatroom=%s", chatroomID)
	} else if text, err := s.provider.Generate(ctx, prompt); err != nil {
		log.Printf("[conversation] reply generation failed for chatroom=%s: %v", chatroomID, err)
	} else {
		reply = text
	}

	msg := chat.Message{
		ID:        "ai-" + uuid.NewString(),
		Text:      reply,
		Sender:    chat.SenderAI,
		CreatedAt: time.Now().UTC(),
	}
	s.msgs.Append(chatroomID, msg)
	s.rooms.UpdateLastMessage(chatroomID, reply)

	s.mu.Lock()
	st.awaitingReply = false
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventTyping, ChatroomID: chatroomID, Typing: false})
	s.hub.Publish(Event{Type: EventMessage, ChatroomID: chatroomID, Message: &msg})
}

// LoadOlder synthesizes one page of older history and prepends it to the
// room's log. A call while a page is already loading is a silent no-op and
// returns an empty page. The pagination cursor is an explicit per-room
// ordinal, not derived from message ids.
func (s *Service) LoadOlder(ctx context.Context, chatroomID string) ([]chat.Message, error) {
	if _, ok := s.rooms.Find(chatroomID); !ok {
		return nil, ErrChatroomNotFound
	}

	st := s.state(chatroomID)
	s.mu.Lock()
	if st.loadingOlder {
		s.mu.Unlock()
		return nil, nil
	}
	st.loadingOlder = true
	cursor := st.cursor
	if cursor == 0 {
		cursor = paginationSeed
	}
	s.mu.Unlock()

	if s.cfg.OlderDelay > 0 {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			st.loadingOlder = false
			s.mu.Unlock()
			return nil, ctx.Err()
		case <-time.After(s.cfg.OlderDelay):
		}
	}

	start := cursor + PageSize
	now := time.Now().UTC()
	page := make([]chat.Message, 0, PageSize)
	for i := 0; i < PageSize; i++ {
		ordinal := start - i
		sender := chat.SenderAI
		if i%2 == 1 {
			sender = chat.SenderUser
		}
		page = append(page, chat.Message{
			ID:        fmt.Sprintf("old-%d", ordinal),
			Text:      fmt.Sprintf("Older message #%d", ordinal),
			Sender:    sender,
			CreatedAt: now.Add(-time.Duration(ordinal) * time.Minute),
		})
	}
	s.msgs.Prepend(chatroomID, page)

	s.mu.Lock()
	st.cursor = start
	st.page++
	st.loadingOlder = false
	s.mu.Unlock()

	return page, nil
}

// Pages reports how many history pages the room has loaded.
func (s *Service) Pages(chatroomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.states[chatroomID]; ok {
		return st.page
	}
	return 0
}

// Transcript returns the room's current log.
func (s *Service) Transcript(ctx context.Context, chatroomID string) ([]chat.Message, error) {
	if _, ok := s.rooms.Find(chatroomID); !ok {
		return nil, ErrChatroomNotFound
	}
	return s.msgs.Transcript(chatroomID), nil
}

// DeleteChatroom removes the directory entry, its message log and any
// conversation state. A reply already in flight for the room still settles
// into the message store afterwards; that is accepted, the store is the
// durable target.
func (s *Service) DeleteChatroom(ctx context.Context, chatroomID string) {
	s.rooms.Delete(chatroomID)
	s.msgs.Clear(chatroomID)

	s.mu.Lock()
	delete(s.states, chatroomID)
	s.mu.Unlock()
}
