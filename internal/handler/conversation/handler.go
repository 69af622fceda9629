package conversation

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	convService "github.com/adityakhanna/gemini-chat/backend/internal/service/conversation"
	"github.com/adityakhanna/gemini-chat/backend/pkg/utils"
)

const heartbeatInterval = 8 * time.Second

// Handler serves the per-room conversation surface: transcript, sends,
// pagination and the live event feeds.
type Handler struct {
	convSvc  *convService.Service
	upgrader websocket.Upgrader
}

// New creates the conversation handler.
func New(convSvc *convService.Service) *Handler {
	return &Handler{
		convSvc: convSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the conversation endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chatrooms/{chatroomID}/messages", h.handleTranscript)
	r.Post("/chatrooms/{chatroomID}/messages", h.handleSend)
	r.Post("/chatrooms/{chatroomID}/messages/older", h.handleLoadOlder)
	r.Get("/chatrooms/{chatroomID}/stream", h.handleStream)
	r.Get("/chatrooms/{chatroomID}/ws", h.handleWebSocket)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	chatroomID := chi.URLParam(r, "chatroomID")

	messages, err := h.convSvc.Transcript(r.Context(), chatroomID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	chatroomID := chi.URLParam(r, "chatroomID")

	var payload struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.convSvc.SendMessage(r.Context(), chatroomID, payload.Text, payload.Image)
	if err != nil {
		switch {
		case errors.Is(err, convService.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, convService.ErrChatroomNotFound):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, convService.ErrReplyInFlight):
			utils.RespondError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, msg)
}

func (h *Handler) handleLoadOlder(w http.ResponseWriter, r *http.Request) {
	chatroomID := chi.URLParam(r, "chatroomID")

	page, err := h.convSvc.LoadOlder(r.Context(), chatroomID)
	if err != nil {
		if errors.Is(err, convService.ErrChatroomNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": page,
		"page":     h.convSvc.Pages(chatroomID),
	})
}

// handleStream feeds chatroom events over Server-Sent Events, with a
// heartbeat so intermediaries keep the connection open.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	chatroomID := chi.URLParam(r, "chatroomID")

	if _, err := h.convSvc.Transcript(r.Context(), chatroomID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.convSvc.Events().Subscribe(chatroomID)
	defer cancel()

	ctx := r.Context()
	log.Printf("[sse] opening event stream for chatroom=%s", chatroomID)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing event stream for chatroom=%s", chatroomID)
			return
		case event := <-events:
			utils.SendSSEEvent(w, flusher, event.Type, event)
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		}
	}
}

// handleWebSocket feeds the same chatroom events over a WebSocket.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	chatroomID := chi.URLParam(r, "chatroomID")

	if _, err := h.convSvc.Transcript(r.Context(), chatroomID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for chatroom=%s: %v", chatroomID, err)
		return
	}
	defer conn.Close()

	events, cancel := h.convSvc.Events().Subscribe(chatroomID)
	defer cancel()

	// Drain client frames so ping/pong and close are processed; the feed is
	// one-way.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[ws] write failed for chatroom=%s: %v", chatroomID, err)
				return
			}
		}
	}
}
