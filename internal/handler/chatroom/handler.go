package chatroom

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/adityakhanna/gemini-chat/backend/internal/service/conversation"
	chatroomstore "github.com/adityakhanna/gemini-chat/backend/internal/store/chatroom"
	"github.com/adityakhanna/gemini-chat/backend/pkg/utils"
)

// Handler serves the chatroom directory.
type Handler struct {
	rooms   *chatroomstore.Store
	convSvc *conversation.Service
}

// New creates the chatroom handler. Deletion goes through the conversation
// service so the message log and room state are removed together.
func New(rooms *chatroomstore.Store, convSvc *conversation.Service) *Handler {
	return &Handler{rooms: rooms, convSvc: convSvc}
}

// RegisterRoutes mounts the directory endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chatrooms", h.handleList)
	r.Post("/chatrooms", h.handleCreate)
	r.Delete("/chatrooms/{chatroomID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.rooms.List())
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		utils.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	room := h.rooms.Add(title)
	utils.RespondJSON(w, http.StatusCreated, room)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	chatroomID := chi.URLParam(r, "chatroomID")
	h.convSvc.DeleteChatroom(r.Context(), chatroomID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
