package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authHandler "github.com/adityakhanna/gemini-chat/backend/internal/handler/auth"
	chatroomHandler "github.com/adityakhanna/gemini-chat/backend/internal/handler/chatroom"
	conversationHandler "github.com/adityakhanna/gemini-chat/backend/internal/handler/conversation"
	middlewarePkg "github.com/adityakhanna/gemini-chat/backend/internal/middleware"
	authService "github.com/adityakhanna/gemini-chat/backend/internal/service/auth"
	"github.com/adityakhanna/gemini-chat/backend/internal/service/conversation"
	"github.com/adityakhanna/gemini-chat/backend/internal/service/countries"
	chatroomstore "github.com/adityakhanna/gemini-chat/backend/internal/store/chatroom"
	sessionstore "github.com/adityakhanna/gemini-chat/backend/internal/store/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	rooms *chatroomstore.Store,
	sessions *sessionstore.Store,
	authSvc *authService.Service,
	convSvc *conversation.Service,
	countriesClient *countries.Client,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		authHandler.New(authSvc, sessions, countriesClient).RegisterRoutes(api)
		chatroomHandler.New(rooms, convSvc).RegisterRoutes(api)
		conversationHandler.New(convSvc).RegisterRoutes(api)
	})

	return r
}
