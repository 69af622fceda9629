package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authService "github.com/adityakhanna/gemini-chat/backend/internal/service/auth"
	"github.com/adityakhanna/gemini-chat/backend/internal/service/countries"
	sessionstore "github.com/adityakhanna/gemini-chat/backend/internal/store/session"
	"github.com/adityakhanna/gemini-chat/backend/pkg/utils"
)

// Handler serves the login flow, session state and preferences.
type Handler struct {
	authSvc   *authService.Service
	sessions  *sessionstore.Store
	countries *countries.Client
}

// New creates the auth handler.
func New(authSvc *authService.Service, sessions *sessionstore.Store, countriesClient *countries.Client) *Handler {
	return &Handler{
		authSvc:   authSvc,
		sessions:  sessions,
		countries: countriesClient,
	}
}

// RegisterRoutes mounts the auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/countries", h.handleListCountries)
	r.Post("/auth/otp/send", h.handleSendOTP)
	r.Post("/auth/otp/verify", h.handleVerifyOTP)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/session", h.handleSession)
	r.Post("/auth/dark-mode", h.handleToggleDarkMode)
}

func (h *Handler) handleListCountries(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.countries.Fetch(r.Context()))
}

func (h *Handler) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CountryCode string `json:"countryCode"`
		PhoneNumber string `json:"phoneNumber"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.SendOTP(r.Context(), payload.CountryCode, payload.PhoneNumber); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CountryCode string `json:"countryCode"`
		PhoneNumber string `json:"phoneNumber"`
		OTP         string `json:"otp"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.authSvc.VerifyOTP(r.Context(), payload.CountryCode, payload.PhoneNumber, payload.OTP)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, authService.ErrInvalidOTP) {
			status = http.StatusUnauthorized
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.sessions.Snapshot())
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	utils.RespondJSON(w, http.StatusOK, h.sessions.Snapshot())
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.sessions.Snapshot())
}

func (h *Handler) handleToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	darkMode := h.sessions.ToggleDarkMode()
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"darkMode": darkMode})
}
