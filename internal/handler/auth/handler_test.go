package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	authservice "github.com/adityakhanna/gemini-chat/backend/internal/service/auth"
	"github.com/adityakhanna/gemini-chat/backend/internal/service/countries"
	"github.com/adityakhanna/gemini-chat/backend/internal/storage"
	sessionstore "github.com/adityakhanna/gemini-chat/backend/internal/store/session"
)

func setupRouter(t *testing.T) (*chi.Mux, *sessionstore.Store) {
	t.Helper()

	bridge, err := storage.NewFileBridge(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBridge err: %v", err)
	}

	sessions := sessionstore.NewStore(bridge)
	authSvc := authservice.NewService(sessions, authservice.Config{})

	// The countries endpoint is not under test here; an unreachable URL
	// exercises the degrade-to-empty path.
	countriesClient := countries.NewClient("http://127.0.0.1:0")

	r := chi.NewRouter()
	New(authSvc, sessions, countriesClient).RegisterRoutes(r)
	return r, sessions
}

func postJSON(t *testing.T, r *chi.Mux, path string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSendOTPInvalidPhone(t *testing.T) {
	r, _ := setupRouter(t)

	resp := postJSON(t, r, "/auth/otp/send", map[string]string{
		"countryCode": "+91",
		"phoneNumber": "12345",
	})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	r, sessions := setupRouter(t)

	resp := postJSON(t, r, "/auth/otp/verify", map[string]string{
		"countryCode": "+91",
		"phoneNumber": "9876543210",
		"otp":         "000000",
	})

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if sessions.Snapshot().LoggedIn {
		t.Fatal("wrong code must not log in")
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	r, sessions := setupRouter(t)

	resp := postJSON(t, r, "/auth/otp/verify", map[string]string{
		"countryCode": "+91",
		"phoneNumber": "9876543210",
		"otp":         "123456",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !sessions.Snapshot().LoggedIn {
		t.Fatal("expected logged-in session")
	}

	resp = postJSON(t, r, "/auth/logout", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if sessions.Snapshot().LoggedIn {
		t.Fatal("expected logged-out session")
	}
}

func TestToggleDarkMode(t *testing.T) {
	r, sessions := setupRouter(t)

	resp := postJSON(t, r, "/auth/dark-mode", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]bool
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body["darkMode"] {
		t.Fatal("expected dark mode enabled")
	}
	if !sessions.Snapshot().DarkMode {
		t.Fatal("store not updated")
	}
}

func TestSessionEndpoint(t *testing.T) {
	r, sessions := setupRouter(t)
	sessions.Login("+919876543210")

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var state sessionstore.State
	if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !state.LoggedIn || state.UserPhone != "+919876543210" {
		t.Fatalf("unexpected session state: %+v", state)
	}
}
