// Package session holds login state and display preferences. Identity and
// the dark-mode flag use distinct persistence keys so logging out never
// erases the preference.
package session

import (
	"sync"

	"github.com/adityakhanna/gemini-chat/backend/internal/storage"
)

type authSnapshot struct {
	UserPhone string `json:"userPhone"`
}

// State is a read-only view of the session store.
type State struct {
	LoggedIn  bool   `json:"loggedIn"`
	UserPhone string `json:"userPhone"`
	DarkMode  bool   `json:"darkMode"`
}

// Store owns session and preference state for the process.
type Store struct {
	mu        sync.RWMutex
	loggedIn  bool
	userPhone string
	darkMode  bool
	bridge    storage.Bridge
}

// NewStore restores identity and preferences from storage. A usable auth
// snapshot restores the logged-in session; dark mode is loaded either way.
func NewStore(bridge storage.Bridge) *Store {
	s := &Store{bridge: bridge}

	var auth authSnapshot
	if bridge.Load(storage.KeyAuth, &auth) && auth.UserPhone != "" {
		s.loggedIn = true
		s.userPhone = auth.UserPhone
	}
	bridge.Load(storage.KeyDarkMode, &s.darkMode)
	return s
}

// Login records the verified phone number and persists the identity.
func (s *Store) Login(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loggedIn = true
	s.userPhone = phone
	s.bridge.Save(storage.KeyAuth, authSnapshot{UserPhone: phone})
}

// Logout clears the identity in memory and in storage. The dark-mode key is
// untouched.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loggedIn = false
	s.userPhone = ""
	s.bridge.Delete(storage.KeyAuth)
}

// ToggleDarkMode flips the preference, persists it and returns the new value.
func (s *Store) ToggleDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.darkMode = !s.darkMode
	s.bridge.Save(storage.KeyDarkMode, s.darkMode)
	return s.darkMode
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{LoggedIn: s.loggedIn, UserPhone: s.userPhone, DarkMode: s.darkMode}
}
