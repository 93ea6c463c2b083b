package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// User is the profile cached alongside the session tokens
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the persisted authentication state. IsAuthenticated is
// derived from the token at save time so readers need not decode it.
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	RefreshToken    string `json:"refreshToken"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// SessionStore persists the session as a JSON file
type SessionStore struct {
	path string
}

// NewSessionStore creates a store at an explicit path
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionStore places the session file under the user config dir
func DefaultSessionStore() (*SessionStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &SessionStore{path: filepath.Join(dir, "financy", "session.json")}, nil
}

// Load reads the persisted session. A missing file yields an empty,
// unauthenticated session.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt session file is treated as logged out
		return &Session{}, nil
	}
	return &session, nil
}

// Save writes the session with owner-only permissions
func (s *SessionStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the persisted session
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
