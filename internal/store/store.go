// Package store persists the single piece of durable client state: the
// active session id. It survives restarts and holds exactly one slot.
package store

import (
	"os"
	"path/filepath"
	"strings"
)

const sessionFile = "session"

// SessionStore persists the active session id in a file under the client's
// config directory.
type SessionStore struct {
	path string
}

// New creates a store rooted at dir.
func New(dir string) *SessionStore {
	return &SessionStore{path: filepath.Join(dir, sessionFile)}
}

// Load returns the stored session id. A missing, empty, or unreadable file
// reads as absent.
func (s *SessionStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", false
	}
	return id, true
}

// Save persists the session id, replacing any previous value.
func (s *SessionStore) Save(id string) error {
	return os.WriteFile(s.path, []byte(id+"\n"), 0o644)
}

// Clear removes the stored session id.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
